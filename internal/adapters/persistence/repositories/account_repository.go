package repositories

import (
	"context"
	"errors"

	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/core/domain"

	"gorm.io/gorm"
)

// AccountRepository reads funding accounts. Balances move through the ledger.
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetOwned gets an account only if it belongs to customerID
func (r *AccountRepository) GetOwned(ctx context.Context, id, customerID uint) (*models.Account, error) {
	var account models.Account
	err := DBFromContext(ctx, r.db).
		Where("id = ? AND customer_id = ?", id, customerID).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}
