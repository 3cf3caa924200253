package repositories

import (
	"context"
	"errors"

	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/core/domain"

	"gorm.io/gorm"
)

// LoanTypeRepository handles the loan type rate table
type LoanTypeRepository struct {
	db *gorm.DB
}

// NewLoanTypeRepository creates a new loan type repository
func NewLoanTypeRepository(db *gorm.DB) *LoanTypeRepository {
	return &LoanTypeRepository{db: db}
}

// GetAll gets all loan types
func (r *LoanTypeRepository) GetAll(ctx context.Context, activeOnly bool) ([]*models.LoanType, error) {
	var loanTypes []*models.LoanType
	query := DBFromContext(ctx, r.db)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("code ASC").Find(&loanTypes).Error
	return loanTypes, err
}

// GetByCode gets an active loan type by code
func (r *LoanTypeRepository) GetByCode(ctx context.Context, code domain.LoanType) (*models.LoanType, error) {
	var loanType models.LoanType
	err := DBFromContext(ctx, r.db).
		Where("code = ? AND is_active = ?", code, true).
		First(&loanType).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrLoanTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &loanType, nil
}
