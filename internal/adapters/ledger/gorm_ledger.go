// Package ledger moves money in and out of customer funding accounts
package ledger

import (
	"context"
	"errors"

	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/adapters/persistence/repositories"
	"loanhub/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GormLedger keeps balances in the accounts table. Calls made with a ctx
// from UnitOfWork.Do join that transaction.
type GormLedger struct {
	db *gorm.DB
}

// NewGormLedger creates a new ledger
func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db}
}

// Credit adds amount to the account balance
func (l *GormLedger) Credit(ctx context.Context, accountID uint, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrNonPositiveAmount
	}
	result := repositories.DBFromContext(ctx, l.db).
		Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}

	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"amount":     amount.StringFixed(2),
	}).Debug("ledger credit")
	return nil
}

// Debit takes amount from the account balance. A balance below amount
// leaves the account untouched and returns an InsufficientFundsError.
func (l *GormLedger) Debit(ctx context.Context, accountID uint, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrNonPositiveAmount
	}
	db := repositories.DBFromContext(ctx, l.db)

	result := db.Model(&models.Account{}).
		Where("id = ? AND balance >= ?", accountID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"amount":     amount.StringFixed(2),
		}).Debug("ledger debit")
		return nil
	}

	balance, err := l.Balance(ctx, accountID)
	if err != nil {
		return err
	}
	return domain.NewInsufficientFunds(amount, balance)
}

// Balance returns the current balance of an account
func (l *GormLedger) Balance(ctx context.Context, accountID uint) (decimal.Decimal, error) {
	var account models.Account
	err := repositories.DBFromContext(ctx, l.db).First(&account, accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}
