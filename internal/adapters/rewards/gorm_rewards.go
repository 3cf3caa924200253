// Package rewards answers tier lookups and journals awarded points and
// cashback
package rewards

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

// GormRewards reads customer_tiers and appends to reward_entries
type GormRewards struct {
	db *gorm.DB
}

// NewGormRewards creates a new rewards adapter
func NewGormRewards(db *gorm.DB) *GormRewards {
	return &GormRewards{db: db}
}

// TierOf returns the customer's tier. Customers without a stored tier are
// SILVER.
func (r *GormRewards) TierOf(ctx context.Context, customerID uint) (domain.Tier, error) {
	var tier models.CustomerTier
	err := repositories.DBFromContext(ctx, r.db).First(&tier, "customer_id = ?", customerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.TierSilver, nil
	}
	if err != nil {
		return "", err
	}
	return tier.Tier, nil
}

// SetTier stores the customer's tier
func (r *GormRewards) SetTier(ctx context.Context, customerID uint, tier domain.Tier) error {
	return repositories.DBFromContext(ctx, r.db).
		Save(&models.CustomerTier{CustomerID: customerID, Tier: tier}).Error
}

// AwardPoints journals loyalty points
func (r *GormRewards) AwardPoints(ctx context.Context, customerID uint, points int, category, note string) error {
	entry := &models.RewardEntry{
		CustomerID: customerID,
		Kind:       models.RewardKindPoints,
		Category:   category,
		Points:     points,
		Note:       note,
	}
	if err := repositories.DBFromContext(ctx, r.db).Create(entry).Error; err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"customer_id": customerID,
		"points":      points,
		"category":    category,
	}).Info("🎁 Points awarded")
	return nil
}

// AwardCashback journals a cashback of amount, which was percent of the
// qualifying payment
func (r *GormRewards) AwardCashback(ctx context.Context, customerID uint, amount, percent decimal.Decimal, note string) error {
	entry := &models.RewardEntry{
		CustomerID: customerID,
		Kind:       models.RewardKindCashback,
		Category:   domain.RewardPrepayment,
		Amount:     amount,
		Percent:    percent,
		Note:       note,
	}
	if err := repositories.DBFromContext(ctx, r.db).Create(entry).Error; err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"customer_id": customerID,
		"amount":      amount.StringFixed(2),
	}).Info("🎁 Cashback awarded")
	return nil
}

// ListByCustomer lists a customer's reward entries, newest first
func (r *GormRewards) ListByCustomer(ctx context.Context, customerID uint) ([]*models.RewardEntry, error) {
	var entries []*models.RewardEntry
	err := repositories.DBFromContext(ctx, r.db).
		Where("customer_id = ?", customerID).
		Order("id DESC").
		Find(&entries).Error
	return entries, err
}
