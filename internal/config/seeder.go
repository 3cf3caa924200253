package config

import (
	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// demoCustomerID owns the development funding account
const demoCustomerID uint = 1

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	logrus.Info("🌱 Running database seeders...")

	if err := s.seedDemoAccount(); err != nil {
		logrus.WithError(err).Warn("⚠️ Demo account seeder skipped")
	}

	logrus.Info("✅ Database seeding completed")
	return nil
}

// seedDemoAccount seeds a funding account and tier for the demo customer.
// This is for development/testing only.
func (s *Seeder) seedDemoAccount() error {
	var count int64
	if err := s.db.Model(&models.Account{}).Where("customer_id = ?", demoCustomerID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	account := &models.Account{
		AccountNumber: "DEMO-0000000001",
		CustomerID:    demoCustomerID,
		Balance:       decimal.NewFromInt(50000),
	}
	if err := s.db.Create(account).Error; err != nil {
		return err
	}

	tier := &models.CustomerTier{CustomerID: demoCustomerID, Tier: domain.TierGold}
	if err := s.db.Save(tier).Error; err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"account_id":  account.ID,
		"customer_id": demoCustomerID,
	}).Info("✅ Demo account created")
	return nil
}
