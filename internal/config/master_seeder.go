package config

import (
	"errors"

	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedMasterData seeds initial master data
func SeedMasterData(db *gorm.DB) error {
	// Seed Loan Types
	if err := seedLoanTypes(db); err != nil {
		return err
	}

	logrus.Info("✅ Master data seeded successfully")
	return nil
}

// DefaultLoanTypes is the fixed annual rate table
func DefaultLoanTypes() []models.LoanType {
	return []models.LoanType{
		{
			Code:         domain.LoanTypePersonal,
			Name:         "Personal Loan",
			Description:  "Unsecured loan for personal expenses",
			InterestRate: decimal.RequireFromString("12.00"),
			IsActive:     true,
		},
		{
			Code:         domain.LoanTypeHome,
			Name:         "Home Loan",
			Description:  "Purchase or construction of a residence",
			InterestRate: decimal.RequireFromString("8.50"),
			IsActive:     true,
		},
		{
			Code:         domain.LoanTypeAuto,
			Name:         "Auto Loan",
			Description:  "New or used vehicle purchase",
			InterestRate: decimal.RequireFromString("9.50"),
			IsActive:     true,
		},
		{
			Code:         domain.LoanTypeEducation,
			Name:         "Education Loan",
			Description:  "Tuition and study expenses",
			InterestRate: decimal.RequireFromString("7.00"),
			IsActive:     true,
		},
		{
			Code:         domain.LoanTypeBusiness,
			Name:         "Business Loan",
			Description:  "Working capital for small businesses",
			InterestRate: decimal.RequireFromString("14.00"),
			IsActive:     true,
		},
		{
			Code:         domain.LoanTypeGold,
			Name:         "Gold Loan",
			Description:  "Loan secured against pledged gold",
			InterestRate: decimal.RequireFromString("10.00"),
			IsActive:     true,
		},
	}
}

func seedLoanTypes(db *gorm.DB) error {
	for _, lt := range DefaultLoanTypes() {
		var existing models.LoanType
		err := db.Where("code = ?", lt.Code).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&lt).Error; err != nil {
			return err
		}
		logrus.WithField("code", lt.Code).Info("   Created loan_type")
	}
	return nil
}
