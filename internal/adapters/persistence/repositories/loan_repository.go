package repositories

import (
	"context"
	"errors"

	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/core/domain"

	"gorm.io/gorm"
)

// LoanRepository handles loan data access
type LoanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

// Create creates a new loan
func (r *LoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	if loan.Version == 0 {
		loan.Version = 1
	}
	return DBFromContext(ctx, r.db).Create(loan).Error
}

// GetByID gets a loan by ID
func (r *LoanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := DBFromContext(ctx, r.db).First(&loan, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// GetByNumber gets a loan by its loan number
func (r *LoanRepository) GetByNumber(ctx context.Context, loanNumber string) (*models.Loan, error) {
	var loan models.Loan
	err := DBFromContext(ctx, r.db).Where("loan_number = ?", loanNumber).First(&loan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// List lists loans, optionally filtered by status, newest first
func (r *LoanRepository) List(ctx context.Context, status domain.LoanStatus, offset, limit int) ([]*models.Loan, int64, error) {
	var loans []*models.Loan
	var total int64

	byStatus := func(db *gorm.DB) *gorm.DB {
		if status != "" {
			return db.Where("status = ?", status)
		}
		return db
	}

	if err := DBFromContext(ctx, r.db).Model(&models.Loan{}).Scopes(byStatus).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := DBFromContext(ctx, r.db).
		Scopes(byStatus).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&loans).Error

	return loans, total, err
}

// ListByCustomer lists every loan of a customer, newest first
func (r *LoanRepository) ListByCustomer(ctx context.Context, customerID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := DBFromContext(ctx, r.db).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&loans).Error
	return loans, err
}

// Update writes every column of the loan if nobody else changed it since it
// was read. The version is bumped on success; ErrConcurrentUpdate is returned
// when the stored version no longer matches.
func (r *LoanRepository) Update(ctx context.Context, loan *models.Loan) error {
	current := loan.Version
	loan.Version = current + 1

	result := DBFromContext(ctx, r.db).
		Model(loan).
		Where("version = ?", current).
		Select("*").
		Omit("created_at").
		Updates(loan)
	if result.Error != nil {
		loan.Version = current
		return result.Error
	}
	if result.RowsAffected == 0 {
		loan.Version = current
		return domain.ErrConcurrentUpdate
	}
	return nil
}
