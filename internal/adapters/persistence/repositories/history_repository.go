package repositories

import (
	"context"
	"errors"

	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/core/domain"

	"gorm.io/gorm"
)

// RepaymentRepository handles repayment journal access
type RepaymentRepository struct {
	db *gorm.DB
}

// NewRepaymentRepository creates a new repayment repository
func NewRepaymentRepository(db *gorm.DB) *RepaymentRepository {
	return &RepaymentRepository{db: db}
}

// Create records a repayment
func (r *RepaymentRepository) Create(ctx context.Context, repayment *models.Repayment) error {
	return DBFromContext(ctx, r.db).Create(repayment).Error
}

// ListByLoan lists a loan's repayments, newest first
func (r *RepaymentRepository) ListByLoan(ctx context.Context, loanID uint) ([]*models.Repayment, error) {
	var repayments []*models.Repayment
	err := DBFromContext(ctx, r.db).
		Where("loan_id = ?", loanID).
		Order("paid_at DESC, id DESC").
		Find(&repayments).Error
	return repayments, err
}

// PrepaymentRepository handles prepayment history access
type PrepaymentRepository struct {
	db *gorm.DB
}

// NewPrepaymentRepository creates a new prepayment repository
func NewPrepaymentRepository(db *gorm.DB) *PrepaymentRepository {
	return &PrepaymentRepository{db: db}
}

// Create records a prepayment
func (r *PrepaymentRepository) Create(ctx context.Context, prepayment *models.Prepayment) error {
	return DBFromContext(ctx, r.db).Create(prepayment).Error
}

// ListByLoan lists a loan's prepayments, newest first
func (r *PrepaymentRepository) ListByLoan(ctx context.Context, loanID uint) ([]*models.Prepayment, error) {
	var prepayments []*models.Prepayment
	err := DBFromContext(ctx, r.db).
		Where("loan_id = ?", loanID).
		Order("prepaid_at DESC, id DESC").
		Find(&prepayments).Error
	return prepayments, err
}

// RestructureRepository handles restructure request access
type RestructureRepository struct {
	db *gorm.DB
}

// NewRestructureRepository creates a new restructure repository
func NewRestructureRepository(db *gorm.DB) *RestructureRepository {
	return &RestructureRepository{db: db}
}

// Create stores a new restructure request
func (r *RestructureRepository) Create(ctx context.Context, restructure *models.Restructure) error {
	return DBFromContext(ctx, r.db).Create(restructure).Error
}

// GetByID gets a restructure request by ID
func (r *RestructureRepository) GetByID(ctx context.Context, id uint) (*models.Restructure, error) {
	var restructure models.Restructure
	err := DBFromContext(ctx, r.db).First(&restructure, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRestructureNotFound
	}
	if err != nil {
		return nil, err
	}
	return &restructure, nil
}

// Update saves a restructure request
func (r *RestructureRepository) Update(ctx context.Context, restructure *models.Restructure) error {
	return DBFromContext(ctx, r.db).Save(restructure).Error
}

// ListByLoan lists a loan's restructure requests, newest first
func (r *RestructureRepository) ListByLoan(ctx context.Context, loanID uint) ([]*models.Restructure, error) {
	var restructures []*models.Restructure
	err := DBFromContext(ctx, r.db).
		Where("loan_id = ?", loanID).
		Order("requested_at DESC, id DESC").
		Find(&restructures).Error
	return restructures, err
}

// ForeclosureRepository handles foreclosure quote and settlement access
type ForeclosureRepository struct {
	db *gorm.DB
}

// NewForeclosureRepository creates a new foreclosure repository
func NewForeclosureRepository(db *gorm.DB) *ForeclosureRepository {
	return &ForeclosureRepository{db: db}
}

// Create stores a new foreclosure quote
func (r *ForeclosureRepository) Create(ctx context.Context, foreclosure *models.Foreclosure) error {
	return DBFromContext(ctx, r.db).Create(foreclosure).Error
}

// GetByID gets a foreclosure by ID
func (r *ForeclosureRepository) GetByID(ctx context.Context, id uint) (*models.Foreclosure, error) {
	var foreclosure models.Foreclosure
	err := DBFromContext(ctx, r.db).First(&foreclosure, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrForeclosureNotFound
	}
	if err != nil {
		return nil, err
	}
	return &foreclosure, nil
}

// Update saves a foreclosure
func (r *ForeclosureRepository) Update(ctx context.Context, foreclosure *models.Foreclosure) error {
	return DBFromContext(ctx, r.db).Save(foreclosure).Error
}

// ListByLoan lists a loan's foreclosures, newest first
func (r *ForeclosureRepository) ListByLoan(ctx context.Context, loanID uint) ([]*models.Foreclosure, error) {
	var foreclosures []*models.Foreclosure
	err := DBFromContext(ctx, r.db).
		Where("loan_id = ?", loanID).
		Order("requested_at DESC, id DESC").
		Find(&foreclosures).Error
	return foreclosures, err
}
