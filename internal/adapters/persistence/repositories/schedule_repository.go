package repositories

import (
	"context"
	"time"

	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ScheduleRepository handles repayment schedule data access
type ScheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// CreateBatch inserts schedule entries
func (r *ScheduleRepository) CreateBatch(ctx context.Context, entries []*models.ScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return DBFromContext(ctx, r.db).CreateInBatches(entries, 100).Error
}

// ListByLoan lists a loan's full schedule in sequence order
func (r *ScheduleRepository) ListByLoan(ctx context.Context, loanID uint) ([]*models.ScheduleEntry, error) {
	var entries []*models.ScheduleEntry
	err := DBFromContext(ctx, r.db).
		Where("loan_id = ?", loanID).
		Order("sequence ASC").
		Find(&entries).Error
	return entries, err
}

// ListUnpaid lists a loan's unpaid entries in sequence order
func (r *ScheduleRepository) ListUnpaid(ctx context.Context, loanID uint) ([]*models.ScheduleEntry, error) {
	var entries []*models.ScheduleEntry
	err := DBFromContext(ctx, r.db).
		Where("loan_id = ? AND is_paid = ?", loanID, false).
		Order("sequence ASC").
		Find(&entries).Error
	return entries, err
}

// LastSequence returns the highest sequence number stored for a loan, or 0
func (r *ScheduleRepository) LastSequence(ctx context.Context, loanID uint) (int, error) {
	var last int
	err := DBFromContext(ctx, r.db).
		Model(&models.ScheduleEntry{}).
		Where("loan_id = ?", loanID).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&last).Error
	return last, err
}

// ListPastDue lists unpaid entries due before the given date on loans that
// are currently being serviced
func (r *ScheduleRepository) ListPastDue(ctx context.Context, before time.Time) ([]*models.ScheduleEntry, error) {
	var entries []*models.ScheduleEntry
	servicing := DBFromContext(ctx, r.db).
		Model(&models.Loan{}).
		Select("id").
		Where("status IN ?", []domain.LoanStatus{domain.LoanStatusDisbursed, domain.LoanStatusActive})

	err := DBFromContext(ctx, r.db).
		Where("is_paid = ? AND due_date < ? AND loan_id IN (?)", false, before, servicing).
		Order("loan_id ASC, sequence ASC").
		Find(&entries).Error
	return entries, err
}

// MarkPaid settles one unpaid entry
func (r *ScheduleRepository) MarkPaid(ctx context.Context, id uint, amount decimal.Decimal, paidAt time.Time) error {
	result := DBFromContext(ctx, r.db).
		Model(&models.ScheduleEntry{}).
		Where("id = ? AND is_paid = ?", id, false).
		Updates(map[string]interface{}{
			"is_paid":     true,
			"paid_date":   paidAt,
			"paid_amount": amount,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrEntryAlreadyPaid
	}
	return nil
}

// ApplyPartial stores an open entry after a payment that fell short of it:
// the reduced principal, interest and installment still due and the amount
// paid towards it so far
func (r *ScheduleRepository) ApplyPartial(ctx context.Context, entry *models.ScheduleEntry) error {
	result := DBFromContext(ctx, r.db).
		Model(&models.ScheduleEntry{}).
		Where("id = ? AND is_paid = ?", entry.ID, false).
		Updates(map[string]interface{}{
			"emi_amount":          entry.EMIAmount,
			"interest_component":  entry.InterestComponent,
			"principal_component": entry.PrincipalComponent,
			"paid_amount":         entry.PaidAmount,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrEntryAlreadyPaid
	}
	return nil
}

// MarkAllUnpaidPaid closes out every remaining entry of a loan with a zero
// paid amount and returns how many were closed
func (r *ScheduleRepository) MarkAllUnpaidPaid(ctx context.Context, loanID uint, paidAt time.Time) (int64, error) {
	result := DBFromContext(ctx, r.db).
		Model(&models.ScheduleEntry{}).
		Where("loan_id = ? AND is_paid = ?", loanID, false).
		Updates(map[string]interface{}{
			"is_paid":     true,
			"paid_date":   paidAt,
			"paid_amount": decimal.Zero,
		})
	return result.RowsAffected, result.Error
}

// DeleteUnpaid removes every unpaid entry of a loan
func (r *ScheduleRepository) DeleteUnpaid(ctx context.Context, loanID uint) (int64, error) {
	result := DBFromContext(ctx, r.db).
		Where("loan_id = ? AND is_paid = ?", loanID, false).
		Delete(&models.ScheduleEntry{})
	return result.RowsAffected, result.Error
}

// UpdateAging writes the overdue fields computed by a sweep
func (r *ScheduleRepository) UpdateAging(ctx context.Context, id uint, daysOverdue int, penalty decimal.Decimal) error {
	return DBFromContext(ctx, r.db).
		Model(&models.ScheduleEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"days_overdue":   daysOverdue,
			"penalty_amount": penalty,
		}).Error
}
