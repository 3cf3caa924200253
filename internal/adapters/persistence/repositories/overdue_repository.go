package repositories

import (
	"context"
	"time"

	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OverdueTrackingRepository handles overdue tracking access
type OverdueTrackingRepository struct {
	db *gorm.DB
}

// NewOverdueTrackingRepository creates a new overdue tracking repository
func NewOverdueTrackingRepository(db *gorm.DB) *OverdueTrackingRepository {
	return &OverdueTrackingRepository{db: db}
}

// Upsert inserts the tracking record for (loan, schedule entry) or
// overwrites the aging fields of the existing one
func (r *OverdueTrackingRepository) Upsert(ctx context.Context, t *models.OverdueTracking) error {
	return DBFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "loan_id"}, {Name: "schedule_entry_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"due_date",
				"emi_amount",
				"days_overdue",
				"penalty_amount",
				"bucket",
				"total_overdue_amount",
				"is_resolved",
				"resolved_at",
				"last_checked_at",
				"updated_at",
			}),
		}).
		Create(t).Error
}

// ResolveSettled marks open records resolved once their schedule entry is
// paid or no longer exists, returning how many were resolved
func (r *OverdueTrackingRepository) ResolveSettled(ctx context.Context, at time.Time) (int64, error) {
	unpaid := DBFromContext(ctx, r.db).
		Model(&models.ScheduleEntry{}).
		Select("id").
		Where("is_paid = ?", false)

	result := DBFromContext(ctx, r.db).
		Model(&models.OverdueTracking{}).
		Where("is_resolved = ? AND schedule_entry_id NOT IN (?)", false, unpaid).
		Updates(map[string]interface{}{
			"is_resolved": true,
			"resolved_at": at,
		})
	return result.RowsAffected, result.Error
}

// ListByLoan lists a loan's tracking records, most overdue first
func (r *OverdueTrackingRepository) ListByLoan(ctx context.Context, loanID uint, includeResolved bool) ([]*models.OverdueTracking, error) {
	var records []*models.OverdueTracking
	query := DBFromContext(ctx, r.db).Where("loan_id = ?", loanID)
	if !includeResolved {
		query = query.Where("is_resolved = ?", false)
	}
	err := query.Order("days_overdue DESC, id ASC").Find(&records).Error
	return records, err
}

// BucketCount is the number and value of open records in one bucket
type BucketCount struct {
	Bucket domain.OverdueBucket `json:"bucket"`
	Count  int64                `json:"count"`
	Amount float64              `json:"amount"`
}

// CountOpenByBucket summarizes unresolved records per bucket
func (r *OverdueTrackingRepository) CountOpenByBucket(ctx context.Context) ([]BucketCount, error) {
	var counts []BucketCount
	err := DBFromContext(ctx, r.db).
		Model(&models.OverdueTracking{}).
		Select("bucket, COUNT(*) AS count, COALESCE(SUM(total_overdue_amount), 0) AS amount").
		Where("is_resolved = ?", false).
		Group("bucket").
		Order("bucket ASC").
		Scan(&counts).Error
	return counts, err
}
