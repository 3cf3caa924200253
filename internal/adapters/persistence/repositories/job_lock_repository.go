package repositories

import (
	"context"
	"time"

	"loanhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobLockRepository hands out named leases so a job runs on one instance
// at a time
type JobLockRepository struct {
	db *gorm.DB
}

// NewJobLockRepository creates a new job lock repository
func NewJobLockRepository(db *gorm.DB) *JobLockRepository {
	return &JobLockRepository{db: db}
}

// TryAcquire takes the lease for name until now+ttl. It succeeds when the
// lease is free, expired, or already held by owner.
func (r *JobLockRepository) TryAcquire(ctx context.Context, name, owner string, now time.Time, ttl time.Duration) (bool, error) {
	until := now.Add(ttl)

	created := DBFromContext(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.JobLock{Name: name, Owner: owner, LockedUntil: until})
	if created.Error != nil {
		return false, created.Error
	}
	if created.RowsAffected == 1 {
		return true, nil
	}

	taken := DBFromContext(ctx, r.db).
		Model(&models.JobLock{}).
		Where("name = ? AND (locked_until < ? OR owner = ?)", name, now, owner).
		Updates(map[string]interface{}{
			"owner":        owner,
			"locked_until": until,
		})
	if taken.Error != nil {
		return false, taken.Error
	}
	return taken.RowsAffected == 1, nil
}

// Release gives the lease back if owner still holds it
func (r *JobLockRepository) Release(ctx context.Context, name, owner string) error {
	return DBFromContext(ctx, r.db).
		Where("name = ? AND owner = ?", name, owner).
		Delete(&models.JobLock{}).Error
}
