package amortization

import (
	"time"

	"loanhub/internal/core/domain"

	"github.com/shopspring/decimal"
)

// DateOnly truncates t to midnight UTC of its calendar date
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts calendar days from one date to another. It is negative
// when to is before from.
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}

// Bucket classifies days overdue into a severity bucket
func Bucket(daysOverdue int) domain.OverdueBucket {
	switch {
	case daysOverdue <= 0:
		return domain.BucketCurrent
	case daysOverdue <= 30:
		return domain.BucketOverdue1To30
	case daysOverdue <= 60:
		return domain.BucketOverdue31To60
	case daysOverdue <= 90:
		return domain.BucketOverdue61To90
	default:
		return domain.BucketOverdue90Plus
	}
}

// Penalty is emi * ratePerDay * daysOverdue, rounded to 2 places
func Penalty(emi, ratePerDay decimal.Decimal, daysOverdue int) decimal.Decimal {
	if daysOverdue <= 0 {
		return decimal.Zero
	}
	return emi.Mul(ratePerDay).Mul(decimal.NewFromInt(int64(daysOverdue))).Round(2)
}
