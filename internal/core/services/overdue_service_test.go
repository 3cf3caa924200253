package services

import (
	"testing"
	"time"

	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverdueService_Sweep(t *testing.T) {
	env := newTestEnv(t)
	loan := env.disbursedLoan(t)
	env.applyLoan(t)

	today := time.Date(2026, time.April, 15, 6, 0, 0, 0, time.UTC)
	res, err := env.overdue.Sweep(env.ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Scanned)
	assert.Equal(t, 2, res.Upserted)
	assert.Zero(t, res.Resolved)

	records, err := env.overdue.ListByLoan(env.ctx, loan.ID, false)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Feb 15 -> Apr 15 is 59 days, Mar 15 -> Apr 15 is 31
	assert.Equal(t, 59, records[0].DaysOverdue)
	assert.Equal(t, domain.BucketOverdue31To60, records[0].Bucket)
	assertMoney(t, "629.05", records[0].PenaltyAmount)
	assertMoney(t, "11290.90", records[0].TotalOverdueAmount)
	assert.Equal(t, 31, records[1].DaysOverdue)
	assertMoney(t, "330.52", records[1].PenaltyAmount)

	unpaid := env.unpaid(t, loan.ID)
	assert.Equal(t, 59, unpaid[0].DaysOverdue)
	assertMoney(t, "629.05", unpaid[0].PenaltyAmount)
	assert.Zero(t, unpaid[2].DaysOverdue)
}

func TestOverdueService_SweepIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	loan := env.disbursedLoan(t)
	today := day(2026, time.April, 15)

	for i := 0; i < 2; i++ {
		_, err := env.overdue.Sweep(env.ctx, today)
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, env.db.Model(&models.OverdueTracking{}).Where("loan_id = ?", loan.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	// a later sweep overwrites the aging instead of adding rows
	_, err := env.overdue.Sweep(env.ctx, day(2026, time.May, 20))
	require.NoError(t, err)
	records, err := env.overdue.ListByLoan(env.ctx, loan.ID, true)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 94, records[0].DaysOverdue)
	assert.Equal(t, domain.BucketOverdue90Plus, records[0].Bucket)
}

func TestOverdueService_PaidEntriesAreResolved(t *testing.T) {
	env := newTestEnv(t)
	loan := env.disbursedLoan(t)
	today := day(2026, time.April, 15)

	_, err := env.overdue.Sweep(env.ctx, today)
	require.NoError(t, err)

	env.clock.Set(today)
	_, err = env.repayments.Repay(env.ctx, &RepayInput{LoanID: loan.ID, Amount: dec("10661.85")})
	require.NoError(t, err)

	res, err := env.overdue.Sweep(env.ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Scanned)
	assert.EqualValues(t, 1, res.Resolved)

	open, err := env.overdue.ListByLoan(env.ctx, loan.ID, false)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, 31, open[0].DaysOverdue)

	all, err := env.overdue.ListByLoan(env.ctx, loan.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOverdueService_ClosedLoansAreSkipped(t *testing.T) {
	env := newTestEnv(t)
	loan := env.disbursedLoan(t)
	_, err := env.prepayments.Prepay(env.ctx, &PrepayInput{
		LoanID: loan.ID,
		Type:   domain.PrepaymentFull,
		Amount: dec("120000"),
	})
	require.NoError(t, err)

	res, err := env.overdue.Sweep(env.ctx, day(2026, time.December, 1))
	require.NoError(t, err)
	assert.Zero(t, res.Scanned)
}
