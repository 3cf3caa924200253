package services

import (
	"testing"

	"loanhub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_GetPortfolio(t *testing.T) {
	env := newTestEnv(t)
	env.disbursedLoan(t)
	env.applyLoan(t)
	rejected := env.applyLoan(t)
	_, err := env.loans.Reject(env.ctx, rejected.ID, "no income proof")
	require.NoError(t, err)

	_, err = env.overdue.Sweep(env.ctx, day(2026, 4, 15))
	require.NoError(t, err)

	dashboard := NewDashboardService(env.db, env.repos.Overdue, env.clock)
	data, err := dashboard.GetPortfolio(env.ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 3, data.TotalLoans)
	assert.EqualValues(t, 1, data.CountByStatus[domain.LoanStatusDisbursed])
	assert.EqualValues(t, 1, data.CountByStatus[domain.LoanStatusPending])
	assert.EqualValues(t, 1, data.CountByStatus[domain.LoanStatusRejected])
	assert.InDelta(t, 120000, data.DisbursedPrincipal, 0.001)
	assert.InDelta(t, 120000, data.OutstandingAmount, 0.001)
	assert.EqualValues(t, 3, data.ApplicationsThisMonth)
	assert.EqualValues(t, 1, data.DisbursementsThisMonth)

	require.Len(t, data.Overdue, 1)
	assert.Equal(t, domain.BucketOverdue31To60, data.Overdue[0].Bucket)
	assert.EqualValues(t, 2, data.Overdue[0].Count)

	assert.Len(t, data.RecentLoans, 3)
}
