package services

import (
	"testing"
	"time"

	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestructureService_Workflow(t *testing.T) {
	env := newTestEnv(t)
	loan := env.disbursedLoan(t)

	env.clock.Set(time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC))
	_, err := env.repayments.Repay(env.ctx, &RepayInput{LoanID: loan.ID, Amount: dec("10661.85")})
	require.NoError(t, err)

	env.clock.Set(time.Date(2026, time.February, 20, 11, 0, 0, 0, time.UTC))
	req, err := env.restructures.Request(env.ctx, &RestructureInput{
		LoanID: loan.ID,
		Reason: "job loss",
	})
	require.NoError(t, err)
	assert.Equal(t, 24, req.NewTenureMonths)
	assertMoney(t, "12", req.NewInterestRate)
	assertMoney(t, "5203.41", req.NewEMI)
	assertMoney(t, "10661.85", req.OriginalEMI)
	assertMoney(t, "110538.15", req.OutstandingPrincipal)
	assertMoney(t, "1000", req.Charges)
	assertMoney(t, "7601.57", req.AdditionalInterest)
	assert.False(t, req.IsApproved)

	_, err = env.restructures.Implement(env.ctx, req.ID)
	require.ErrorIs(t, err, domain.ErrRestructureNotApproved)

	approved, err := env.restructures.Approve(env.ctx, req.ID, "hardship verified")
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	_, err = env.restructures.Approve(env.ctx, req.ID, "again")
	require.ErrorIs(t, err, domain.ErrRestructureApproved)

	done, err := env.restructures.Implement(env.ctx, req.ID)
	require.NoError(t, err)
	assert.True(t, done.IsImplemented)
	require.NotNil(t, done.EffectiveDate)

	stored := env.reload(t, loan.ID)
	assertMoney(t, "5203.41", stored.EMIAmount)
	assertMoney(t, "110538.15", stored.OutstandingAmount)
	assert.Equal(t, 24, stored.TenureMonths)
	assert.True(t, day(2026, time.March, 20).Equal(*stored.NextPaymentDue))
	assert.True(t, day(2028, time.February, 20).Equal(*stored.MaturityDate))

	schedule, err := env.loans.GetSchedule(env.ctx, loan.ID)
	require.NoError(t, err)
	require.Len(t, schedule, 25)
	assert.True(t, schedule[0].IsPaid)
	assertMoney(t, "10661.85", schedule[0].EMIAmount)
	for i, e := range schedule {
		assert.Equal(t, i+1, e.Sequence)
	}
	principal, _ := unpaidTotals(env.unpaid(t, loan.ID))
	assertMoney(t, "110538.15", principal)

	_, err = env.restructures.Implement(env.ctx, req.ID)
	require.ErrorIs(t, err, domain.ErrRestructureImplemented)
	_, err = env.restructures.Approve(env.ctx, req.ID, "")
	require.ErrorIs(t, err, domain.ErrRestructureImplemented)

	list, err := env.restructures.ListByLoan(env.ctx, loan.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRestructureService_RequestRejections(t *testing.T) {
	env := newTestEnv(t)
	loan := env.disbursedLoan(t)
	pending := env.applyLoan(t)

	zero := 0
	_, err := env.restructures.Request(env.ctx, &RestructureInput{
		LoanID:          loan.ID,
		NewTenureMonths: &zero,
		Reason:          "bad terms",
	})
	require.ErrorIs(t, err, domain.ErrInvalidTerms)

	negative := dec("-1")
	_, err = env.restructures.Request(env.ctx, &RestructureInput{
		LoanID:          loan.ID,
		NewInterestRate: &negative,
	})
	require.ErrorIs(t, err, domain.ErrInvalidRate)

	_, err = env.restructures.Request(env.ctx, &RestructureInput{LoanID: pending.ID})
	require.ErrorIs(t, err, domain.ErrLoanNotServicing)

	var count int64
	require.NoError(t, env.db.Model(&models.Restructure{}).Count(&count).Error)
	assert.Zero(t, count)

	_, err = env.restructures.Approve(env.ctx, 77, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRestructureService_RateCutWithDiamondTier(t *testing.T) {
	env := newTestEnv(t)
	loan := env.disbursedLoan(t)
	require.NoError(t, env.rewards.SetTier(env.ctx, testCustomer, domain.TierDiamond))

	tenure := 12
	rate := dec("6")
	req, err := env.restructures.Request(env.ctx, &RestructureInput{
		LoanID:          loan.ID,
		NewTenureMonths: &tenure,
		NewInterestRate: &rate,
		Reason:          "rate review",
	})
	require.NoError(t, err)
	assertMoney(t, "0", req.Charges)
	assert.True(t, req.NewEMI.LessThan(loan.EMIAmount))
	// cheaper terms mean less interest than the original schedule
	assert.True(t, req.AdditionalInterest.IsNegative())
}
