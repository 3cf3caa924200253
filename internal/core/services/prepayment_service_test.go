package services

import (
	"testing"
	"time"

	"loanhub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepaymentService_Full(t *testing.T) {
	env := newTestEnv(t)
	loan := env.disbursedLoan(t)

	res, err := env.prepayments.Prepay(env.ctx, &PrepayInput{
		LoanID: loan.ID,
		Type:   domain.PrepaymentFull,
		Amount: dec("120000"),
	})
	require.NoError(t, err)

	p := res.Prepayment
	assertMoney(t, "2400", p.Charges)
	assertMoney(t, "120000", p.OutstandingBefore)
	assertMoney(t, "0", p.OutstandingAfter)
	assertMoney(t, "7942.26", p.InterestSaved)
	assert.Equal(t, 12, p.TenureReduced)
	assert.False(t, p.NewEMI.Valid)

	stored := env.reload(t, loan.ID)
	assert.Equal(t, domain.LoanStatusClosed, stored.Status)
	assertMoney(t, "0", stored.OutstandingAmount)
	assert.Nil(t, stored.NextPaymentDue)
	assert.Empty(t, env.unpaid(t, loan.ID))

	schedule, err := env.loans.GetSchedule(env.ctx, loan.ID)
	require.NoError(t, err)
	for _, e := range schedule {
		assert.True(t, e.IsPaid)
		assertMoney(t, "0", e.PaidAmount)
	}

	cashback := env.rewardEntries(t, domain.RewardPrepayment)
	require.Len(t, cashback, 1)
	assertMoney(t, "2400", cashback[0].Amount)
	assert.Len(t, env.rewardEntries(t, domain.RewardLoanClosure), 1)
}

func TestPrepaymentService_FullRequiresWholeBalance(t *testing.T) {
	env := newTestEnv(t)
	loan := env.disbursedLoan(t)

	_, err := env.prepayments.Prepay(env.ctx, &PrepayInput{
		LoanID: loan.ID,
		Type:   domain.PrepaymentFull,
		Amount: dec("100000"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	_, err = env.prepayments.Prepay(env.ctx, &PrepayInput{
		LoanID: loan.ID,
		Type:   domain.PrepaymentPartial,
		Amount: dec("120000.01"),
	})
	require.ErrorIs(t, err, domain.ErrExceedsOutstanding)

	assert.Len(t, env.unpaid(t, loan.ID), 12)
	assert.Equal(t, domain.LoanStatusDisbursed, env.reload(t, loan.ID).Status)
}

func TestPrepaymentService_PartialShortensTenure(t *testing.T) {
	env := newTestEnv(t)
	loan := env.disbursedLoan(t)

	res, err := env.prepayments.Prepay(env.ctx, &PrepayInput{
		LoanID: loan.ID,
		Type:   domain.PrepaymentPartial,
		Amount: dec("60000"),
	})
	require.NoError(t, err)

	p := res.Prepayment
	assert.Equal(t, 6, p.TenureReduced)
	assertMoney(t, "60000", p.OutstandingAfter)
	assertMoney(t, "5871.81", p.InterestSaved)
	require.True(t, p.NewEMI.Valid)
	assertMoney(t, "10661.85", p.NewEMI.Decimal)

	stored := env.reload(t, loan.ID)
	assert.Equal(t, domain.LoanStatusDisbursed, stored.Status)
	assert.Equal(t, 6, stored.TenureMonths)
	assertMoney(t, "60000", stored.OutstandingAmount)
	assertMoney(t, "10661.85", stored.EMIAmount)
	assert.True(t, day(2026, time.February, 15).Equal(*stored.NextPaymentDue))
	assert.True(t, day(2026, time.July, 15).Equal(*stored.MaturityDate))

	unpaid := env.unpaid(t, loan.ID)
	require.Len(t, unpaid, 6)
	for i, e := range unpaid {
		assert.Equal(t, i+1, e.Sequence)
	}
	principal, _ := unpaidTotals(unpaid)
	assertMoney(t, "60000", principal)
	last := unpaid[len(unpaid)-1]
	assertMoney(t, "8674.46", last.PrincipalComponent)
	assertMoney(t, "0", last.OutstandingAfter)
}

func TestPrepaymentService_PartialAfterRepaymentFromAccount(t *testing.T) {
	env := newTestEnv(t)
	loan := env.disbursedLoan(t)
	env.clock.Set(time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC))

	_, err := env.repayments.Repay(env.ctx, &RepayInput{LoanID: loan.ID, Amount: dec("10661.85")})
	require.NoError(t, err)

	res, err := env.prepayments.Prepay(env.ctx, &PrepayInput{
		LoanID:        loan.ID,
		Type:          domain.PrepaymentPartial,
		Amount:        dec("50000"),
		PaymentMethod: domain.PaymentMethodAccount,
	})
	require.NoError(t, err)
	assertMoney(t, "1000", res.Prepayment.Charges)
	assertMoney(t, "110538.15", res.Prepayment.OutstandingBefore)
	assertMoney(t, "4638.70", res.Prepayment.InterestSaved)
	assert.Equal(t, 5, res.Prepayment.TenureReduced)
	assertMoney(t, "69000", env.balance(t))

	stored := env.reload(t, loan.ID)
	assert.Equal(t, domain.LoanStatusActive, stored.Status)
	assert.Equal(t, 7, stored.TenureMonths)
	assert.True(t, day(2026, time.August, 15).Equal(*stored.MaturityDate))

	// paid history stays, the rewritten schedule continues its numbering
	schedule, err := env.loans.GetSchedule(env.ctx, loan.ID)
	require.NoError(t, err)
	require.Len(t, schedule, 7)
	assert.True(t, schedule[0].IsPaid)
	for i, e := range schedule {
		assert.Equal(t, i+1, e.Sequence)
	}

	history, err := env.prepayments.ListPrepayments(env.ctx, loan.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestPrepaymentService_TopTierWaivesCharges(t *testing.T) {
	env := newTestEnv(t)
	loan := env.disbursedLoan(t)
	require.NoError(t, env.rewards.SetTier(env.ctx, testCustomer, domain.TierPlatinum))

	res, err := env.prepayments.Prepay(env.ctx, &PrepayInput{
		LoanID: loan.ID,
		Type:   domain.PrepaymentPartial,
		Amount: dec("10000"),
	})
	require.NoError(t, err)
	assertMoney(t, "0", res.Prepayment.Charges)
	assert.GreaterOrEqual(t, res.Prepayment.InterestSaved.Sign(), 0)
}

func TestPrepaymentService_PartialOfWholeBalanceCloses(t *testing.T) {
	env := newTestEnv(t)
	loan := env.disbursedLoan(t)

	res, err := env.prepayments.Prepay(env.ctx, &PrepayInput{
		LoanID: loan.ID,
		Type:   domain.PrepaymentPartial,
		Amount: dec("120000"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusClosed, res.Loan.Status)
	assert.Equal(t, 12, res.Prepayment.TenureReduced)
}

func TestPrepaymentService_InvalidType(t *testing.T) {
	env := newTestEnv(t)
	loan := env.disbursedLoan(t)

	_, err := env.prepayments.Prepay(env.ctx, &PrepayInput{
		LoanID: loan.ID,
		Type:   "HALF",
		Amount: dec("100"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPrepaymentService_PartialNeverLengthensOrCosts(t *testing.T) {
	amounts := []string{"0.01", "1", "500", "10000", "33333.33", "60000", "99999.99", "119999.99"}

	for _, amount := range amounts {
		t.Run(amount, func(t *testing.T) {
			env := newTestEnv(t)
			loan := env.disbursedLoan(t)

			res, err := env.prepayments.Prepay(env.ctx, &PrepayInput{
				LoanID: loan.ID,
				Type:   domain.PrepaymentPartial,
				Amount: dec(amount),
			})
			require.NoError(t, err)

			p := res.Prepayment
			assert.GreaterOrEqual(t, p.TenureReduced, 0)
			assert.GreaterOrEqual(t, p.InterestSaved.Sign(), 0, "interest saved %s", p.InterestSaved)

			stored := env.reload(t, loan.ID)
			assert.LessOrEqual(t, stored.TenureMonths, loan.TenureMonths)
			assertMoney(t, dec("120000").Sub(dec(amount)).String(), stored.OutstandingAmount)

			unpaid := env.unpaid(t, loan.ID)
			assert.Len(t, unpaid, 12-p.TenureReduced)
			principal, _ := unpaidTotals(unpaid)
			assertMoney(t, stored.OutstandingAmount.String(), principal)
			assertMoney(t, "0", unpaid[len(unpaid)-1].OutstandingAfter)
		})
	}
}
