package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/core/domain"
	"loanhub/internal/pkg/idgen"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Credit(ctx context.Context, accountID uint, amount decimal.Decimal) error {
	return m.Called(ctx, accountID, amount).Error(0)
}

func (m *mockLedger) Debit(ctx context.Context, accountID uint, amount decimal.Decimal) error {
	return m.Called(ctx, accountID, amount).Error(0)
}

type mockTiers struct {
	mock.Mock
}

func (m *mockTiers) TierOf(ctx context.Context, customerID uint) (domain.Tier, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(domain.Tier), args.Error(1)
}

type mockRewards struct {
	mock.Mock
}

func (m *mockRewards) AwardPoints(ctx context.Context, customerID uint, points int, category, note string) error {
	return m.Called(ctx, customerID, points, category, note).Error(0)
}

func (m *mockRewards) AwardCashback(ctx context.Context, customerID uint, amount, percent decimal.Decimal, note string) error {
	return m.Called(ctx, customerID, amount, percent, note).Error(0)
}

func money(want string) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(dec(want)) })
}

func TestLoanService_DisburseLedgerFailure(t *testing.T) {
	env := newTestEnv(t)
	ledger := &mockLedger{}
	ledger.On("Credit", mock.Anything, env.account.ID, money("120000")).
		Return(errors.New("core banking offline")).Once()

	loans := NewLoanService(env.repos, env.locker, ledger, &idgen.Sequence{}, env.clock)
	loan := env.applyLoan(t)
	_, err := loans.Approve(env.ctx, loan.ID, "")
	require.NoError(t, err)

	_, err = loans.Disburse(env.ctx, loan.ID)
	require.EqualError(t, err, "core banking offline")
	ledger.AssertExpectations(t)

	stored := env.reload(t, loan.ID)
	assert.Equal(t, domain.LoanStatusApproved, stored.Status)
	assert.Empty(t, env.unpaid(t, loan.ID))
}

func TestRepaymentService_RewardFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(t)
	loan := env.disbursedLoan(t)
	env.clock.Set(time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC))

	rewards := &mockRewards{}
	rewards.On("AwardPoints", mock.Anything, testCustomer, env.policy.OnTimeRepaymentPoints,
		domain.RewardLoanRepayment, mock.AnythingOfType("string")).
		Return(errors.New("rewards unavailable")).Once()

	repayments := NewRepaymentService(env.repos, env.locker, env.ledger, rewards, &idgen.Sequence{}, env.clock, env.policy)
	res, err := repayments.Repay(env.ctx, &RepayInput{LoanID: loan.ID, Amount: dec("10661.85")})
	require.NoError(t, err)
	rewards.AssertExpectations(t)

	assertMoney(t, "110538.15", res.Loan.OutstandingAmount)
	assertMoney(t, "110538.15", env.reload(t, loan.ID).OutstandingAmount)
}

func TestRepaymentService_LateRepaymentEarnsNoPoints(t *testing.T) {
	env := newTestEnv(t)
	loan := env.disbursedLoan(t)
	env.clock.Set(time.Date(2026, time.February, 20, 0, 0, 0, 0, time.UTC))

	rewards := &mockRewards{}
	repayments := NewRepaymentService(env.repos, env.locker, env.ledger, rewards, &idgen.Sequence{}, env.clock, env.policy)
	res, err := repayments.Repay(env.ctx, &RepayInput{LoanID: loan.ID, Amount: dec("10661.85")})
	require.NoError(t, err)
	assert.True(t, res.Repayment.IsLate)

	rewards.AssertNotCalled(t, "AwardPoints", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestForeclosureService_TierLookupFailure(t *testing.T) {
	env := newTestEnv(t)
	loan := env.disbursedLoan(t)

	tiers := &mockTiers{}
	tiers.On("TierOf", mock.Anything, testCustomer).Return(domain.Tier(""), errors.New("tier service down"))

	foreclosures := NewForeclosureService(env.repos, env.locker, env.ledger, tiers, &mockRewards{}, &idgen.Sequence{}, env.clock, env.policy)
	_, err := foreclosures.Quote(env.ctx, loan.ID)
	require.EqualError(t, err, "tier service down")
	tiers.AssertExpectations(t)

	var count int64
	require.NoError(t, env.db.Model(&models.Foreclosure{}).Count(&count).Error)
	assert.Zero(t, count)
}
