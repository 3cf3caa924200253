package services

import (
	"testing"
	"time"

	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoanService_Lifecycle(t *testing.T) {
	env := newTestEnv(t)

	loan := env.applyLoan(t)
	assert.Equal(t, domain.LoanStatusPending, loan.Status)
	assert.Equal(t, "LN-000001", loan.LoanNumber)
	assert.Equal(t, domain.FrequencyMonthly, loan.Frequency)
	assertMoney(t, "12", loan.InterestRate)
	assertMoney(t, "10661.85", loan.EMIAmount)
	assertMoney(t, "120000", loan.OutstandingAmount)

	// disburse before approval is refused
	_, err := env.loans.Disburse(env.ctx, loan.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = env.loans.MarkUnderReview(env.ctx, loan.ID)
	require.NoError(t, err)
	approved, err := env.loans.Approve(env.ctx, loan.ID, "good standing")
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusApproved, approved.Status)
	assert.Equal(t, "good standing", approved.ApprovalRemarks)
	require.NotNil(t, approved.ApprovalDate)

	disbursed, err := env.loans.Disburse(env.ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusDisbursed, disbursed.Status)
	require.NotNil(t, disbursed.NextPaymentDue)
	require.NotNil(t, disbursed.MaturityDate)
	assert.True(t, day(2026, time.February, 15).Equal(*disbursed.NextPaymentDue))
	assert.True(t, day(2027, time.January, 15).Equal(*disbursed.MaturityDate))
	assertMoney(t, "120000", env.balance(t))

	schedule, err := env.loans.GetSchedule(env.ctx, loan.ID)
	require.NoError(t, err)
	require.Len(t, schedule, 12)
	assert.Equal(t, 1, schedule[0].Sequence)
	assertMoney(t, "1200", schedule[0].InterestComponent)
	assertMoney(t, "9461.85", schedule[0].PrincipalComponent)
	assertMoney(t, "110538.15", schedule[0].OutstandingAfter)
	assertMoney(t, "0", schedule[11].OutstandingAfter)

	// a disbursed loan can no longer be decided
	_, err = env.loans.Approve(env.ctx, loan.ID, "again")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = env.loans.Reject(env.ctx, loan.ID, "late")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = env.loans.Disburse(env.ctx, loan.ID)
	assert.ErrorIs(t, err, domain.ErrLoanNotApproved)
}

func TestLoanService_Reject(t *testing.T) {
	env := newTestEnv(t)
	loan := env.applyLoan(t)

	rejected, err := env.loans.Reject(env.ctx, loan.ID, "insufficient income")
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusRejected, rejected.Status)
	assert.Equal(t, "insufficient income", rejected.RejectionReason)

	_, err = env.loans.Approve(env.ctx, loan.ID, "")
	assert.ErrorIs(t, err, domain.ErrLoanNotPending)
	_, err = env.loans.MarkUnderReview(env.ctx, loan.ID)
	assert.ErrorIs(t, err, domain.ErrLoanNotPending)
}

func TestLoanService_ApplyValidation(t *testing.T) {
	env := newTestEnv(t)
	foreign := &models.Account{AccountNumber: "ACC-0099", CustomerID: 99, Balance: dec("500000")}
	require.NoError(t, env.db.Create(foreign).Error)

	tests := []struct {
		name    string
		mutate  func(in *ApplyLoanInput)
		wantErr error
	}{
		{"missing customer", func(in *ApplyLoanInput) { in.CustomerID = 0 }, domain.ErrInvalidInput},
		{"missing account", func(in *ApplyLoanInput) { in.AccountID = 0 }, domain.ErrMissingParty},
		{"unknown account", func(in *ApplyLoanInput) { in.AccountID = 9999 }, domain.ErrAccountNotFound},
		{"another customer's account", func(in *ApplyLoanInput) { in.AccountID = foreign.ID }, domain.ErrAccountNotFound},
		{"zero principal", func(in *ApplyLoanInput) { in.PrincipalAmount = dec("0") }, domain.ErrInvalidTerms},
		{"negative tenure", func(in *ApplyLoanInput) { in.TenureMonths = -3 }, domain.ErrInvalidTenure},
		{"unknown frequency", func(in *ApplyLoanInput) { in.Frequency = "WEEKLY" }, domain.ErrUnknownFrequency},
		{"unseeded loan type", func(in *ApplyLoanInput) { in.LoanType = domain.LoanTypeGold }, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &ApplyLoanInput{
				CustomerID:      testCustomer,
				AccountID:       env.account.ID,
				LoanType:        domain.LoanTypePersonal,
				PrincipalAmount: dec("50000"),
				TenureMonths:    12,
			}
			tt.mutate(in)
			_, err := env.loans.Apply(env.ctx, in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&models.Loan{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLoanService_QuarterlyLoan(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.Create(&models.LoanType{
		Code:         domain.LoanTypeHome,
		Name:         "Home Loan",
		InterestRate: dec("8"),
		IsActive:     true,
	}).Error)

	loan, err := env.loans.Apply(env.ctx, &ApplyLoanInput{
		CustomerID:      testCustomer,
		AccountID:       env.account.ID,
		LoanType:        domain.LoanTypeHome,
		PrincipalAmount: dec("100000"),
		TenureMonths:    24,
		Frequency:       domain.FrequencyQuarterly,
	})
	require.NoError(t, err)
	assertMoney(t, "13650.98", loan.EMIAmount)

	_, err = env.loans.Approve(env.ctx, loan.ID, "")
	require.NoError(t, err)
	loan, err = env.loans.Disburse(env.ctx, loan.ID)
	require.NoError(t, err)
	assert.True(t, day(2026, time.April, 15).Equal(*loan.NextPaymentDue))

	schedule, err := env.loans.GetSchedule(env.ctx, loan.ID)
	require.NoError(t, err)
	assert.Len(t, schedule, 8)
}

func TestLoanService_DisburseIsAtomic(t *testing.T) {
	env := newTestEnv(t)

	loan := env.applyLoan(t)
	_, err := env.loans.Approve(env.ctx, loan.ID, "")
	require.NoError(t, err)
	// the account is closed between approval and disbursement
	require.NoError(t, env.db.Delete(&models.Account{}, env.account.ID).Error)

	_, err = env.loans.Disburse(env.ctx, loan.ID)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	stored := env.reload(t, loan.ID)
	assert.Equal(t, domain.LoanStatusApproved, stored.Status)
	assert.Nil(t, stored.DisbursementDate)

	schedule, err := env.loans.GetSchedule(env.ctx, loan.ID)
	require.NoError(t, err)
	assert.Empty(t, schedule)
}

func TestLoanService_List(t *testing.T) {
	env := newTestEnv(t)
	env.applyLoan(t)
	env.applyLoan(t)
	env.disbursedLoan(t)

	all, err := env.loans.List(env.ctx, &ListInput{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Meta.Total)
	assert.Len(t, all.Loans, 3)
	assert.Equal(t, 1, all.Meta.Page)
	assert.Equal(t, 20, all.Meta.Limit)

	pending, err := env.loans.List(env.ctx, &ListInput{Status: domain.LoanStatusPending, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, pending.Meta.Total)
	assert.Len(t, pending.Loans, 1)
	assert.True(t, pending.Meta.HasNext)

	byNumber, err := env.loans.GetByNumber(env.ctx, all.Loans[0].LoanNumber)
	require.NoError(t, err)
	assert.Equal(t, all.Loans[0].ID, byNumber.ID)

	mine, err := env.loans.ListByCustomer(env.ctx, testCustomer)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	_, err = env.loans.GetByID(env.ctx, 424242)
	assert.ErrorIs(t, err, domain.ErrLoanNotFound)
}
