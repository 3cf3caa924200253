package services

import (
	"context"
	"testing"
	"time"

	"loanhub/internal/adapters/ledger"
	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/adapters/persistence/repositories"
	"loanhub/internal/adapters/rewards"
	"loanhub/internal/config"
	"loanhub/internal/core/domain"
	"loanhub/internal/pkg/clock"
	"loanhub/internal/pkg/idgen"
	"loanhub/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testCustomer uint = 7

var disbursedAt = time.Date(2026, time.January, 15, 9, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertMoney compares decimals by value so 120000 and 120000.00 match
func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type testEnv struct {
	ctx          context.Context
	db           *gorm.DB
	repos        *repositories.Repositories
	clock        *clock.Fixed
	ledger       *ledger.GormLedger
	rewards      *rewards.GormRewards
	policy       config.LoanConfig
	locker       *LoanLocker
	loans        *LoanService
	repayments   *RepaymentService
	prepayments  *PrepaymentService
	restructures *RestructureService
	foreclosures *ForeclosureService
	overdue      *OverdueService
	account      *models.Account
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	require.NoError(t, db.Create(&models.LoanType{
		Code:         domain.LoanTypePersonal,
		Name:         "Personal Loan",
		InterestRate: dec("12"),
		IsActive:     true,
	}).Error)
	account := &models.Account{AccountNumber: "ACC-0001", CustomerID: testCustomer, Balance: decimal.Zero}
	require.NoError(t, db.Create(account).Error)

	env := &testEnv{
		ctx:     context.Background(),
		db:      db,
		repos:   repositories.New(db),
		clock:   clock.NewFixed(disbursedAt),
		ledger:  ledger.NewGormLedger(db),
		rewards: rewards.NewGormRewards(db),
		policy:  config.DefaultLoanConfig(),
		locker:  NewLoanLocker(),
		account: account,
	}
	ids := &idgen.Sequence{}

	env.loans = NewLoanService(env.repos, env.locker, env.ledger, ids, env.clock)
	env.repayments = NewRepaymentService(env.repos, env.locker, env.ledger, env.rewards, ids, env.clock, env.policy)
	env.prepayments = NewPrepaymentService(env.repos, env.locker, env.ledger, env.rewards, env.rewards, ids, env.clock, env.policy)
	env.restructures = NewRestructureService(env.repos, env.locker, env.rewards, ids, env.clock, env.policy)
	env.foreclosures = NewForeclosureService(env.repos, env.locker, env.ledger, env.rewards, env.rewards, ids, env.clock, env.policy)
	env.overdue = NewOverdueService(env.repos, env.policy)
	return env
}

// applyLoan files a 120000 PERSONAL loan at 12% over 12 months
func (e *testEnv) applyLoan(t *testing.T) *models.Loan {
	t.Helper()
	loan, err := e.loans.Apply(e.ctx, &ApplyLoanInput{
		CustomerID:      testCustomer,
		AccountID:       e.account.ID,
		LoanType:        domain.LoanTypePersonal,
		PrincipalAmount: dec("120000"),
		TenureMonths:    12,
		Purpose:         "home renovation",
	})
	require.NoError(t, err)
	return loan
}

// disbursedLoan applies, approves and disburses a loan on disbursedAt
func (e *testEnv) disbursedLoan(t *testing.T) *models.Loan {
	t.Helper()
	loan := e.applyLoan(t)
	_, err := e.loans.Approve(e.ctx, loan.ID, "ok")
	require.NoError(t, err)
	loan, err = e.loans.Disburse(e.ctx, loan.ID)
	require.NoError(t, err)
	return loan
}

func (e *testEnv) reload(t *testing.T, id uint) *models.Loan {
	t.Helper()
	loan, err := e.repos.Loans.GetByID(e.ctx, id)
	require.NoError(t, err)
	return loan
}

func (e *testEnv) balance(t *testing.T) decimal.Decimal {
	t.Helper()
	b, err := e.ledger.Balance(e.ctx, e.account.ID)
	require.NoError(t, err)
	return b
}

func (e *testEnv) setBalance(t *testing.T, amount string) {
	t.Helper()
	require.NoError(t, e.db.Model(&models.Account{}).
		Where("id = ?", e.account.ID).
		Update("balance", dec(amount)).Error)
}

func (e *testEnv) unpaid(t *testing.T, loanID uint) []*models.ScheduleEntry {
	t.Helper()
	entries, err := e.repos.Schedules.ListUnpaid(e.ctx, loanID)
	require.NoError(t, err)
	return entries
}

func (e *testEnv) rewardEntries(t *testing.T, category string) []models.RewardEntry {
	t.Helper()
	var entries []models.RewardEntry
	require.NoError(t, e.db.Where("customer_id = ? AND category = ?", testCustomer, category).
		Order("id ASC").Find(&entries).Error)
	return entries
}
