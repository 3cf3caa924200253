package ledger

import (
	"context"
	"errors"
	"testing"

	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/adapters/persistence/repositories"
	"loanhub/internal/core/domain"
	"loanhub/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(t *testing.T, l *GormLedger, balance int64) *models.Account {
	t.Helper()
	account := &models.Account{AccountNumber: "ACC-1", CustomerID: 1, Balance: decimal.NewFromInt(balance)}
	require.NoError(t, l.db.Create(account).Error)
	return account
}

func TestGormLedger_CreditDebit(t *testing.T) {
	ctx := context.Background()
	l := NewGormLedger(testutil.NewDB(t))
	account := newAccount(t, l, 100)

	require.NoError(t, l.Credit(ctx, account.ID, decimal.NewFromInt(400)))
	require.NoError(t, l.Debit(ctx, account.ID, decimal.NewFromInt(250)))

	balance, err := l.Balance(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(250).Equal(balance), balance.String())
}

func TestGormLedger_DebitOverdraw(t *testing.T) {
	ctx := context.Background()
	l := NewGormLedger(testutil.NewDB(t))
	account := newAccount(t, l, 100)

	err := l.Debit(ctx, account.ID, decimal.NewFromInt(150))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	var insufficient *domain.InsufficientFundsError
	require.True(t, errors.As(err, &insufficient))
	assert.True(t, decimal.NewFromInt(50).Equal(insufficient.Shortfall()))

	balance, err := l.Balance(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(balance))
}

func TestGormLedger_Errors(t *testing.T) {
	ctx := context.Background()
	l := NewGormLedger(testutil.NewDB(t))

	assert.ErrorIs(t, l.Credit(ctx, 1, decimal.Zero), domain.ErrNonPositiveAmount)
	assert.ErrorIs(t, l.Debit(ctx, 1, decimal.NewFromInt(-5)), domain.ErrNonPositiveAmount)
	assert.ErrorIs(t, l.Credit(ctx, 42, decimal.NewFromInt(5)), domain.ErrAccountNotFound)
	assert.ErrorIs(t, l.Debit(ctx, 42, decimal.NewFromInt(5)), domain.ErrAccountNotFound)
}

func TestGormLedger_JoinsUnitOfWork(t *testing.T) {
	db := testutil.NewDB(t)
	l := NewGormLedger(db)
	account := newAccount(t, l, 100)
	uow := repositories.NewUnitOfWork(db)

	boom := errors.New("boom")
	err := uow.Do(context.Background(), func(ctx context.Context) error {
		if err := l.Credit(ctx, account.ID, decimal.NewFromInt(900)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	balance, err := l.Balance(context.Background(), account.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(balance))
}
