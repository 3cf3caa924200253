package services

import (
	"context"
	"time"

	"loanhub/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Ledger moves money on a customer's funding account. Debit fails with an
// error matching domain.ErrInsufficientFunds when the balance is short.
type Ledger interface {
	Credit(ctx context.Context, accountID uint, amount decimal.Decimal) error
	Debit(ctx context.Context, accountID uint, amount decimal.Decimal) error
}

// TierLookup resolves the loyalty tier used for charge waivers
type TierLookup interface {
	TierOf(ctx context.Context, customerID uint) (domain.Tier, error)
}

// Rewards awards points and cashback. Calls are side effects made after a
// money-moving operation has committed.
type Rewards interface {
	AwardPoints(ctx context.Context, customerID uint, points int, category, note string) error
	AwardCashback(ctx context.Context, customerID uint, amount, percent decimal.Decimal, note string) error
}

// IDGenerator produces loan numbers and operation references
type IDGenerator interface {
	NewLoanNumber() string
	NewReference(prefix string) string
}

// Clock is the time source for every dated operation
type Clock interface {
	Now() time.Time
}

// Reference prefixes
const (
	RefRepayment   = "PAY"
	RefPrepayment  = "PRE"
	RefRestructure = "RST"
	RefForeclosure = "FCL"
)
