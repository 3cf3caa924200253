package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error categories. Specific errors wrap one of these so callers can
// classify with errors.Is.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidTerms      = errors.New("invalid terms")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConcurrentUpdate  = errors.New("concurrent update")
)

// NotFound errors
var (
	ErrLoanNotFound        = fmt.Errorf("loan: %w", ErrNotFound)
	ErrLoanTypeNotFound    = fmt.Errorf("loan type: %w", ErrNotFound)
	ErrRestructureNotFound = fmt.Errorf("restructure: %w", ErrNotFound)
	ErrForeclosureNotFound = fmt.Errorf("foreclosure: %w", ErrNotFound)
	ErrAccountNotFound     = fmt.Errorf("account: %w", ErrNotFound)
)

// InvalidState errors
var (
	ErrLoanNotPending         = fmt.Errorf("%w: loan is not pending review", ErrInvalidState)
	ErrLoanNotApproved        = fmt.Errorf("%w: loan is not approved", ErrInvalidState)
	ErrLoanNotServicing       = fmt.Errorf("%w: loan is not disbursed or active", ErrInvalidState)
	ErrRestructureNotApproved = fmt.Errorf("%w: restructure is not approved", ErrInvalidState)
	ErrRestructureApproved    = fmt.Errorf("%w: restructure already approved", ErrInvalidState)
	ErrRestructureImplemented = fmt.Errorf("%w: restructure already implemented", ErrInvalidState)
	ErrForeclosureCompleted   = fmt.Errorf("%w: foreclosure already completed", ErrInvalidState)
	ErrEntryAlreadyPaid       = fmt.Errorf("%w: schedule entry already paid", ErrInvalidState)
	ErrNoUnpaidInstallments   = fmt.Errorf("%w: loan has no unpaid installments", ErrInvalidState)
	ErrJobLocked              = fmt.Errorf("%w: job is running on another instance", ErrInvalidState)
)

// InvalidTerms errors
var (
	ErrNonAmortizing    = fmt.Errorf("%w: installment does not cover period interest", ErrInvalidTerms)
	ErrInvalidTenure    = fmt.Errorf("%w: tenure must be positive", ErrInvalidTerms)
	ErrInvalidRate      = fmt.Errorf("%w: interest rate must not be negative", ErrInvalidTerms)
	ErrInvalidAmount    = fmt.Errorf("%w: principal must be positive", ErrInvalidTerms)
	ErrUnknownFrequency = fmt.Errorf("%w: unknown repayment frequency", ErrInvalidTerms)
)

// InvalidInput errors
var (
	ErrInvalidPaymentMethod  = fmt.Errorf("%w: unknown payment method", ErrInvalidInput)
	ErrInvalidPrepaymentType = fmt.Errorf("%w: prepayment type must be FULL or PARTIAL", ErrInvalidInput)
	ErrNonPositiveAmount     = fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	ErrExceedsOutstanding    = fmt.Errorf("%w: amount exceeds outstanding principal", ErrInvalidInput)
	ErrMissingParty          = fmt.Errorf("%w: customer and funding account are required", ErrInvalidInput)
)

// InsufficientFundsError reports a payment that does not meet the required
// amount. It matches ErrInsufficientFunds.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

// Shortfall is how much more money the operation needs
func (e *InsufficientFundsError) Shortfall() decimal.Decimal {
	return e.Required.Sub(e.Available)
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %s, got %s, shortfall %s",
		e.Required.StringFixed(2), e.Available.StringFixed(2), e.Shortfall().StringFixed(2))
}

// Unwrap lets errors.Is match the category sentinel
func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// NewInsufficientFunds builds an InsufficientFundsError
func NewInsufficientFunds(required, available decimal.Decimal) error {
	return &InsufficientFundsError{Required: required, Available: available}
}
