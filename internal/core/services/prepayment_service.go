package services

import (
	"context"

	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/adapters/persistence/repositories"
	"loanhub/internal/config"
	"loanhub/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PrepaymentService handles early payoff of principal
type PrepaymentService struct {
	loanTx
	ledger  Ledger
	tiers   TierLookup
	rewards Rewards
	ids     IDGenerator
	clock   Clock
	policy  config.LoanConfig
}

// NewPrepaymentService creates a new prepayment service
func NewPrepaymentService(
	repos *repositories.Repositories,
	locker *LoanLocker,
	ledger Ledger,
	tiers TierLookup,
	rewards Rewards,
	ids IDGenerator,
	clock Clock,
	policy config.LoanConfig,
) *PrepaymentService {
	return &PrepaymentService{
		loanTx:  loanTx{repos: repos, locker: locker},
		ledger:  ledger,
		tiers:   tiers,
		rewards: rewards,
		ids:     ids,
		clock:   clock,
		policy:  policy,
	}
}

// PrepayInput represents a prepayment
type PrepayInput struct {
	LoanID        uint                  `json:"-"`
	Type          domain.PrepaymentType `json:"prepayment_type"`
	Amount        decimal.Decimal       `json:"amount"`
	PaymentMethod domain.PaymentMethod  `json:"payment_method,omitempty"`
}

// PrepayResult is the prepayment record and the loan after it
type PrepayResult struct {
	Prepayment *models.Prepayment `json:"prepayment"`
	Loan       *models.Loan       `json:"loan"`
}

// Prepay pays down principal ahead of schedule.
//
// FULL must cover the outstanding principal exactly and closes the loan.
// PARTIAL keeps the installment amount and shortens the schedule: the
// remaining principal is re-amortized over the earliest existing due dates
// it needs, and the tail is dropped.
func (s *PrepaymentService) Prepay(ctx context.Context, input *PrepayInput) (*PrepayResult, error) {
	if input.Type != domain.PrepaymentFull && input.Type != domain.PrepaymentPartial {
		return nil, domain.ErrInvalidPrepaymentType
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrNonPositiveAmount
	}
	method, err := paymentMethodOrDefault(input.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var result PrepayResult
	err = s.run(ctx, input.LoanID, func(ctx context.Context, loan *models.Loan) error {
		if !loan.Status.IsServicing() {
			return domain.ErrLoanNotServicing
		}

		unpaid, err := s.repos.Schedules.ListUnpaid(ctx, loan.ID)
		if err != nil {
			return err
		}
		if len(unpaid) == 0 {
			return domain.ErrNoUnpaidInstallments
		}
		_, interestRemaining := unpaidTotals(unpaid)
		outstanding := loan.OutstandingAmount

		if input.Amount.GreaterThan(outstanding) {
			return domain.ErrExceedsOutstanding
		}
		if input.Type == domain.PrepaymentFull && input.Amount.LessThan(outstanding) {
			return domain.NewInsufficientFunds(outstanding, input.Amount)
		}

		charges, err := waivedCharge(ctx, s.tiers, loan.CustomerID,
			percentOf(input.Amount, s.policy.PrepaymentChargePercent))
		if err != nil {
			return err
		}
		if err := debitIfAccount(ctx, s.ledger, loan, method, input.Amount.Add(charges)); err != nil {
			return err
		}

		now := s.clock.Now()
		prepayment := &models.Prepayment{
			LoanID:            loan.ID,
			Reference:         s.ids.NewReference(RefPrepayment),
			Type:              input.Type,
			Amount:            input.Amount,
			Charges:           charges,
			OutstandingBefore: outstanding,
			PaymentMethod:     method,
			PrepaidAt:         now,
		}

		remaining := outstanding.Sub(input.Amount)
		if remaining.IsZero() {
			if _, err := s.repos.Schedules.MarkAllUnpaidPaid(ctx, loan.ID, now); err != nil {
				return err
			}
			prepayment.InterestSaved = interestRemaining
			prepayment.TenureReduced = len(unpaid)
			closeLoan(loan)
		} else {
			newInterest, err := s.shorten(ctx, loan, unpaid, remaining, prepayment)
			if err != nil {
				return err
			}
			prepayment.InterestSaved = interestRemaining.Sub(newInterest)
		}
		prepayment.OutstandingAfter = loan.OutstandingAmount

		loan.TotalPaid = loan.TotalPaid.Add(input.Amount)
		if err := s.repos.Loans.Update(ctx, loan); err != nil {
			return err
		}
		if err := s.repos.Prepayments.Create(ctx, prepayment); err != nil {
			return err
		}

		result = PrepayResult{Prepayment: prepayment, Loan: loan}
		return nil
	})
	if err != nil {
		return nil, err
	}

	loan, prepayment := result.Loan, result.Prepayment
	logrus.WithFields(logrus.Fields{
		"loan_id":        loan.ID,
		"reference":      prepayment.Reference,
		"type":           prepayment.Type,
		"amount":         prepayment.Amount.StringFixed(2),
		"interest_saved": prepayment.InterestSaved.StringFixed(2),
		"tenure_reduced": prepayment.TenureReduced,
	}).Info("⏩ Prepayment applied")

	awardCashback(ctx, s.rewards, loan.CustomerID,
		percentOf(prepayment.Amount, s.policy.CashbackPercent), s.policy.CashbackPercent,
		"Prepayment cashback "+prepayment.Reference)
	if loan.Status == domain.LoanStatusClosed {
		awardPoints(ctx, s.rewards, loan.CustomerID, s.policy.ClosureBonusPoints,
			domain.RewardLoanClosure, "Loan "+loan.LoanNumber+" closed")
	}
	return &result, nil
}

// shorten re-amortizes remaining at the loan's existing installment and
// returns the new schedule's interest
func (s *PrepaymentService) shorten(ctx context.Context, loan *models.Loan, unpaid []*models.ScheduleEntry, remaining decimal.Decimal, prepayment *models.Prepayment) (decimal.Decimal, error) {
	schedule, dropped, err := reamortize(ctx, s.repos.Schedules, loan, unpaid, remaining)
	if err != nil {
		return decimal.Zero, err
	}
	prepayment.TenureReduced = dropped
	prepayment.NewEMI = decimal.NewNullDecimal(loan.EMIAmount)
	return schedule.TotalInterest(), nil
}

// ListPrepayments lists a loan's prepayments
func (s *PrepaymentService) ListPrepayments(ctx context.Context, loanID uint) ([]*models.Prepayment, error) {
	if _, err := s.repos.Loans.GetByID(ctx, loanID); err != nil {
		return nil, err
	}
	return s.repos.Prepayments.ListByLoan(ctx, loanID)
}
