package services

import (
	"context"
	"time"

	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/adapters/persistence/repositories"
	"loanhub/internal/config"
	"loanhub/internal/core/amortization"
	"loanhub/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// RepaymentService posts regular installment payments
type RepaymentService struct {
	loanTx
	ledger  Ledger
	rewards Rewards
	ids     IDGenerator
	clock   Clock
	policy  config.LoanConfig
}

// NewRepaymentService creates a new repayment service
func NewRepaymentService(
	repos *repositories.Repositories,
	locker *LoanLocker,
	ledger Ledger,
	rewards Rewards,
	ids IDGenerator,
	clock Clock,
	policy config.LoanConfig,
) *RepaymentService {
	return &RepaymentService{
		loanTx:  loanTx{repos: repos, locker: locker},
		ledger:  ledger,
		rewards: rewards,
		ids:     ids,
		clock:   clock,
		policy:  policy,
	}
}

// RepayInput represents a repayment
type RepayInput struct {
	LoanID        uint                 `json:"-"`
	Amount        decimal.Decimal      `json:"amount"`
	PaymentMethod domain.PaymentMethod `json:"payment_method,omitempty"`
}

// RepayResult is the posted repayment and the loan after it
type RepayResult struct {
	Repayment *models.Repayment `json:"repayment"`
	Loan      *models.Loan      `json:"loan"`
}

// Repay applies a payment to a disbursed or active loan.
//
// The period's interest on the outstanding balance is taken first and the
// rest reduces principal. A payment below the interest, or above the balance
// plus interest, is rejected. A payment made after the due date is late and
// carries the late fee on top.
//
// Payments consume the schedule in order. A payment that covers the earliest
// unpaid installment settles it and any principal paid beyond it is
// re-amortized over the installments that follow; a smaller payment leaves
// the installment open for the balance still due. Either way the unpaid
// schedule's principal stays equal to the loan's outstanding amount.
func (s *RepaymentService) Repay(ctx context.Context, input *RepayInput) (*RepayResult, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrNonPositiveAmount
	}
	method, err := paymentMethodOrDefault(input.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var result RepayResult
	err = s.run(ctx, input.LoanID, func(ctx context.Context, loan *models.Loan) error {
		if !loan.Status.IsServicing() {
			return domain.ErrLoanNotServicing
		}

		r, err := periodRateOf(loan)
		if err != nil {
			return err
		}
		interest := loan.OutstandingAmount.Mul(r).Round(2)
		if input.Amount.LessThan(interest) {
			return domain.NewInsufficientFunds(interest, input.Amount)
		}
		if input.Amount.GreaterThan(loan.OutstandingAmount.Add(interest)) {
			return domain.ErrExceedsOutstanding
		}
		principal := input.Amount.Sub(interest)

		now := s.clock.Now()
		today := amortization.DateOnly(now)
		isLate := loan.NextPaymentDue != nil && today.After(amortization.DateOnly(*loan.NextPaymentDue))
		lateFee := decimal.Zero
		if isLate {
			lateFee = s.policy.LateFee
		}

		if err := debitIfAccount(ctx, s.ledger, loan, method, input.Amount.Add(lateFee)); err != nil {
			return err
		}

		repayment := &models.Repayment{
			LoanID:           loan.ID,
			Reference:        s.ids.NewReference(RefRepayment),
			Amount:           input.Amount,
			InterestPortion:  interest,
			PrincipalPortion: principal,
			LateFee:          lateFee,
			IsLate:           isLate,
			PaymentMethod:    method,
			PaidAt:           now,
		}

		loan.OutstandingAmount = loan.OutstandingAmount.Sub(principal)
		loan.TotalPaid = loan.TotalPaid.Add(input.Amount)
		loan.LateFeesPaid = loan.LateFeesPaid.Add(lateFee)
		if loan.Status == domain.LoanStatusDisbursed {
			loan.Status = domain.LoanStatusActive
		}

		settled, err := s.consumeSchedule(ctx, loan, principal, input.Amount, now)
		if err != nil {
			return err
		}
		repayment.ScheduleEntryID = settled

		if !loan.OutstandingAmount.IsPositive() {
			closeLoan(loan)
			if _, err := s.repos.Schedules.MarkAllUnpaidPaid(ctx, loan.ID, now); err != nil {
				return err
			}
		}
		if err := s.repos.Loans.Update(ctx, loan); err != nil {
			return err
		}

		repayment.OutstandingAfter = loan.OutstandingAmount
		if err := s.repos.Repayments.Create(ctx, repayment); err != nil {
			return err
		}

		result = RepayResult{Repayment: repayment, Loan: loan}
		return nil
	})
	if err != nil {
		return nil, err
	}

	loan, repayment := result.Loan, result.Repayment
	logrus.WithFields(logrus.Fields{
		"loan_id":     loan.ID,
		"reference":   repayment.Reference,
		"amount":      repayment.Amount.StringFixed(2),
		"principal":   repayment.PrincipalPortion.StringFixed(2),
		"outstanding": loan.OutstandingAmount.StringFixed(2),
		"late":        repayment.IsLate,
	}).Info("💰 Repayment posted")

	if !repayment.IsLate {
		awardPoints(ctx, s.rewards, loan.CustomerID, s.policy.OnTimeRepaymentPoints,
			domain.RewardLoanRepayment, "On-time repayment "+repayment.Reference)
	}
	if loan.Status == domain.LoanStatusClosed {
		awardPoints(ctx, s.rewards, loan.CustomerID, s.policy.ClosureBonusPoints,
			domain.RewardLoanClosure, "Loan "+loan.LoanNumber+" closed")
	}
	return &result, nil
}

// consumeSchedule applies a payment's principal to the earliest unpaid
// installment and returns its id when the payment settled it. The loan's
// outstanding amount must already reflect the payment.
func (s *RepaymentService) consumeSchedule(ctx context.Context, loan *models.Loan, principal, amount decimal.Decimal, now time.Time) (*uint, error) {
	unpaid, err := s.repos.Schedules.ListUnpaid(ctx, loan.ID)
	if err != nil {
		return nil, err
	}
	if len(unpaid) == 0 {
		return nil, nil
	}
	entry := unpaid[0]
	paid := entry.PaidAmount.Add(amount)

	if principal.LessThan(entry.PrincipalComponent) {
		// the next payment is charged interest on the reduced balance
		r, err := periodRateOf(loan)
		if err != nil {
			return nil, err
		}
		entry.PrincipalComponent = entry.PrincipalComponent.Sub(principal)
		entry.InterestComponent = loan.OutstandingAmount.Mul(r).Round(2)
		entry.EMIAmount = entry.PrincipalComponent.Add(entry.InterestComponent)
		entry.PaidAmount = paid
		loan.NextPaymentAmount = entry.EMIAmount
		return nil, s.repos.Schedules.ApplyPartial(ctx, entry)
	}

	if err := s.repos.Schedules.MarkPaid(ctx, entry.ID, paid, now); err != nil {
		return nil, err
	}
	rest := unpaid[1:]
	if len(rest) == 0 || !loan.OutstandingAmount.IsPositive() {
		return &entry.ID, nil
	}

	setNextDue(loan, rest[0].DueDate, rest[0].EMIAmount)
	if scheduled, _ := unpaidTotals(rest); !scheduled.Equal(loan.OutstandingAmount) {
		if _, _, err := reamortize(ctx, s.repos.Schedules, loan, rest, loan.OutstandingAmount); err != nil {
			return nil, err
		}
	}
	return &entry.ID, nil
}

// ListRepayments lists a loan's repayments, newest first
func (s *RepaymentService) ListRepayments(ctx context.Context, loanID uint) ([]*models.Repayment, error) {
	if _, err := s.repos.Loans.GetByID(ctx, loanID); err != nil {
		return nil, err
	}
	return s.repos.Repayments.ListByLoan(ctx, loanID)
}
