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

// ForeclosureService quotes and settles early payoff of a whole loan
type ForeclosureService struct {
	loanTx
	ledger  Ledger
	tiers   TierLookup
	rewards Rewards
	ids     IDGenerator
	clock   Clock
	policy  config.LoanConfig
}

// NewForeclosureService creates a new foreclosure service
func NewForeclosureService(
	repos *repositories.Repositories,
	locker *LoanLocker,
	ledger Ledger,
	tiers TierLookup,
	rewards Rewards,
	ids IDGenerator,
	clock Clock,
	policy config.LoanConfig,
) *ForeclosureService {
	return &ForeclosureService{
		loanTx:  loanTx{repos: repos, locker: locker},
		ledger:  ledger,
		tiers:   tiers,
		rewards: rewards,
		ids:     ids,
		clock:   clock,
		policy:  policy,
	}
}

// SettleInput represents payment against a foreclosure quote
type SettleInput struct {
	ForeclosureID uint                 `json:"-"`
	PaymentAmount decimal.Decimal      `json:"payment_amount"`
	PaymentMethod domain.PaymentMethod `json:"payment_method,omitempty"`
}

// SettleResult is the settled foreclosure and the closed loan
type SettleResult struct {
	Foreclosure *models.Foreclosure `json:"foreclosure"`
	Loan        *models.Loan        `json:"loan"`
}

// quote is the payoff figure for a loan: its outstanding principal plus the
// interest still scheduled on the unpaid installments
type quote struct {
	principal decimal.Decimal
	interest  decimal.Decimal
	charges   decimal.Decimal
	total     decimal.Decimal
	remaining int
}

func (s *ForeclosureService) price(ctx context.Context, loan *models.Loan) (*quote, error) {
	unpaid, err := s.repos.Schedules.ListUnpaid(ctx, loan.ID)
	if err != nil {
		return nil, err
	}
	if len(unpaid) == 0 {
		return nil, domain.ErrNoUnpaidInstallments
	}

	_, interest := unpaidTotals(unpaid)
	principal := loan.OutstandingAmount
	charges, err := waivedCharge(ctx, s.tiers, loan.CustomerID,
		percentOf(principal, s.policy.ForeclosureChargePercent))
	if err != nil {
		return nil, err
	}
	return &quote{
		principal: principal,
		interest:  interest,
		charges:   charges,
		total:     principal.Add(interest).Add(charges),
		remaining: len(unpaid),
	}, nil
}

// Quote prices a foreclosure of a disbursed or active loan and stores the
// quote as REQUESTED
func (s *ForeclosureService) Quote(ctx context.Context, loanID uint) (*models.Foreclosure, error) {
	loan, err := s.repos.Loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !loan.Status.IsServicing() {
		return nil, domain.ErrLoanNotServicing
	}

	q, err := s.price(ctx, loan)
	if err != nil {
		return nil, err
	}

	foreclosure := &models.Foreclosure{
		LoanID:               loan.ID,
		Reference:            s.ids.NewReference(RefForeclosure),
		Status:               domain.ForeclosureRequested,
		OutstandingPrincipal: q.principal,
		PendingInterest:      q.interest,
		ForeclosureCharges:   q.charges,
		TotalAmountDue:       q.total,
		AmountPaid:           decimal.Zero,
		RemainingEMIs:        q.remaining,
		InterestSaved:        decimal.Zero,
		RequestedAt:          s.clock.Now(),
	}
	if err := s.repos.Foreclosures.Create(ctx, foreclosure); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"loan_id":   loan.ID,
		"reference": foreclosure.Reference,
		"total_due": q.total.StringFixed(2),
	}).Info("🧾 Foreclosure quoted")
	return foreclosure, nil
}

// Settle pays off the loan against a quote. The amount due is recomputed
// from the current schedule, so a stale quote never under-collects. The loan
// is always closed.
func (s *ForeclosureService) Settle(ctx context.Context, input *SettleInput) (*SettleResult, error) {
	if !input.PaymentAmount.IsPositive() {
		return nil, domain.ErrNonPositiveAmount
	}
	method, err := paymentMethodOrDefault(input.PaymentMethod)
	if err != nil {
		return nil, err
	}

	requested, err := s.repos.Foreclosures.GetByID(ctx, input.ForeclosureID)
	if err != nil {
		return nil, err
	}

	var result SettleResult
	err = s.run(ctx, requested.LoanID, func(ctx context.Context, loan *models.Loan) error {
		foreclosure, err := s.repos.Foreclosures.GetByID(ctx, input.ForeclosureID)
		if err != nil {
			return err
		}
		if foreclosure.Status == domain.ForeclosureCompleted {
			return domain.ErrForeclosureCompleted
		}
		if !loan.Status.IsServicing() {
			return domain.ErrLoanNotServicing
		}

		q, err := s.price(ctx, loan)
		if err != nil {
			return err
		}
		if input.PaymentAmount.LessThan(q.total) {
			return domain.NewInsufficientFunds(q.total, input.PaymentAmount)
		}
		if err := debitIfAccount(ctx, s.ledger, loan, method, input.PaymentAmount); err != nil {
			return err
		}

		now := s.clock.Now()
		if _, err := s.repos.Schedules.MarkAllUnpaidPaid(ctx, loan.ID, now); err != nil {
			return err
		}

		loan.TotalPaid = loan.TotalPaid.Add(input.PaymentAmount)
		closeLoan(loan)
		if err := s.repos.Loans.Update(ctx, loan); err != nil {
			return err
		}

		foreclosure.Status = domain.ForeclosureCompleted
		foreclosure.OutstandingPrincipal = q.principal
		foreclosure.PendingInterest = q.interest
		foreclosure.ForeclosureCharges = q.charges
		foreclosure.TotalAmountDue = q.total
		foreclosure.RemainingEMIs = q.remaining
		foreclosure.AmountPaid = input.PaymentAmount
		foreclosure.PaymentMethod = method
		foreclosure.SettledAt = timePtr(now)
		if err := s.repos.Foreclosures.Update(ctx, foreclosure); err != nil {
			return err
		}

		result = SettleResult{Foreclosure: foreclosure, Loan: loan}
		return nil
	})
	if err != nil {
		return nil, err
	}

	loan := result.Loan
	logrus.WithFields(logrus.Fields{
		"loan_id":   loan.ID,
		"reference": result.Foreclosure.Reference,
		"paid":      result.Foreclosure.AmountPaid.StringFixed(2),
	}).Info("🏁 Loan foreclosed")

	awardPoints(ctx, s.rewards, loan.CustomerID, s.policy.ClosureBonusPoints,
		domain.RewardLoanClosure, "Loan "+loan.LoanNumber+" foreclosed")
	return &result, nil
}

// ListByLoan lists a loan's foreclosure quotes and settlements
func (s *ForeclosureService) ListByLoan(ctx context.Context, loanID uint) ([]*models.Foreclosure, error) {
	if _, err := s.repos.Loans.GetByID(ctx, loanID); err != nil {
		return nil, err
	}
	return s.repos.Foreclosures.ListByLoan(ctx, loanID)
}

// GetByID gets a foreclosure quote or settlement
func (s *ForeclosureService) GetByID(ctx context.Context, id uint) (*models.Foreclosure, error) {
	return s.repos.Foreclosures.GetByID(ctx, id)
}
