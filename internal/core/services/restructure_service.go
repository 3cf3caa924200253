package services

import (
	"context"

	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/adapters/persistence/repositories"
	"loanhub/internal/config"
	"loanhub/internal/core/amortization"
	"loanhub/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// RestructureService runs the request, approve, implement workflow that
// replaces a loan's remaining schedule with one on new terms
type RestructureService struct {
	loanTx
	tiers  TierLookup
	ids    IDGenerator
	clock  Clock
	policy config.LoanConfig
}

// NewRestructureService creates a new restructure service
func NewRestructureService(
	repos *repositories.Repositories,
	locker *LoanLocker,
	tiers TierLookup,
	ids IDGenerator,
	clock Clock,
	policy config.LoanConfig,
) *RestructureService {
	return &RestructureService{
		loanTx: loanTx{repos: repos, locker: locker},
		tiers:  tiers,
		ids:    ids,
		clock:  clock,
		policy: policy,
	}
}

// RestructureInput represents a restructure request. Omitted terms keep the
// current rate and extend the current tenure by the default extension.
type RestructureInput struct {
	LoanID          uint             `json:"-"`
	NewTenureMonths *int             `json:"new_tenure_months,omitempty"`
	NewInterestRate *decimal.Decimal `json:"new_interest_rate,omitempty"`
	Reason          string           `json:"reason"`
	Justification   string           `json:"justification,omitempty"`
}

// Request prices a restructure of a disbursed or active loan and stores it
// unapproved. Terms that cannot amortize the outstanding principal are
// rejected before anything is stored.
func (s *RestructureService) Request(ctx context.Context, input *RestructureInput) (*models.Restructure, error) {
	loan, err := s.repos.Loans.GetByID(ctx, input.LoanID)
	if err != nil {
		return nil, err
	}
	if !loan.Status.IsServicing() {
		return nil, domain.ErrLoanNotServicing
	}

	tenure := loan.TenureMonths + s.policy.RestructureExtensionMonths
	if input.NewTenureMonths != nil {
		tenure = *input.NewTenureMonths
	}
	rate := loan.InterestRate
	if input.NewInterestRate != nil {
		rate = *input.NewInterestRate
	}

	now := s.clock.Now()
	proposed, err := amortization.Generate(amortization.Terms{
		Principal:    loan.OutstandingAmount,
		AnnualRate:   rate,
		TenureMonths: tenure,
		Frequency:    loan.Frequency,
	}, amortization.DateOnly(now))
	if err != nil {
		return nil, err
	}

	unpaid, err := s.repos.Schedules.ListUnpaid(ctx, loan.ID)
	if err != nil {
		return nil, err
	}
	_, interestRemaining := unpaidTotals(unpaid)

	charges, err := waivedCharge(ctx, s.tiers, loan.CustomerID, s.policy.RestructureFee)
	if err != nil {
		return nil, err
	}

	restructure := &models.Restructure{
		LoanID:               loan.ID,
		Reference:            s.ids.NewReference(RefRestructure),
		Reason:               input.Reason,
		Justification:        input.Justification,
		OriginalTenureMonths: loan.TenureMonths,
		OriginalInterestRate: loan.InterestRate,
		OriginalEMI:          loan.EMIAmount,
		OutstandingPrincipal: loan.OutstandingAmount,
		NewTenureMonths:      tenure,
		NewInterestRate:      rate,
		NewEMI:               proposed.EMI,
		Charges:              charges,
		AdditionalInterest:   proposed.TotalInterest().Sub(interestRemaining),
		RequestedAt:          now,
	}
	if err := s.repos.Restructures.Create(ctx, restructure); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"loan_id":             loan.ID,
		"reference":           restructure.Reference,
		"new_tenure":          tenure,
		"new_rate":            rate.String(),
		"new_emi":             proposed.EMI.StringFixed(2),
		"additional_interest": restructure.AdditionalInterest.StringFixed(2),
	}).Info("🔁 Restructure requested")
	return restructure, nil
}

// Approve marks a pending restructure approved
func (s *RestructureService) Approve(ctx context.Context, id uint, remarks string) (*models.Restructure, error) {
	var result *models.Restructure
	err := s.repos.UnitOfWork.Do(ctx, func(ctx context.Context) error {
		restructure, err := s.repos.Restructures.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if restructure.IsImplemented {
			return domain.ErrRestructureImplemented
		}
		if restructure.IsApproved {
			return domain.ErrRestructureApproved
		}

		restructure.IsApproved = true
		restructure.ApprovalDate = timePtr(s.clock.Now())
		restructure.ApprovalRemarks = remarks
		result = restructure
		return s.repos.Restructures.Update(ctx, restructure)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithField("restructure_id", id).Info("✅ Restructure approved")
	return result, nil
}

// Implement applies an approved restructure: unpaid installments are
// discarded and a new schedule on the new terms starts today, numbered after
// the paid history.
func (s *RestructureService) Implement(ctx context.Context, id uint) (*models.Restructure, error) {
	pending, err := s.repos.Restructures.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var result *models.Restructure
	err = s.run(ctx, pending.LoanID, func(ctx context.Context, loan *models.Loan) error {
		restructure, err := s.repos.Restructures.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !restructure.IsApproved {
			return domain.ErrRestructureNotApproved
		}
		if restructure.IsImplemented {
			return domain.ErrRestructureImplemented
		}
		if !loan.Status.IsServicing() {
			return domain.ErrLoanNotServicing
		}

		now := s.clock.Now()
		schedule, err := amortization.Generate(amortization.Terms{
			Principal:    loan.OutstandingAmount,
			AnnualRate:   restructure.NewInterestRate,
			TenureMonths: restructure.NewTenureMonths,
			Frequency:    loan.Frequency,
		}, amortization.DateOnly(now))
		if err != nil {
			return err
		}

		if _, err := s.repos.Schedules.DeleteUnpaid(ctx, loan.ID); err != nil {
			return err
		}
		last, err := s.repos.Schedules.LastSequence(ctx, loan.ID)
		if err != nil {
			return err
		}
		if err := s.repos.Schedules.CreateBatch(ctx, toEntries(loan.ID, schedule.Installments, last+1)); err != nil {
			return err
		}

		loan.InterestRate = restructure.NewInterestRate
		loan.TenureMonths = restructure.NewTenureMonths
		loan.EMIAmount = schedule.EMI
		setNextDue(loan, schedule.Installments[0].DueDate, schedule.Installments[0].EMI)
		loan.MaturityDate = timePtr(schedule.MaturityDate())
		if err := s.repos.Loans.Update(ctx, loan); err != nil {
			return err
		}

		restructure.OutstandingPrincipal = loan.OutstandingAmount
		restructure.NewEMI = schedule.EMI
		restructure.IsImplemented = true
		restructure.EffectiveDate = timePtr(now)
		result = restructure
		return s.repos.Restructures.Update(ctx, restructure)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"loan_id":        result.LoanID,
		"restructure_id": result.ID,
		"new_emi":        result.NewEMI.StringFixed(2),
	}).Info("🔁 Restructure implemented")
	return result, nil
}

// ListByLoan lists a loan's restructure requests
func (s *RestructureService) ListByLoan(ctx context.Context, loanID uint) ([]*models.Restructure, error) {
	if _, err := s.repos.Loans.GetByID(ctx, loanID); err != nil {
		return nil, err
	}
	return s.repos.Restructures.ListByLoan(ctx, loanID)
}
