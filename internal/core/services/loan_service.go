package services

import (
	"context"

	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/adapters/persistence/repositories"
	"loanhub/internal/core/amortization"
	"loanhub/internal/core/domain"
	"loanhub/internal/pkg/pagination"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// LoanService owns the loan state machine from application to disbursement
type LoanService struct {
	loanTx
	ledger Ledger
	ids    IDGenerator
	clock  Clock
}

// NewLoanService creates a new loan service
func NewLoanService(
	repos *repositories.Repositories,
	locker *LoanLocker,
	ledger Ledger,
	ids IDGenerator,
	clock Clock,
) *LoanService {
	return &LoanService{
		loanTx: loanTx{repos: repos, locker: locker},
		ledger: ledger,
		ids:    ids,
		clock:  clock,
	}
}

// ApplyLoanInput represents a loan application
type ApplyLoanInput struct {
	CustomerID        uint             `json:"customer_id"`
	AccountID         uint             `json:"account_id"`
	LoanType          domain.LoanType  `json:"loan_type"`
	PrincipalAmount   decimal.Decimal  `json:"principal_amount"`
	TenureMonths      int              `json:"tenure_months"`
	Frequency         domain.Frequency `json:"repayment_frequency"`
	Purpose           string           `json:"purpose,omitempty"`
	CollateralDetails string           `json:"collateral_details,omitempty"`
}

// Apply creates a PENDING loan priced from the loan type rate table. The
// funding account must belong to the applying customer.
func (s *LoanService) Apply(ctx context.Context, input *ApplyLoanInput) (*models.Loan, error) {
	if input.CustomerID == 0 || input.AccountID == 0 {
		return nil, domain.ErrMissingParty
	}
	if !input.PrincipalAmount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if input.TenureMonths <= 0 {
		return nil, domain.ErrInvalidTenure
	}
	if input.Frequency == "" {
		input.Frequency = domain.FrequencyMonthly
	}
	if !input.Frequency.Valid() {
		return nil, domain.ErrUnknownFrequency
	}

	loanType, err := s.repos.LoanTypes.GetByCode(ctx, input.LoanType)
	if err != nil {
		return nil, err
	}
	// disbursement credits and ACCOUNT payments debit this account
	if _, err := s.repos.Accounts.GetOwned(ctx, input.AccountID, input.CustomerID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	schedule, err := amortization.Generate(amortization.Terms{
		Principal:    input.PrincipalAmount,
		AnnualRate:   loanType.InterestRate,
		TenureMonths: input.TenureMonths,
		Frequency:    input.Frequency,
	}, amortization.DateOnly(now))
	if err != nil {
		return nil, err
	}

	loan := &models.Loan{
		LoanNumber:        s.ids.NewLoanNumber(),
		CustomerID:        input.CustomerID,
		AccountID:         input.AccountID,
		LoanType:          loanType.Code,
		Status:            domain.LoanStatusPending,
		PrincipalAmount:   input.PrincipalAmount,
		InterestRate:      loanType.InterestRate,
		TenureMonths:      input.TenureMonths,
		Frequency:         input.Frequency,
		EMIAmount:         schedule.EMI,
		OutstandingAmount: input.PrincipalAmount,
		TotalPaid:         decimal.Zero,
		LateFeesPaid:      decimal.Zero,
		NextPaymentAmount: decimal.Zero,
		ApplicationDate:   now,
		Purpose:           input.Purpose,
		CollateralDetails: input.CollateralDetails,
	}
	if err := s.repos.Loans.Create(ctx, loan); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"loan_id":     loan.ID,
		"loan_number": loan.LoanNumber,
		"principal":   loan.PrincipalAmount.StringFixed(2),
		"emi":         loan.EMIAmount.StringFixed(2),
	}).Info("📝 Loan application received")
	return loan, nil
}

// MarkUnderReview moves a PENDING loan to UNDER_REVIEW
func (s *LoanService) MarkUnderReview(ctx context.Context, id uint) (*models.Loan, error) {
	var result *models.Loan
	err := s.run(ctx, id, func(ctx context.Context, loan *models.Loan) error {
		if loan.Status != domain.LoanStatusPending {
			return domain.ErrLoanNotPending
		}
		loan.Status = domain.LoanStatusUnderReview
		result = loan
		return s.repos.Loans.Update(ctx, loan)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Approve approves a loan that is pending or under review
func (s *LoanService) Approve(ctx context.Context, id uint, remarks string) (*models.Loan, error) {
	var result *models.Loan
	err := s.run(ctx, id, func(ctx context.Context, loan *models.Loan) error {
		if !loan.Status.CanDecide() {
			return domain.ErrLoanNotPending
		}
		loan.Status = domain.LoanStatusApproved
		loan.ApprovalDate = timePtr(s.clock.Now())
		loan.ApprovalRemarks = remarks
		result = loan
		return s.repos.Loans.Update(ctx, loan)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithField("loan_id", id).Info("✅ Loan approved")
	return result, nil
}

// Reject rejects a loan that is pending or under review
func (s *LoanService) Reject(ctx context.Context, id uint, reason string) (*models.Loan, error) {
	var result *models.Loan
	err := s.run(ctx, id, func(ctx context.Context, loan *models.Loan) error {
		if !loan.Status.CanDecide() {
			return domain.ErrLoanNotPending
		}
		loan.Status = domain.LoanStatusRejected
		loan.RejectionReason = reason
		result = loan
		return s.repos.Loans.Update(ctx, loan)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"loan_id": id,
		"reason":  reason,
	}).Info("❌ Loan rejected")
	return result, nil
}

// Disburse pays out an APPROVED loan: the funding account is credited with
// the principal and the repayment schedule is generated from today. Either
// everything happens or nothing does.
func (s *LoanService) Disburse(ctx context.Context, id uint) (*models.Loan, error) {
	var result *models.Loan
	err := s.run(ctx, id, func(ctx context.Context, loan *models.Loan) error {
		if loan.Status != domain.LoanStatusApproved {
			return domain.ErrLoanNotApproved
		}

		now := s.clock.Now()
		schedule, err := amortization.Generate(amortization.Terms{
			Principal:    loan.PrincipalAmount,
			AnnualRate:   loan.InterestRate,
			TenureMonths: loan.TenureMonths,
			Frequency:    loan.Frequency,
		}, amortization.DateOnly(now))
		if err != nil {
			return err
		}

		if err := s.ledger.Credit(ctx, loan.AccountID, loan.PrincipalAmount); err != nil {
			return err
		}
		if err := s.repos.Schedules.CreateBatch(ctx, toEntries(loan.ID, schedule.Installments, 1)); err != nil {
			return err
		}

		loan.Status = domain.LoanStatusDisbursed
		loan.EMIAmount = schedule.EMI
		loan.OutstandingAmount = loan.PrincipalAmount
		loan.DisbursementDate = timePtr(now)
		setNextDue(loan, schedule.Installments[0].DueDate, schedule.Installments[0].EMI)
		loan.MaturityDate = timePtr(schedule.MaturityDate())
		result = loan
		return s.repos.Loans.Update(ctx, loan)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"loan_id":     result.ID,
		"loan_number": result.LoanNumber,
		"amount":      result.PrincipalAmount.StringFixed(2),
		"maturity":    result.MaturityDate.Format("2006-01-02"),
	}).Info("💸 Loan disbursed")
	return result, nil
}

// GetByID gets a loan by ID
func (s *LoanService) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	return s.repos.Loans.GetByID(ctx, id)
}

// GetByNumber gets a loan by loan number
func (s *LoanService) GetByNumber(ctx context.Context, loanNumber string) (*models.Loan, error) {
	return s.repos.Loans.GetByNumber(ctx, loanNumber)
}

// ListInput represents list input
type ListInput struct {
	Status domain.LoanStatus
	Page   int
	Limit  int
}

// ListOutput represents list output
type ListOutput struct {
	Loans []*models.Loan  `json:"loans"`
	Meta  pagination.Meta `json:"meta"`
}

// List lists loans, optionally filtered by status
func (s *LoanService) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	page := pagination.New(input.Page, input.Limit)
	loans, total, err := s.repos.Loans.List(ctx, input.Status, page.Offset, page.Limit)
	if err != nil {
		return nil, err
	}

	return &ListOutput{
		Loans: loans,
		Meta:  pagination.NewMeta(page, total),
	}, nil
}

// ListByCustomer lists a customer's loans
func (s *LoanService) ListByCustomer(ctx context.Context, customerID uint) ([]*models.Loan, error) {
	return s.repos.Loans.ListByCustomer(ctx, customerID)
}

// GetSchedule returns a loan's full schedule, paid history included
func (s *LoanService) GetSchedule(ctx context.Context, loanID uint) ([]*models.ScheduleEntry, error) {
	if _, err := s.repos.Loans.GetByID(ctx, loanID); err != nil {
		return nil, err
	}
	return s.repos.Schedules.ListByLoan(ctx, loanID)
}
