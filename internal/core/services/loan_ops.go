package services

import (
	"context"
	"time"

	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/adapters/persistence/repositories"
	"loanhub/internal/core/amortization"
	"loanhub/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var hundred = decimal.NewFromInt(100)

// loanTx runs per-loan mutations: one loan at a time in this process, one
// transaction per mutation
type loanTx struct {
	repos  *repositories.Repositories
	locker *LoanLocker
}

// run loads the loan inside a fresh transaction and hands it to fn. The
// transaction commits only if fn returns nil.
func (t loanTx) run(ctx context.Context, loanID uint, fn func(ctx context.Context, loan *models.Loan) error) error {
	unlock := t.locker.Lock(loanID)
	defer unlock()

	return t.repos.UnitOfWork.Do(ctx, func(ctx context.Context) error {
		loan, err := t.repos.Loans.GetByID(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(ctx, loan)
	})
}

// percentOf returns pct percent of amount, rounded to 2 places
func percentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred).Round(2)
}

// waivedCharge returns charge, or zero when the customer's tier waives it
func waivedCharge(ctx context.Context, tiers TierLookup, customerID uint, charge decimal.Decimal) (decimal.Decimal, error) {
	tier, err := tiers.TierOf(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	if tier.WaivesCharges() {
		return decimal.Zero, nil
	}
	return charge, nil
}

// unpaidTotals sums principal and interest over schedule entries
func unpaidTotals(entries []*models.ScheduleEntry) (principal, interest decimal.Decimal) {
	principal, interest = decimal.Zero, decimal.Zero
	for _, e := range entries {
		principal = principal.Add(e.PrincipalComponent)
		interest = interest.Add(e.InterestComponent)
	}
	return principal, interest
}

// periodRateOf returns the loan's per-period interest rate
func periodRateOf(loan *models.Loan) (decimal.Decimal, error) {
	return amortization.PeriodRate(loan.InterestRate, loan.Frequency)
}

// toEntries maps calculator output to rows, numbering from firstSequence
func toEntries(loanID uint, installments []amortization.Installment, firstSequence int) []*models.ScheduleEntry {
	entries := make([]*models.ScheduleEntry, len(installments))
	for i, in := range installments {
		entries[i] = &models.ScheduleEntry{
			LoanID:             loanID,
			Sequence:           firstSequence + i,
			DueDate:            in.DueDate,
			EMIAmount:          in.EMI,
			InterestComponent:  in.Interest,
			PrincipalComponent: in.Principal,
			OutstandingAfter:   in.OutstandingAfter,
			PaidAmount:         decimal.Zero,
			PenaltyAmount:      decimal.Zero,
		}
	}
	return entries
}

// reamortize replaces the unpaid schedule with one that repays remaining at
// the loan's existing installment over the earliest of the unpaid due dates,
// dropping the dates it no longer needs. The loan's balance, tenure and dates
// follow the new schedule. It returns the schedule and how many installments
// were dropped.
func reamortize(ctx context.Context, schedules *repositories.ScheduleRepository, loan *models.Loan, unpaid []*models.ScheduleEntry, remaining decimal.Decimal) (*amortization.Schedule, int, error) {
	r, err := periodRateOf(loan)
	if err != nil {
		return nil, 0, err
	}
	n, err := amortization.SolveTenure(remaining, r, loan.EMIAmount)
	if err != nil {
		return nil, 0, err
	}
	if n > len(unpaid) {
		n = len(unpaid)
	}

	dueDates := make([]time.Time, n)
	for i := range dueDates {
		dueDates[i] = unpaid[i].DueDate
	}
	schedule, err := amortization.GenerateWithInstallment(remaining, r, loan.EMIAmount, dueDates)
	if err != nil {
		return nil, 0, err
	}

	if _, err := schedules.DeleteUnpaid(ctx, loan.ID); err != nil {
		return nil, 0, err
	}
	entries := toEntries(loan.ID, schedule.Installments, unpaid[0].Sequence)
	if err := schedules.CreateBatch(ctx, entries); err != nil {
		return nil, 0, err
	}

	months, err := amortization.MonthsPerPeriod(loan.Frequency)
	if err != nil {
		return nil, 0, err
	}
	dropped := len(unpaid) - len(entries)
	loan.OutstandingAmount = remaining
	loan.TenureMonths -= dropped * months
	if loan.TenureMonths < 1 {
		loan.TenureMonths = 1
	}
	loan.MaturityDate = timePtr(schedule.MaturityDate())
	setNextDue(loan, entries[0].DueDate, entries[0].EMIAmount)
	return schedule, dropped, nil
}

// closeLoan zeroes the balance and ends servicing
func closeLoan(loan *models.Loan) {
	loan.OutstandingAmount = decimal.Zero
	loan.Status = domain.LoanStatusClosed
	loan.NextPaymentDue = nil
	loan.NextPaymentAmount = decimal.Zero
}

// setNextDue points the loan at the installment to be paid next
func setNextDue(loan *models.Loan, due time.Time, amount decimal.Decimal) {
	loan.NextPaymentDue = timePtr(due)
	loan.NextPaymentAmount = amount
}

func timePtr(t time.Time) *time.Time {
	return &t
}

// debitIfAccount takes amount from the funding account when the payment is
// funded from it; other methods settle on an external rail
func debitIfAccount(ctx context.Context, ledger Ledger, loan *models.Loan, method domain.PaymentMethod, amount decimal.Decimal) error {
	if method != domain.PaymentMethodAccount || !amount.IsPositive() {
		return nil
	}
	return ledger.Debit(ctx, loan.AccountID, amount)
}

// paymentMethodOrDefault validates method, defaulting an empty one to CASH
func paymentMethodOrDefault(method domain.PaymentMethod) (domain.PaymentMethod, error) {
	if method == "" {
		return domain.PaymentMethodCash, nil
	}
	if !method.Valid() {
		return "", domain.ErrInvalidPaymentMethod
	}
	return method, nil
}

// awardPoints calls the rewards collaborator after commit. Failures are
// logged, never returned.
func awardPoints(ctx context.Context, rewards Rewards, customerID uint, points int, category, note string) {
	if points <= 0 {
		return
	}
	if err := rewards.AwardPoints(ctx, customerID, points, category, note); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"customer_id": customerID,
			"category":    category,
		}).Warn("⚠️ Failed to award points")
	}
}

// awardCashback calls the rewards collaborator after commit. Failures are
// logged, never returned.
func awardCashback(ctx context.Context, rewards Rewards, customerID uint, amount, percent decimal.Decimal, note string) {
	if !amount.IsPositive() {
		return
	}
	if err := rewards.AwardCashback(ctx, customerID, amount, percent, note); err != nil {
		logrus.WithError(err).WithField("customer_id", customerID).Warn("⚠️ Failed to award cashback")
	}
}
