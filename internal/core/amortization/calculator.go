// Package amortization computes equated installments and reducing-balance
// repayment schedules. Every function here is pure: callers persist results.
package amortization

import (
	"time"

	"loanhub/internal/core/domain"

	"github.com/shopspring/decimal"
)

// internalPrecision bounds intermediate compounding so long tenures stay cheap
const internalPrecision = 24

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Terms are the inputs of a schedule
type Terms struct {
	Principal    decimal.Decimal
	AnnualRate   decimal.Decimal // percent, e.g. 12 for 12%
	TenureMonths int
	Frequency    domain.Frequency
}

// Installment is one period of a generated schedule
type Installment struct {
	Sequence         int
	DueDate          time.Time
	EMI              decimal.Decimal
	Interest         decimal.Decimal
	Principal        decimal.Decimal
	OutstandingAfter decimal.Decimal
}

// Schedule is the full output of the calculator
type Schedule struct {
	EMI          decimal.Decimal
	PeriodRate   decimal.Decimal
	Installments []Installment
}

// TotalInterest sums the interest components
func (s *Schedule) TotalInterest() decimal.Decimal {
	total := decimal.Zero
	for _, in := range s.Installments {
		total = total.Add(in.Interest)
	}
	return total
}

// TotalPrincipal sums the principal components
func (s *Schedule) TotalPrincipal() decimal.Decimal {
	total := decimal.Zero
	for _, in := range s.Installments {
		total = total.Add(in.Principal)
	}
	return total
}

// MaturityDate is the due date of the last installment
func (s *Schedule) MaturityDate() time.Time {
	if len(s.Installments) == 0 {
		return time.Time{}
	}
	return s.Installments[len(s.Installments)-1].DueDate
}

// MonthsPerPeriod returns 1, 3, 6 or 12 for the supported frequencies
func MonthsPerPeriod(f domain.Frequency) (int, error) {
	switch f {
	case domain.FrequencyMonthly:
		return 1, nil
	case domain.FrequencyQuarterly:
		return 3, nil
	case domain.FrequencyHalfYearly:
		return 6, nil
	case domain.FrequencyYearly:
		return 12, nil
	}
	return 0, domain.ErrUnknownFrequency
}

// PeriodsPerYear returns 12, 4, 2 or 1 for the supported frequencies
func PeriodsPerYear(f domain.Frequency) (int, error) {
	months, err := MonthsPerPeriod(f)
	if err != nil {
		return 0, err
	}
	return 12 / months, nil
}

// NumberOfPayments is ceil(tenureMonths / monthsPerPeriod)
func NumberOfPayments(tenureMonths int, f domain.Frequency) (int, error) {
	if tenureMonths <= 0 {
		return 0, domain.ErrInvalidTenure
	}
	months, err := MonthsPerPeriod(f)
	if err != nil {
		return 0, err
	}
	return (tenureMonths + months - 1) / months, nil
}

// PeriodRate converts an annual percentage rate to a per-period fraction
func PeriodRate(annualRate decimal.Decimal, f domain.Frequency) (decimal.Decimal, error) {
	if annualRate.IsNegative() {
		return decimal.Zero, domain.ErrInvalidRate
	}
	perYear, err := PeriodsPerYear(f)
	if err != nil {
		return decimal.Zero, err
	}
	return annualRate.Div(hundred).Div(decimal.NewFromInt(int64(perYear))), nil
}

// EMI returns the equated installment for principal p over n periods at period
// rate r, rounded half-up to 2 decimal places.
func EMI(p, r decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	if r.IsZero() {
		return p.Div(decimal.NewFromInt(int64(n))).Round(2)
	}
	factor := compound(r, n)
	return p.Mul(r).Mul(factor).Div(factor.Sub(one)).Round(2)
}

// compound returns (1+r)^n
func compound(r decimal.Decimal, n int) decimal.Decimal {
	base := one.Add(r)
	result := one
	for i := 0; i < n; i++ {
		result = result.Mul(base).Round(internalPrecision)
	}
	return result
}

// Generate builds the complete schedule for the terms, with the first
// installment due one period after start.
func Generate(t Terms, start time.Time) (*Schedule, error) {
	if !t.Principal.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	n, err := NumberOfPayments(t.TenureMonths, t.Frequency)
	if err != nil {
		return nil, err
	}
	r, err := PeriodRate(t.AnnualRate, t.Frequency)
	if err != nil {
		return nil, err
	}

	dueDates := make([]time.Time, n)
	for i := range dueDates {
		dueDates[i] = AddPeriods(start, t.Frequency, i+1)
	}
	return GenerateWithInstallment(t.Principal, r, EMI(t.Principal, r, n), dueDates)
}

// GenerateWithInstallment amortizes principal at period rate r with a fixed
// installment over the given due dates. The last installment absorbs residual
// rounding so principal components always sum to the principal. The schedule
// stops early if the principal is exhausted before the last date.
func GenerateWithInstallment(principal, r, emi decimal.Decimal, dueDates []time.Time) (*Schedule, error) {
	if !principal.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if len(dueDates) == 0 {
		return nil, domain.ErrInvalidTenure
	}

	s := &Schedule{
		EMI:          emi,
		PeriodRate:   r,
		Installments: make([]Installment, 0, len(dueDates)),
	}
	outstanding := principal
	for i, due := range dueDates {
		interest := outstanding.Mul(r).Round(2)
		if emi.LessThanOrEqual(interest) {
			return nil, domain.ErrNonAmortizing
		}

		amount := emi
		principalPart := emi.Sub(interest)
		if i == len(dueDates)-1 || principalPart.GreaterThan(outstanding) {
			principalPart = outstanding
			amount = principalPart.Add(interest)
		}
		outstanding = outstanding.Sub(principalPart)

		s.Installments = append(s.Installments, Installment{
			Sequence:         i + 1,
			DueDate:          due,
			EMI:              amount,
			Interest:         interest,
			Principal:        principalPart,
			OutstandingAfter: outstanding,
		})
		if outstanding.IsZero() {
			break
		}
	}
	return s, nil
}

// AddPeriods advances t by k repayment periods, clamping to the last day of
// the target month (Jan 31 + 1 month is Feb 28/29, not Mar 3).
func AddPeriods(t time.Time, f domain.Frequency, k int) time.Time {
	months, err := MonthsPerPeriod(f)
	if err != nil {
		months = 1
	}
	return addMonths(t, months*k)
}

func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
