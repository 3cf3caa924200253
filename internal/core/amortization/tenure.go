package amortization

import (
	"math"

	"loanhub/internal/core/domain"

	"github.com/shopspring/decimal"
)

// driftPerPeriod is the rounding drift a cent-rounded EMI can accumulate per
// period. A residual within this bound is absorbed by the final installment
// instead of producing an extra one.
const driftPerPeriod = 0.01

// SolveTenure returns the number of installments of size emi needed to repay
// principal at period rate r:
//
//	n = ceil( ln(emi / (emi - principal*r)) / ln(1+r) )
//
// A zero principal needs no installments. An installment that does not exceed
// the first period's interest never amortizes and is rejected.
func SolveTenure(principal, r, emi decimal.Decimal) (int, error) {
	if !principal.IsPositive() {
		return 0, nil
	}
	if !emi.IsPositive() {
		return 0, domain.ErrNonAmortizing
	}

	var n int
	if r.IsZero() {
		n = int(principal.Div(emi).Ceil().IntPart())
	} else {
		denom := emi.Sub(principal.Mul(r))
		if !denom.IsPositive() {
			return 0, domain.ErrNonAmortizing
		}
		ratio := emi.Div(denom).InexactFloat64()
		n = int(math.Ceil(math.Log(ratio) / math.Log(1+r.InexactFloat64())))
	}
	if n < 1 {
		n = 1
	}

	if n > 1 && residualAfter(principal, r, emi, n-1) <= driftPerPeriod*float64(n) {
		n--
	}
	return n, nil
}

// residualAfter is the balance left after k installments of emi
func residualAfter(principal, r, emi decimal.Decimal, k int) float64 {
	p := principal.InexactFloat64()
	e := emi.InexactFloat64()
	if r.IsZero() {
		return p - e*float64(k)
	}
	rf := r.InexactFloat64()
	growth := math.Pow(1+rf, float64(k))
	return p*growth - e*(growth-1)/rf
}
