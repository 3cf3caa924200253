package amortization

import (
	"testing"

	"loanhub/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveTenure(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		emi       string
		want      int
	}{
		{"full original principal", "120000", "0.01", "10661.85", 12},
		{"half principal", "60000", "0.01", "10661.85", 6},
		{"quarterly", "100000", "0.02", "13650.98", 8},
		{"zero rate absorbs final cent", "1000", "0", "333.33", 3},
		{"zero rate exact", "999.99", "0", "333.33", 3},
		{"single installment", "500", "0.01", "10661.85", 1},
		{"nothing left", "0", "0.01", "10661.85", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SolveTenure(dec(tt.principal), dec(tt.rate), dec(tt.emi))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSolveTenure_NonAmortizing(t *testing.T) {
	_, err := SolveTenure(dec("100000"), dec("0.02"), dec("2000"))
	assert.ErrorIs(t, err, domain.ErrNonAmortizing)

	_, err = SolveTenure(dec("100000"), dec("0.02"), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrNonAmortizing)
}

func TestSolveTenure_MatchesGeneratedSchedule(t *testing.T) {
	r := dec("0.0075")
	emi := EMI(dec("500000"), r, 60)
	assert.Equal(t, "10379.18", emi.StringFixed(2))

	n, err := SolveTenure(dec("500000"), r, emi)
	require.NoError(t, err)
	assert.Equal(t, 60, n)
}
