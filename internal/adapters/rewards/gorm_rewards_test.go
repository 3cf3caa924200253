package rewards

import (
	"context"
	"testing"

	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/core/domain"
	"loanhub/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormRewards_Tier(t *testing.T) {
	ctx := context.Background()
	r := NewGormRewards(testutil.NewDB(t))

	tier, err := r.TierOf(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.TierSilver, tier)

	require.NoError(t, r.SetTier(ctx, 3, domain.TierGold))
	require.NoError(t, r.SetTier(ctx, 3, domain.TierDiamond))

	tier, err = r.TierOf(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.TierDiamond, tier)
	assert.True(t, tier.WaivesCharges())
}

func TestGormRewards_Journal(t *testing.T) {
	ctx := context.Background()
	r := NewGormRewards(testutil.NewDB(t))

	require.NoError(t, r.AwardPoints(ctx, 3, 500, domain.RewardLoanClosure, "Loan LN-1 closed"))
	require.NoError(t, r.AwardCashback(ctx, 3, decimal.NewFromInt(40), decimal.NewFromInt(2), "Prepayment cashback"))

	entries, err := r.ListByCustomer(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, models.RewardKindCashback, entries[0].Kind)
	assert.Equal(t, domain.RewardPrepayment, entries[0].Category)
	assert.True(t, decimal.NewFromInt(40).Equal(entries[0].Amount))

	assert.Equal(t, models.RewardKindPoints, entries[1].Kind)
	assert.Equal(t, 500, entries[1].Points)
}
