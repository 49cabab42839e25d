package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierFor(t *testing.T) {
	ten := 10
	l := Listing{Tiers: []PricingTier{
		{MinUnits: 1, MaxUnits: &ten, UnitPrice: decimal.NewFromInt(25)},
		{MinUnits: 11, UnitPrice: decimal.NewFromInt(20)},
	}}

	t.Run("lower bound", func(t *testing.T) {
		tier, ok := l.TierFor(1)
		require.True(t, ok)
		assert.Equal(t, 1, tier.MinUnits)
	})

	t.Run("upper bound inclusive", func(t *testing.T) {
		tier, ok := l.TierFor(10)
		require.True(t, ok)
		assert.Equal(t, 1, tier.MinUnits)
	})

	t.Run("open-ended tier", func(t *testing.T) {
		tier, ok := l.TierFor(11)
		require.True(t, ok)
		assert.Equal(t, 11, tier.MinUnits)
		tier, ok = l.TierFor(5000)
		require.True(t, ok)
		assert.Equal(t, 11, tier.MinUnits)
	})

	t.Run("below all tiers", func(t *testing.T) {
		_, ok := l.TierFor(0)
		assert.False(t, ok)
	})

	t.Run("no tiers", func(t *testing.T) {
		_, ok := Listing{}.TierFor(3)
		assert.False(t, ok)
	})
}
