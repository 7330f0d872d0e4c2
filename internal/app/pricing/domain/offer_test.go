package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOffer(t *testing.T) {
	p := goldProduct(t, "p1", Karat22, 10, 4000)

	t.Run("discounted charge never exceeds making charge", func(t *testing.T) {
		for pct := int64(0); pct <= 100; pct++ {
			o, err := NewOffer(p, pct, testNow)
			require.NoError(t, err)
			assert.False(t, o.DiscountedMakingCharge().GreaterThan(p.MakingCharge()), "percent %d", pct)
			assert.False(t, o.DiscountedMakingCharge().IsNegative())
		}
	})

	t.Run("bounds", func(t *testing.T) {
		o, err := NewOffer(p, 0, testNow)
		require.NoError(t, err)
		assert.True(t, o.DiscountedMakingCharge().Equals(NewMoneyFromInt(4000)))

		o, err = NewOffer(p, 100, testNow)
		require.NoError(t, err)
		assert.True(t, o.DiscountedMakingCharge().IsZero())
	})

	t.Run("out of range is rejected", func(t *testing.T) {
		for _, pct := range []int64{-1, 101, 1000} {
			o, err := NewOffer(p, pct, testNow)
			assert.Nil(t, o)
			assert.ErrorIs(t, err, ErrInvalidDiscountPercent)

			var ide *InvalidDiscountError
			require.True(t, errors.As(err, &ide))
			assert.Equal(t, pct, ide.Percent)
		}
	})

	t.Run("records upsert event", func(t *testing.T) {
		o, err := NewOffer(p, 25, testNow)
		require.NoError(t, err)
		require.Len(t, o.DomainEvents(), 1)
		ev, ok := o.DomainEvents()[0].(*OfferUpsertedEvent)
		require.True(t, ok)
		assert.Equal(t, "3000.00", ev.DiscountedMakingCharge)
		assert.Equal(t, "p1", ev.AggregateID())
	})
}

func TestOffer_FrozenBasis(t *testing.T) {
	p := goldProduct(t, "p1", Karat22, 10, 4000)
	o, err := NewOffer(p, 25, testNow)
	require.NoError(t, err)

	require.NoError(t, p.SetMakingCharge(NewMoneyFromInt(8000)))

	assert.True(t, o.DiscountedMakingCharge().Equals(NewMoneyFromInt(3000)))
	price := NewPricingCalculator().ComputePrice(p, rates(6000, 80), ApplyOffer(o))
	assert.True(t, price.Amount().Equals(NewMoneyFromInt(57960)))
}

func TestApplyOffer_Nil(t *testing.T) {
	assert.Nil(t, ApplyOffer(nil).DiscountedMakingCharge)
}
