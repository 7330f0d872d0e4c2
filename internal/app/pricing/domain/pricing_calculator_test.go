package domain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingCalculator_ComputePrice(t *testing.T) {
	pc := NewPricingCalculator()

	t.Run("22K gold worked example", func(t *testing.T) {
		p := goldProduct(t, "p1", Karat22, 10, 4000)

		price := pc.ComputePrice(p, rates(6000, 80), NoOverrides)

		require.True(t, price.Available())
		assert.True(t, price.Amount().Equals(NewMoneyFromInt(58960)), "got %s", price.Amount())
		assert.Equal(t, int64(58960), price.Rounded())
	})

	t.Run("offer worked example", func(t *testing.T) {
		p := goldProduct(t, "p1", Karat22, 10, 4000)
		offer, err := NewOffer(p, 25, testNow)
		require.NoError(t, err)
		assert.True(t, offer.DiscountedMakingCharge().Equals(NewMoneyFromInt(3000)))

		price := pc.ComputePrice(p, rates(6000, 80), ApplyOffer(offer))

		assert.True(t, price.Amount().Equals(NewMoneyFromInt(57960)), "got %s", price.Amount())
	})

	t.Run("karat factors with unit rate", func(t *testing.T) {
		want := map[string]*big.Rat{
			Karat14: big.NewRat(583, 1000),
			Karat18: big.NewRat(750, 1000),
			Karat22: big.NewRat(916, 1000),
			Karat24: big.NewRat(1, 1),
		}
		for _, k := range Karats {
			p := goldProduct(t, "p-"+k, k, 1, 0)
			price := pc.ComputePrice(p, rates(1, 1), NoOverrides)
			assert.Equal(t, 0, price.Amount().Rat().Cmp(want[k]), "karat %s", k)
		}
	})

	t.Run("silver applies purity", func(t *testing.T) {
		p, err := NewProduct("s1", ProductAttributes{
			Name:         "Anklet",
			Category:     "Silver",
			Metal:        MetalSilver,
			Purity:       PuritySterling,
			WeightGrams:  big.NewRat(20, 1),
			MakingCharge: NewMoneyFromInt(500),
		}, testNow)
		require.NoError(t, err)

		price := pc.ComputePrice(p, rates(6000, 80), NoOverrides)

		// 20 * 80 * 0.925 + 500
		assert.True(t, price.Amount().Equals(NewMoneyFromInt(1980)), "got %s", price.Amount())
	})

	t.Run("unset rates give the unavailable sentinel", func(t *testing.T) {
		p := goldProduct(t, "p1", Karat22, 10, 4000)

		price := pc.ComputePrice(p, EmptyRates(), NoOverrides)

		assert.False(t, price.Available())
		assert.True(t, price.Amount().IsZero())
	})

	t.Run("zero rate is unavailable, not a zero price", func(t *testing.T) {
		p := goldProduct(t, "p1", Karat22, 10, 4000)

		price := pc.ComputePrice(p, rates(0, 80), NoOverrides)

		assert.False(t, price.Available())
	})

	t.Run("zero weight still adds making charge", func(t *testing.T) {
		p := goldProduct(t, "p1", Karat22, 0, 4000)

		price := pc.ComputePrice(p, rates(6000, 80), NoOverrides)

		require.True(t, price.Available())
		assert.True(t, price.Amount().Equals(NewMoneyFromInt(4000)))
	})

	t.Run("other materials use the stored rate", func(t *testing.T) {
		p, err := NewProduct("d1", ProductAttributes{
			Name:         "Solitaire",
			Category:     "Diamond",
			Metal:        MetalOther,
			WeightGrams:  big.NewRat(1, 2),
			MakingCharge: NewMoneyFromInt(2000),
			StoredRate:   NewMoneyFromInt(75000),
		}, testNow)
		require.NoError(t, err)

		price := pc.ComputePrice(p, EmptyRates(), NoOverrides)

		assert.True(t, price.Amount().Equals(NewMoneyFromInt(39500)))
	})

	t.Run("gold never prices from its stored rate", func(t *testing.T) {
		p, err := NewProduct("g1", ProductAttributes{
			Name:         "Chain",
			Category:     "Gold",
			Metal:        MetalGold,
			Karat:        Karat24,
			WeightGrams:  big.NewRat(1, 1),
			MakingCharge: ZeroMoney(),
			StoredRate:   NewMoneyFromInt(5000),
		}, testNow)
		require.NoError(t, err)

		assert.True(t, pc.ComputePrice(p, rates(6000, 80), NoOverrides).Amount().Equals(NewMoneyFromInt(6000)))
		assert.False(t, pc.ComputePrice(p, EmptyRates(), NoOverrides).Available())
	})

	t.Run("pure", func(t *testing.T) {
		p := goldProduct(t, "p1", Karat18, 7, 1234)
		r := rates(6123, 80)

		a := pc.ComputePrice(p, r, NoOverrides)
		b := pc.ComputePrice(p, r, NoOverrides)

		assert.Equal(t, 0, a.Cmp(b))
	})
}

func TestPricingCalculator_ApplyDiscount(t *testing.T) {
	pc := NewPricingCalculator()

	t.Run("applies discount correctly", func(t *testing.T) {
		price := NewMoneyFromInt(4000)

		final := pc.ApplyDiscount(price, big.NewRat(25, 100))

		assert.True(t, final.Equals(NewMoneyFromInt(3000)))
	})

	t.Run("100% discount returns zero", func(t *testing.T) {
		final := pc.ApplyDiscount(NewMoneyFromInt(4000), big.NewRat(1, 1))
		assert.True(t, final.IsZero())
	})
}
