package domain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMetal(t *testing.T) {
	assert.Equal(t, MetalGold, ParseMetal("Gold"))
	assert.Equal(t, MetalSilver, ParseMetal(" silver "))
	assert.Equal(t, MetalOther, ParseMetal("diamond"))
	assert.Equal(t, MetalOther, ParseMetal(""))
	assert.True(t, MetalGold.HasMarketRate())
	assert.False(t, MetalOther.HasMarketRate())
}

func TestPurityFactor(t *testing.T) {
	tests := []struct {
		name   string
		metal  Metal
		karat  string
		purity string
		want   *big.Rat
		known  bool
	}{
		{"14K", MetalGold, Karat14, "", big.NewRat(583, 1000), true},
		{"18K", MetalGold, Karat18, "", big.NewRat(3, 4), true},
		{"22K", MetalGold, Karat22, "", big.NewRat(916, 1000), true},
		{"24K", MetalGold, Karat24, "", big.NewRat(1, 1), true},
		{"sterling", MetalSilver, "", PuritySterling, big.NewRat(925, 1000), true},
		{"fine", MetalSilver, "", PurityFine, big.NewRat(999, 1000), true},
		// Untagged gold prices as pure. Kept for compatibility; change deliberately.
		{"gold without karat falls back to 1", MetalGold, "", "", big.NewRat(1, 1), false},
		{"unknown karat falls back to 1", MetalGold, "21K", "", big.NewRat(1, 1), false},
		{"silver ignores karat tag", MetalSilver, Karat22, "", big.NewRat(1, 1), false},
		{"other metal is 1", MetalOther, Karat22, PurityFine, big.NewRat(1, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, known := PurityFactor(tt.metal, tt.karat, tt.purity)
			assert.Equal(t, 0, got.Cmp(tt.want), "got %s", got.RatString())
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestValidateTags(t *testing.T) {
	for _, k := range Karats {
		assert.NoError(t, ValidateTags(k, ""), k)
	}
	for _, p := range Purities {
		assert.NoError(t, ValidateTags("", p), p)
	}
	assert.NoError(t, ValidateTags("", ""))
	assert.ErrorIs(t, ValidateTags("22k", ""), ErrUnknownKarat)
	assert.ErrorIs(t, ValidateTags("", "925"), ErrUnknownPurity)
}

// Rows stored before validation existed still price with the fallback factor.
func TestReconstructedUnknownKaratStillPrices(t *testing.T) {
	p := ReconstructProduct("legacy", ProductAttributes{
		Name:         "Old Bangle",
		Category:     "Gold",
		Metal:        MetalGold,
		Karat:        "20K",
		WeightGrams:  big.NewRat(1, 1),
		MakingCharge: ZeroMoney(),
	}, 1, testNow, testNow)

	price := NewPricingCalculator().ComputePrice(p, rates(6000, 80), NoOverrides)

	assert.True(t, price.Amount().Equals(NewMoneyFromInt(6000)), "got %s", price.Amount())
}
