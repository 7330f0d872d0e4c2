package domain

import (
	"fmt"
	"math/big"
	"slices"
	"strings"
)

// Metal identifies which market rate prices a product.
type Metal string

const (
	MetalGold   Metal = "gold"
	MetalSilver Metal = "silver"
	// MetalOther covers diamonds, gemstones and anything priced from its stored rate.
	MetalOther Metal = "other"
)

// ParseMetal normalizes a metal tag. Unknown or empty tags map to MetalOther.
func ParseMetal(s string) Metal {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(MetalGold):
		return MetalGold
	case string(MetalSilver):
		return MetalSilver
	default:
		return MetalOther
	}
}

// HasMarketRate reports whether the metal is priced from the live rate registry.
func (m Metal) HasMarketRate() bool {
	return m == MetalGold || m == MetalSilver
}

// Karat tags for gold.
const (
	Karat14 = "14K"
	Karat18 = "18K"
	Karat22 = "22K"
	Karat24 = "24K"
)

// Purity tags for silver.
const (
	PuritySterling = "92.5% Sterling Silver"
	PurityFine     = "99.9% Fine Silver"
)

// Karats lists the gold karat tags in ascending purity.
var Karats = []string{Karat14, Karat18, Karat22, Karat24}

// Purities lists the silver purity tags.
var Purities = []string{PuritySterling, PurityFine}

// ValidateTags rejects karat or purity tags outside the known sets. Empty
// tags are allowed. Stored rows are not checked, so pricing still has to
// handle unknown tags.
func ValidateTags(karat, purity string) error {
	if karat != "" && !slices.Contains(Karats, karat) {
		return fmt.Errorf("%w: %q", ErrUnknownKarat, karat)
	}
	if purity != "" && !slices.Contains(Purities, purity) {
		return fmt.Errorf("%w: %q", ErrUnknownPurity, purity)
	}
	return nil
}

var karatFactors = map[string]*big.Rat{
	Karat14: big.NewRat(583, 1000),
	Karat18: big.NewRat(750, 1000),
	Karat22: big.NewRat(916, 1000),
	Karat24: big.NewRat(1, 1),
}

var purityFactors = map[string]*big.Rat{
	PuritySterling: big.NewRat(925, 1000),
	PurityFine:     big.NewRat(999, 1000),
}

// PurityFactor returns the fraction of pure metal for a product's tags.
//
// Gold reads the karat tag, silver reads the purity tag. A missing or
// unrecognized tag yields 1, so an untagged gold item prices as 24K.
// The second return value is false in that fallback case.
func PurityFactor(metal Metal, karat, purity string) (*big.Rat, bool) {
	var (
		f  *big.Rat
		ok bool
	)
	switch metal {
	case MetalGold:
		f, ok = karatFactors[karat]
	case MetalSilver:
		f, ok = purityFactors[purity]
	}
	if !ok {
		return big.NewRat(1, 1), false
	}
	return new(big.Rat).Set(f), true
}
