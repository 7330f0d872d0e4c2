package domain

import "time"

// RateSnapshot is an immutable pair of per-gram market rates.
// A nil rate means the rate has not been loaded yet.
type RateSnapshot struct {
	gold      *Money
	silver    *Money
	fetchedAt time.Time
}

// NewRateSnapshot builds a snapshot. Either rate may be nil.
func NewRateSnapshot(gold, silver *Money, fetchedAt time.Time) RateSnapshot {
	return RateSnapshot{
		gold:      copyMoneyOrNil(gold),
		silver:    copyMoneyOrNil(silver),
		fetchedAt: fetchedAt,
	}
}

// EmptyRates is the snapshot served before the first successful load.
func EmptyRates() RateSnapshot {
	return RateSnapshot{}
}

func (r RateSnapshot) Gold() *Money         { return copyMoneyOrNil(r.gold) }
func (r RateSnapshot) Silver() *Money       { return copyMoneyOrNil(r.silver) }
func (r RateSnapshot) FetchedAt() time.Time { return r.fetchedAt }

// IsLoaded reports whether at least one rate is set.
func (r RateSnapshot) IsLoaded() bool {
	return r.gold != nil || r.silver != nil
}

// RateFor returns the market rate for a metal, or nil when the metal
// has no market rate or the rate is unset.
func (r RateSnapshot) RateFor(metal Metal) *Money {
	switch metal {
	case MetalGold:
		return r.Gold()
	case MetalSilver:
		return r.Silver()
	default:
		return nil
	}
}

// WithRate returns a copy of the snapshot with one metal's rate replaced.
func (r RateSnapshot) WithRate(metal Metal, rate *Money, at time.Time) (RateSnapshot, error) {
	if rate != nil && rate.IsNegative() {
		return r, ErrInvalidRate
	}
	next := RateSnapshot{gold: r.gold, silver: r.silver, fetchedAt: at}
	switch metal {
	case MetalGold:
		next.gold = copyMoneyOrNil(rate)
	case MetalSilver:
		next.silver = copyMoneyOrNil(rate)
	default:
		return r, ErrUnsupportedMetal
	}
	return next, nil
}

// Equal compares rate values, ignoring fetch time.
func (r RateSnapshot) Equal(other RateSnapshot) bool {
	return moneyPtrEqual(r.gold, other.gold) && moneyPtrEqual(r.silver, other.silver)
}

func moneyPtrEqual(a, b *Money) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}
