package domain

import "math/big"

// Price is the result of pricing a product against a rate snapshot.
// An unavailable price has a zero amount and must not be shown as a number.
type Price struct {
	amount    *Money
	available bool
}

// RateUnavailable is returned when the product's base rate is unset or zero.
var RateUnavailable = Price{amount: ZeroMoney(), available: false}

// AvailablePrice wraps a computed amount.
func AvailablePrice(amount *Money) Price {
	return Price{amount: amount.Copy(), available: true}
}

// Amount returns the exact amount. Zero when the price is unavailable.
func (p Price) Amount() *Money {
	if p.amount == nil {
		return ZeroMoney()
	}
	return p.amount.Copy()
}

// Available reports whether a base rate was found for the product.
func (p Price) Available() bool { return p.available }

// Rounded returns the amount rounded to whole currency units, for display.
func (p Price) Rounded() int64 {
	return p.Amount().Round()
}

// Cmp orders prices by exact amount. Both must be available.
func (p Price) Cmp(other Price) int {
	return p.Amount().Cmp(other.Amount())
}

// PricingCalculator is a domain service for price and discount calculations.
// It holds no state; identical inputs always give identical outputs.
type PricingCalculator struct{}

// NewPricingCalculator creates a new PricingCalculator instance.
func NewPricingCalculator() *PricingCalculator {
	return &PricingCalculator{}
}

// Package-level calculator instance for domain object use
var defaultPricingCalculator = NewPricingCalculator()

// BaseRate picks the per-gram rate for a product: the market rate for gold
// and silver, the stored rate for anything else. Returns nil when none applies.
func (pc *PricingCalculator) BaseRate(p *Product, rates RateSnapshot) *Money {
	if p.Metal().HasMarketRate() {
		return rates.RateFor(p.Metal())
	}
	return p.StoredRate()
}

// ComputePrice returns weight * baseRate * purityFactor + makingCharge.
// Formula: price = weight * rate * factor + (override charge or list charge)
func (pc *PricingCalculator) ComputePrice(p *Product, rates RateSnapshot, overrides Overrides) Price {
	rate := pc.BaseRate(p, rates)
	if rate == nil || rate.IsZero() {
		return RateUnavailable
	}

	factor, _ := PurityFactor(p.Metal(), p.Karat(), p.Purity())
	perGram := new(big.Rat).Mul(p.WeightGrams(), factor)
	metalValue := rate.MultiplyByRat(perGram)

	making := p.MakingCharge()
	if overrides.DiscountedMakingCharge != nil {
		making = overrides.DiscountedMakingCharge.Copy()
	}

	total := metalValue.Add(making)
	if total.IsNegative() {
		return AvailablePrice(ZeroMoney())
	}
	return AvailablePrice(total)
}

// CalculateDiscountAmount calculates the discount amount (not the final price).
// Formula: discountAmount = price * discountMultiplier
func (pc *PricingCalculator) CalculateDiscountAmount(price *Money, discountMultiplier *big.Rat) *Money {
	return price.MultiplyByRat(discountMultiplier)
}

// ApplyDiscount applies a discount to a price and returns the final price.
// Formula: finalPrice = price - (price * discountMultiplier)
func (pc *PricingCalculator) ApplyDiscount(price *Money, discountMultiplier *big.Rat) *Money {
	discountAmount := pc.CalculateDiscountAmount(price, discountMultiplier)
	return price.Subtract(discountAmount)
}
