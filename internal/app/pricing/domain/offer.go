package domain

import (
	"math/big"
	"time"
)

// Offer is a percentage discount on a product's making charge.
//
// The discounted charge is computed once, when the offer is created, and
// persisted. Later edits to the product's making charge do not move it.
type Offer struct {
	productID              string
	percent                int64 // 0-100
	discountedMakingCharge *Money
	createdAt              time.Time
	updatedAt              time.Time

	events []DomainEvent
}

// NewOffer validates the percentage and freezes the discounted making charge
// against the product's current charge.
func NewOffer(product *Product, percent int64, now time.Time) (*Offer, error) {
	if percent < 0 || percent > 100 {
		return nil, &InvalidDiscountError{Percent: percent}
	}

	// makingCharge * (1 - p/100)
	multiplier := big.NewRat(percent, 100)
	discounted := defaultPricingCalculator.ApplyDiscount(product.MakingCharge(), multiplier)

	o := &Offer{
		productID:              product.ID(),
		percent:                percent,
		discountedMakingCharge: discounted,
		createdAt:              now,
		updatedAt:              now,
	}
	o.events = append(o.events, &OfferUpsertedEvent{
		ProductID:              o.productID,
		DiscountPercent:        percent,
		OriginalMakingCharge:   product.MakingCharge().String(),
		DiscountedMakingCharge: discounted.String(),
		Timestamp:              now,
	})
	return o, nil
}

// ReconstructOffer reconstitutes an Offer from storage.
func ReconstructOffer(productID string, percent int64, discounted *Money, createdAt, updatedAt time.Time) *Offer {
	return &Offer{
		productID:              productID,
		percent:                percent,
		discountedMakingCharge: copyMoney(discounted),
		createdAt:              createdAt,
		updatedAt:              updatedAt,
	}
}

func (o *Offer) ProductID() string              { return o.productID }
func (o *Offer) Percent() int64                 { return o.percent }
func (o *Offer) DiscountedMakingCharge() *Money { return o.discountedMakingCharge.Copy() }
func (o *Offer) CreatedAt() time.Time           { return o.createdAt }
func (o *Offer) UpdatedAt() time.Time           { return o.updatedAt }
func (o *Offer) DomainEvents() []DomainEvent    { return o.events }

// Overrides replaces inputs to ComputePrice. A nil field means no override.
type Overrides struct {
	DiscountedMakingCharge *Money
}

// NoOverrides prices a product at its list making charge.
var NoOverrides = Overrides{}

// ApplyOffer returns the overrides for an offer. A nil offer yields no overrides.
func ApplyOffer(offer *Offer) Overrides {
	if offer == nil {
		return NoOverrides
	}
	return Overrides{DiscountedMakingCharge: offer.DiscountedMakingCharge()}
}
