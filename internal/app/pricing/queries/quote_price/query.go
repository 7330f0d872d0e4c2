package quote_price

import (
	"context"
	"errors"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
)

// Request identifies the product to price.
type Request struct {
	ProductID string
}

// Query prices one product against the current rates.
type Query struct {
	products contracts.ProductRepository
	offers   contracts.OfferRepository
	rates    contracts.RateReader
	calc     *domain.PricingCalculator
}

// NewQuery creates a new quote price query.
func NewQuery(products contracts.ProductRepository, offers contracts.OfferRepository, rates contracts.RateReader) *Query {
	return &Query{
		products: products,
		offers:   offers,
		rates:    rates,
		calc:     domain.NewPricingCalculator(),
	}
}

// Execute returns the product with its undiscounted and, if an offer exists, discounted price.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.PricedItemDTO, error) {
	product, err := q.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	offer, err := q.offers.GetByProductID(ctx, req.ProductID)
	if err != nil && !errors.Is(err, domain.ErrOfferNotFound) {
		return nil, err
	}

	rates := q.rates.Rates()
	item := domain.PricedProduct{
		Product: product,
		Price:   q.calc.ComputePrice(product, rates, domain.NoOverrides),
	}
	if offer != nil {
		discounted := q.calc.ComputePrice(product, rates, domain.ApplyOffer(offer))
		item.DiscountedPrice = &discounted
		item.Offer = offer
	}
	return contracts.NewPricedItemDTO(item), nil
}
