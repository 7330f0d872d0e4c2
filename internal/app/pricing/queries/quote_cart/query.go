package quote_cart

import (
	"context"
	"fmt"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
)

// Line is one product and how many of it the cart holds.
type Line struct {
	ProductID string
	Quantity  int64
}

// Request lists the cart lines in display order.
type Request struct {
	Lines []Line
}

// Query prices a cart against the current rates.
type Query struct {
	products contracts.ProductRepository
	offers   contracts.OfferRepository
	rates    contracts.RateReader
	calc     *domain.PricingCalculator
}

// NewQuery creates a new quote cart query.
func NewQuery(products contracts.ProductRepository, offers contracts.OfferRepository, rates contracts.RateReader) *Query {
	return &Query{
		products: products,
		offers:   offers,
		rates:    rates,
		calc:     domain.NewPricingCalculator(),
	}
}

// Execute loads every line's product and offer, then prices the whole cart
// against one rate snapshot.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.CartQuoteDTO, error) {
	ids := make([]string, len(req.Lines))
	lines := make([]domain.CartLine, len(req.Lines))
	for i, l := range req.Lines {
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line %d has quantity %d", domain.ErrInvalidQuantity, i, l.Quantity)
		}
		product, err := q.products.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		ids[i] = l.ProductID
		lines[i] = domain.CartLine{Product: product, Quantity: l.Quantity}
	}

	offers, err := q.offers.ListByProductIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load offers: %w", err)
	}
	for i := range lines {
		lines[i].Offer = offers[lines[i].Product.ID()]
	}

	quote, err := q.calc.QuoteCart(lines, q.rates.Rates())
	if err != nil {
		return nil, err
	}
	return contracts.NewCartQuoteDTO(quote), nil
}
