package browse_catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/clock"
)

// Request contains catalog filters. Empty fields do not filter.
type Request struct {
	Category string
	Type     string
	Karat    string
	Purity   string

	// Query searches name, description, category and type.
	Query string
	// CreatedAfter keeps products created at or after this instant.
	// NewArrivals is shorthand for the last two days and wins when both are set.
	CreatedAfter *time.Time
	NewArrivals  bool

	// PriceRange selects a preset by label. MinPrice/MaxPrice give a custom
	// inclusive range and take precedence over the preset.
	PriceRange string
	MinPrice   *string
	MaxPrice   *string

	Sort  string
	Limit int
}

// Response is the priced listing with the rates it was computed from.
type Response struct {
	Items []*contracts.PricedItemDTO
	Rates *contracts.RatesDTO
	Total int
}

// Query derives the storefront listing.
type Query struct {
	products contracts.ProductRepository
	offers   contracts.OfferRepository
	rates    contracts.RateReader
	view     *domain.CatalogView
	clock    clock.Clock
}

// NewQuery creates a new browse catalog query.
func NewQuery(products contracts.ProductRepository, offers contracts.OfferRepository, rates contracts.RateReader, clk clock.Clock) *Query {
	return &Query{
		products: products,
		offers:   offers,
		rates:    rates,
		view:     domain.NewCatalogView(domain.NewPricingCalculator()),
		clock:    clk,
	}
}

// Execute loads candidates with attribute filters pushed to storage, then
// prices, filters and sorts in memory against one rate snapshot.
func (q *Query) Execute(ctx context.Context, req *Request) (*Response, error) {
	sortKey, err := domain.ParseSortKey(req.Sort)
	if err != nil {
		return nil, err
	}
	priceRange, err := resolvePriceRange(req)
	if err != nil {
		return nil, err
	}

	var since time.Time
	switch {
	case req.NewArrivals:
		since = q.clock.Now().Add(-domain.NewArrivalsWindow)
	case req.CreatedAfter != nil:
		since = *req.CreatedAfter
	}

	products, err := q.products.List(ctx, &contracts.ProductQuery{
		Category:     req.Category,
		Type:         req.Type,
		Karat:        req.Karat,
		Purity:       req.Purity,
		CreatedAfter: since,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID()
	}
	offers, err := q.offers.ListByProductIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load offers: %w", err)
	}

	// One snapshot for the whole listing so every row uses the same rates.
	rates := q.rates.Rates()
	filter := domain.CatalogFilter{
		Category:     req.Category,
		Type:         req.Type,
		Karat:        req.Karat,
		Purity:       req.Purity,
		PriceRange:   priceRange,
		Query:        req.Query,
		CreatedAfter: since,
	}
	view := q.view.DeriveView(products, offers, filter, sortKey, rates)

	resp := &Response{
		Rates: contracts.NewRatesDTO(rates),
		Total: len(view),
	}
	if req.Limit > 0 && len(view) > req.Limit {
		view = view[:req.Limit]
	}
	resp.Items = make([]*contracts.PricedItemDTO, len(view))
	for i, item := range view {
		resp.Items[i] = contracts.NewPricedItemDTO(item)
	}
	return resp, nil
}

func resolvePriceRange(req *Request) (*domain.PriceRange, error) {
	if req.MinPrice != nil || req.MaxPrice != nil {
		var lo, hi *domain.Money
		var err error
		if req.MinPrice != nil {
			if lo, err = domain.ParseMoney(*req.MinPrice); err != nil {
				return nil, fmt.Errorf("min price: %w", err)
			}
		}
		if req.MaxPrice != nil {
			if hi, err = domain.ParseMoney(*req.MaxPrice); err != nil {
				return nil, fmt.Errorf("max price: %w", err)
			}
		}
		return domain.NewPriceRange(lo, hi)
	}
	if req.PriceRange == "" {
		return nil, nil
	}
	r, ok := domain.PresetByLabel(req.PriceRange)
	if !ok {
		return nil, fmt.Errorf("%w: unknown preset %q", domain.ErrInvalidPriceRange, req.PriceRange)
	}
	return r, nil
}
