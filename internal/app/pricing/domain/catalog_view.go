package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SortKey selects the catalog ordering.
type SortKey string

const (
	SortBest      SortKey = "best"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortNewest    SortKey = "new"
)

// ParseSortKey accepts the storefront sort keys. Empty means SortBest.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortBest, nil
	case SortBest, SortPriceLow, SortPriceHigh, SortNewest:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, s)
	}
}

// PriceRange is an inclusive [Min, Max] bound on the undiscounted price.
// A nil Max is unbounded above; a nil Min is zero.
type PriceRange struct {
	Label string
	Min   *Money
	Max   *Money
}

// NewPriceRange validates the bounds.
func NewPriceRange(lo, hi *Money) (*PriceRange, error) {
	if lo != nil && lo.IsNegative() {
		return nil, ErrInvalidPriceRange
	}
	if lo != nil && hi != nil && lo.GreaterThan(hi) {
		return nil, ErrInvalidPriceRange
	}
	return &PriceRange{Min: copyMoneyOrNil(lo), Max: copyMoneyOrNil(hi)}, nil
}

// Contains reports whether an exact amount lies in the range.
func (r *PriceRange) Contains(amount *Money) bool {
	if r.Min != nil && amount.LessThan(r.Min) {
		return false
	}
	if r.Max != nil && amount.GreaterThan(r.Max) {
		return false
	}
	return true
}

// PriceRangePresets are the storefront's fixed price filters.
var PriceRangePresets = []PriceRange{
	{Label: "Under ₹25,000", Min: NewMoneyFromInt(0), Max: NewMoneyFromInt(25000)},
	{Label: "₹25,000 - ₹50,000", Min: NewMoneyFromInt(25000), Max: NewMoneyFromInt(50000)},
	{Label: "₹50,000 - ₹1,00,000", Min: NewMoneyFromInt(50000), Max: NewMoneyFromInt(100000)},
	{Label: "Above ₹1,00,000", Min: NewMoneyFromInt(100000)},
}

// PresetByLabel finds a preset range by its label.
func PresetByLabel(label string) (*PriceRange, bool) {
	for i := range PriceRangePresets {
		if PriceRangePresets[i].Label == label {
			r := PriceRangePresets[i]
			return &r, true
		}
	}
	return nil, false
}

// CatalogFilter narrows the catalog. Empty fields do not filter.
// All set fields must match.
type CatalogFilter struct {
	Category   string
	Type       string
	Karat      string
	Purity     string
	PriceRange *PriceRange
	// Query is a case-insensitive substring matched against name,
	// description, category and type. Any one of them may match.
	Query string
	// CreatedAfter keeps products created at or after this instant.
	CreatedAfter time.Time
}

// NewArrivalsWindow is how far back the storefront's new arrivals reach.
const NewArrivalsWindow = 48 * time.Hour

// PricedProduct is a product paired with its computed prices.
type PricedProduct struct {
	Product *Product
	Price   Price
	// DiscountedPrice is set only when the product has an offer.
	DiscountedPrice *Price
	Offer           *Offer
}

// CatalogView derives a filtered, sorted and priced listing.
type CatalogView struct {
	calc *PricingCalculator
}

// NewCatalogView creates a CatalogView.
func NewCatalogView(calc *PricingCalculator) *CatalogView {
	if calc == nil {
		calc = defaultPricingCalculator
	}
	return &CatalogView{calc: calc}
}

// DeriveView prices, filters and sorts products. The input slice is not modified.
// offers is keyed by product id and may be nil.
func (v *CatalogView) DeriveView(products []*Product, offers map[string]*Offer, filter CatalogFilter, sortKey SortKey, rates RateSnapshot) []PricedProduct {
	out := make([]PricedProduct, 0, len(products))
	for _, p := range products {
		if !matchesAttributes(p, filter) {
			continue
		}

		price := v.calc.ComputePrice(p, rates, NoOverrides)
		if filter.PriceRange != nil {
			if !price.Available() || !filter.PriceRange.Contains(price.Amount()) {
				continue
			}
		}

		item := PricedProduct{Product: p, Price: price}
		if offer, ok := offers[p.ID()]; ok && offer != nil {
			discounted := v.calc.ComputePrice(p, rates, ApplyOffer(offer))
			item.DiscountedPrice = &discounted
			item.Offer = offer
		}
		out = append(out, item)
	}

	sortPriced(out, sortKey)
	return out
}

func matchesAttributes(p *Product, f CatalogFilter) bool {
	if f.Category != "" && p.Category() != f.Category {
		return false
	}
	if f.Type != "" && p.Type() != f.Type {
		return false
	}
	if f.Karat != "" && p.Karat() != f.Karat {
		return false
	}
	if f.Purity != "" && p.Purity() != f.Purity {
		return false
	}
	if !f.CreatedAfter.IsZero() && p.CreatedAt().Before(f.CreatedAfter) {
		return false
	}
	return matchesQuery(p, f.Query)
}

func matchesQuery(p *Product, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, s := range []string{p.Name(), p.Description(), p.Category(), p.Type()} {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// sortPriced orders items in place. Ties keep their input order and
// unavailable prices go last in both price directions.
func sortPriced(items []PricedProduct, key SortKey) {
	switch key {
	case SortPriceLow, SortPriceHigh:
		desc := key == SortPriceHigh
		sort.SliceStable(items, func(i, j int) bool {
			a, b := items[i].Price, items[j].Price
			if a.Available() != b.Available() {
				return a.Available()
			}
			if !a.Available() {
				return false
			}
			if desc {
				return a.Cmp(b) > 0
			}
			return a.Cmp(b) < 0
		})
	case SortNewest:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Product.CreatedAt().After(items[j].Product.CreatedAt())
		})
	}
}
