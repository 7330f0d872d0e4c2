package contracts

import (
	"time"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
)

// RatesDTO is the wire form of a rate snapshot. Unset rates are nil.
type RatesDTO struct {
	Gold      *string
	Silver    *string
	FetchedAt time.Time
}

// NewRatesDTO converts a snapshot for transport.
func NewRatesDTO(r domain.RateSnapshot) *RatesDTO {
	return &RatesDTO{
		Gold:      moneyPtr(r.Gold()),
		Silver:    moneyPtr(r.Silver()),
		FetchedAt: r.FetchedAt(),
	}
}

// PriceDTO is a computed price. Amount and Rounded are meaningful only when Available.
type PriceDTO struct {
	Available bool
	Amount    string // exact, two decimal places
	Rounded   int64
}

// NewPriceDTO converts a domain price for transport.
func NewPriceDTO(p domain.Price) *PriceDTO {
	if !p.Available() {
		return &PriceDTO{}
	}
	return &PriceDTO{
		Available: true,
		Amount:    p.Amount().String(),
		Rounded:   p.Rounded(),
	}
}

// PricedItemDTO is a catalog entry with its prices.
type PricedItemDTO struct {
	ProductID       string
	Name            string
	Description     string
	Category        string
	Type            string
	Metal           string
	Karat           string
	Purity          string
	WeightGrams     string
	MakingCharge    string
	StoredRate      *string
	Price           *PriceDTO
	DiscountPercent *int64
	DiscountedPrice *PriceDTO
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewPricedItemDTO converts a priced product for transport.
func NewPricedItemDTO(pp domain.PricedProduct) *PricedItemDTO {
	p := pp.Product
	dto := &PricedItemDTO{
		ProductID:    p.ID(),
		Name:         p.Name(),
		Description:  p.Description(),
		Category:     p.Category(),
		Type:         p.Type(),
		Metal:        string(p.Metal()),
		Karat:        p.Karat(),
		Purity:       p.Purity(),
		WeightGrams:  p.WeightGrams().FloatString(3),
		MakingCharge: p.MakingCharge().String(),
		StoredRate:   moneyPtr(p.StoredRate()),
		Price:        NewPriceDTO(pp.Price),
		CreatedAt:    p.CreatedAt(),
		UpdatedAt:    p.UpdatedAt(),
	}
	if pp.Offer != nil {
		pct := pp.Offer.Percent()
		dto.DiscountPercent = &pct
	}
	if pp.DiscountedPrice != nil {
		dto.DiscountedPrice = NewPriceDTO(*pp.DiscountedPrice)
	}
	return dto
}

func moneyPtr(m *domain.Money) *string {
	if m == nil {
		return nil
	}
	s := m.String()
	return &s
}

// Fields renders the rates as a wire map. Unset rates are omitted and
// rates_loaded reports whether any rate is known.
func (d *RatesDTO) Fields() map[string]any {
	out := map[string]any{
		"rates_loaded": d.Gold != nil || d.Silver != nil,
	}
	if d.Gold != nil {
		out["gold"] = *d.Gold
	}
	if d.Silver != nil {
		out["silver"] = *d.Silver
	}
	if !d.FetchedAt.IsZero() {
		out["fetched_at"] = d.FetchedAt.Format(time.RFC3339)
	}
	return out
}

// Fields renders the item as a wire map. An unavailable price carries
// only "price_available": false, never a number.
func (d *PricedItemDTO) Fields() map[string]any {
	out := map[string]any{
		"product_id":    d.ProductID,
		"name":          d.Name,
		"category":      d.Category,
		"type":          d.Type,
		"metal":         d.Metal,
		"weight_grams":  d.WeightGrams,
		"making_charge": d.MakingCharge,
		"created_at":    d.CreatedAt.Format(time.RFC3339),
		"updated_at":    d.UpdatedAt.Format(time.RFC3339),
	}
	if d.Description != "" {
		out["description"] = d.Description
	}
	if d.Karat != "" {
		out["karat"] = d.Karat
	}
	if d.Purity != "" {
		out["purity"] = d.Purity
	}
	if d.StoredRate != nil {
		out["stored_rate"] = *d.StoredRate
	}
	d.Price.put(out, "price")
	if d.DiscountPercent != nil {
		out["discount_percent"] = float64(*d.DiscountPercent)
	}
	if d.DiscountedPrice != nil {
		d.DiscountedPrice.put(out, "discounted_price")
	}
	return out
}

func (p *PriceDTO) put(out map[string]any, prefix string) {
	out[prefix+"_available"] = p.Available
	if !p.Available {
		return
	}
	out[prefix] = p.Amount
	out[prefix+"_rounded"] = float64(p.Rounded)
}

// CartLineDTO is a priced cart line.
type CartLineDTO struct {
	ProductID       string
	Name            string
	Quantity        int64
	DiscountPercent *int64
	UnitPrice       *PriceDTO
	LineTotal       *PriceDTO
}

// CartQuoteDTO is a priced cart.
type CartQuoteDTO struct {
	Lines    []*CartLineDTO
	Subtotal *PriceDTO
	GST      *PriceDTO
	Total    *PriceDTO
}

// NewCartQuoteDTO converts a cart quote for transport.
func NewCartQuoteDTO(q domain.CartQuote) *CartQuoteDTO {
	dto := &CartQuoteDTO{
		Lines:    make([]*CartLineDTO, len(q.Lines)),
		Subtotal: NewPriceDTO(q.Subtotal),
		GST:      NewPriceDTO(q.GST),
		Total:    NewPriceDTO(q.Total),
	}
	for i, l := range q.Lines {
		line := &CartLineDTO{
			ProductID: l.Product.ID(),
			Name:      l.Product.Name(),
			Quantity:  l.Quantity,
			UnitPrice: NewPriceDTO(l.UnitPrice),
			LineTotal: NewPriceDTO(l.LineTotal),
		}
		if l.Offer != nil {
			pct := l.Offer.Percent()
			line.DiscountPercent = &pct
		}
		dto.Lines[i] = line
	}
	return dto
}

// Fields renders the quote as a wire map.
func (d *CartQuoteDTO) Fields() map[string]any {
	lines := make([]any, len(d.Lines))
	for i, l := range d.Lines {
		m := map[string]any{
			"product_id": l.ProductID,
			"name":       l.Name,
			"quantity":   float64(l.Quantity),
		}
		if l.DiscountPercent != nil {
			m["discount_percent"] = float64(*l.DiscountPercent)
		}
		l.UnitPrice.put(m, "unit_price")
		l.LineTotal.put(m, "line_total")
		lines[i] = m
	}
	out := map[string]any{"lines": lines}
	d.Subtotal.put(out, "subtotal")
	d.GST.put(out, "gst")
	d.Total.put(out, "total")
	return out
}
