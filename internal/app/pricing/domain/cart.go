package domain

import (
	"fmt"
	"math/big"
)

// GSTRate is the goods and services tax charged on a cart subtotal.
var GSTRate = big.NewRat(3, 100)

// CartLine is one product in a cart. Offer may be nil.
type CartLine struct {
	Product  *Product
	Offer    *Offer
	Quantity int64
}

// CartLineQuote is a priced cart line.
type CartLineQuote struct {
	CartLine
	UnitPrice Price
	LineTotal Price
}

// CartQuote is a priced cart. Subtotal, GST and Total are unavailable
// when any line is, so a partial sum is never shown as the cart total.
type CartQuote struct {
	Lines    []CartLineQuote
	Subtotal Price
	GST      Price
	Total    Price
}

// Available reports whether the cart totals could be computed.
func (q CartQuote) Available() bool { return q.Total.Available() }

// QuoteCart prices every line against one rate snapshot. A line with an
// offer is charged the discounted price.
func (pc *PricingCalculator) QuoteCart(lines []CartLine, rates RateSnapshot) (CartQuote, error) {
	quote := CartQuote{Lines: make([]CartLineQuote, 0, len(lines))}
	subtotal := ZeroMoney()
	complete := true

	for _, l := range lines {
		if l.Quantity <= 0 {
			return CartQuote{}, fmt.Errorf("%w, got %d", ErrInvalidQuantity, l.Quantity)
		}
		unit := pc.ComputePrice(l.Product, rates, ApplyOffer(l.Offer))
		line := CartLineQuote{CartLine: l, UnitPrice: unit, LineTotal: RateUnavailable}
		if unit.Available() {
			total := unit.Amount().MultiplyByRat(new(big.Rat).SetInt64(l.Quantity))
			line.LineTotal = AvailablePrice(total)
			subtotal = subtotal.Add(total)
		} else {
			complete = false
		}
		quote.Lines = append(quote.Lines, line)
	}

	if !complete {
		quote.Subtotal, quote.GST, quote.Total = RateUnavailable, RateUnavailable, RateUnavailable
		return quote, nil
	}
	gst := subtotal.MultiplyByRat(GSTRate)
	quote.Subtotal = AvailablePrice(subtotal)
	quote.GST = AvailablePrice(gst)
	quote.Total = AvailablePrice(subtotal.Add(gst))
	return quote, nil
}
