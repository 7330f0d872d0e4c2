package get_rates

import "github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"

// Query returns the registry's current snapshot. It never does I/O.
type Query struct {
	rates contracts.RateReader
}

// NewQuery creates a new get rates query.
func NewQuery(rates contracts.RateReader) *Query {
	return &Query{rates: rates}
}

// Execute returns the cached rates.
func (q *Query) Execute() *contracts.RatesDTO {
	return contracts.NewRatesDTO(q.rates.Rates())
}
