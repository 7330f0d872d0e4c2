package m_metal_rate

import (
	"time"

	"cloud.google.com/go/spanner"
)

const (
	TableName = "metal_rates"

	Metal           = "metal"
	RateNumerator   = "rate_numerator"
	RateDenominator = "rate_denominator"
	UpdatedBy       = "updated_by"
	UpdatedAt       = "updated_at"
)

var Columns = []string{Metal, RateNumerator, RateDenominator, UpdatedBy, UpdatedAt}

// Data is one row of metal_rates, keyed by metal.
type Data struct {
	Metal           string             `spanner:"metal"`
	RateNumerator   int64              `spanner:"rate_numerator"`
	RateDenominator int64              `spanner:"rate_denominator"`
	UpdatedBy       spanner.NullString `spanner:"updated_by"`
	UpdatedAt       time.Time          `spanner:"updated_at"`
}

// Model provides type-safe mutations for metal_rates.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// UpsertMut writes the rate for one metal, replacing the previous value.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		Columns,
		[]interface{}{
			data.Metal,
			data.RateNumerator,
			data.RateDenominator,
			data.UpdatedBy,
			spanner.CommitTimestamp,
		},
	)
}
