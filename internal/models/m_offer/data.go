package m_offer

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data is one row of the offers table. At most one row per product.
type Data struct {
	ProductID                         string    `spanner:"product_id"`
	DiscountPercent                   int64     `spanner:"discount_percent"`
	DiscountedMakingChargeNumerator   int64     `spanner:"discounted_making_charge_numerator"`
	DiscountedMakingChargeDenominator int64     `spanner:"discounted_making_charge_denominator"`
	CreatedAt                         time.Time `spanner:"created_at"`
	UpdatedAt                         time.Time `spanner:"updated_at"`
}

// Model provides type-safe mutations for the offers table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// UpsertMut replaces any existing offer for the product. created_at is kept
// from the data so a replacement carries the caller's timestamp.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		Columns,
		[]interface{}{
			data.ProductID,
			data.DiscountPercent,
			data.DiscountedMakingChargeNumerator,
			data.DiscountedMakingChargeDenominator,
			data.CreatedAt,
			spanner.CommitTimestamp,
		},
	)
}

// DeleteMut removes the product's offer. Deleting a missing row is not an error in Spanner.
func (m *Model) DeleteMut(productID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{productID})
}
