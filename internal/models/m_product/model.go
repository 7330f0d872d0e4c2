package m_product

import (
	"sort"

	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the jewellery_items table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting an item.
// Timestamps are set to the commit timestamp.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		Columns,
		[]interface{}{
			data.ProductID,
			data.Name,
			data.Description,
			data.Category,
			data.Type,
			data.Metal,
			data.Karat,
			data.Purity,
			data.WeightNumerator,
			data.WeightDenominator,
			data.MakingChargeNumerator,
			data.MakingChargeDenominator,
			data.StoredRateNumerator,
			data.StoredRateDenominator,
			data.Version,
			spanner.CommitTimestamp,
			spanner.CommitTimestamp,
		},
	)
}

// UpdateMut writes only the given columns, plus updated_at.
// Columns are emitted in sorted order so mutations are deterministic.
func (m *Model) UpdateMut(productID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	cols := make([]string, 0, len(updates))
	for col := range updates {
		if col == UpdatedAt || col == ProductID {
			continue
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	columns := make([]string, 0, len(cols)+2)
	values := make([]interface{}, 0, len(cols)+2)
	columns = append(columns, ProductID)
	values = append(values, productID)
	for _, col := range cols {
		columns = append(columns, col)
		values = append(values, updates[col])
	}
	columns = append(columns, UpdatedAt)
	values = append(values, spanner.CommitTimestamp)

	return spanner.Update(TableName, columns, values)
}

// DeleteMut creates a Spanner mutation for deleting an item.
func (m *Model) DeleteMut(productID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{productID})
}
