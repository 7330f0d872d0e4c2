package m_rate_history

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents one admin rate change.
type Data struct {
	HistoryID          string             `spanner:"history_id"`
	Metal              string             `spanner:"metal"`
	OldRateNumerator   spanner.NullInt64  `spanner:"old_rate_numerator"`
	OldRateDenominator spanner.NullInt64  `spanner:"old_rate_denominator"`
	NewRateNumerator   int64              `spanner:"new_rate_numerator"`
	NewRateDenominator int64              `spanner:"new_rate_denominator"`
	ChangedBy          spanner.NullString `spanner:"changed_by"`
	ChangedAt          time.Time          `spanner:"changed_at"`
}

// Model provides type-safe database operations for rate history.
type Model struct{}

// NewModel creates a new rate history model.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting a history record.
func (m *Model) InsertMut(data *Data) (*spanner.Mutation, error) {
	return spanner.InsertStruct(TableName, data)
}

// ReadColumns returns the column names for reading rate history.
func (m *Model) ReadColumns() []string {
	return []string{
		HistoryID,
		Metal,
		OldRateNumerator,
		OldRateDenominator,
		NewRateNumerator,
		NewRateDenominator,
		ChangedBy,
		ChangedAt,
	}
}
