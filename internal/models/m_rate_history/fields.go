package m_rate_history

// Table name constant
const TableName = "rate_history"

// Field name constants for type-safe database access
const (
	HistoryID          = "history_id"
	Metal              = "metal"
	OldRateNumerator   = "old_rate_numerator"
	OldRateDenominator = "old_rate_denominator"
	NewRateNumerator   = "new_rate_numerator"
	NewRateDenominator = "new_rate_denominator"
	ChangedBy          = "changed_by"
	ChangedAt          = "changed_at"
)
