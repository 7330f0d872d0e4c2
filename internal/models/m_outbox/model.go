package m_outbox

import (
	"cloud.google.com/go/spanner"
)

// Model builds mutations for the outbox_events table.
type Model struct{}

func NewModel() *Model {
	return &Model{}
}

// InsertMut writes a pending event stamped with the commit timestamp.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{EventID, EventType, AggregateID, Sequence, Payload, Status, CreatedAt, RetryCount},
		[]interface{}{
			data.EventID,
			data.EventType,
			data.AggregateID,
			data.Sequence,
			data.Payload,
			StatusPending,
			spanner.CommitTimestamp,
			int64(0),
		},
	)
}

// MarkPublishedMut records a successful relay.
func (m *Model) MarkPublishedMut(eventID string) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{EventID, Status, ProcessedAt, ErrorMessage},
		[]interface{}{eventID, StatusPublished, spanner.CommitTimestamp, spanner.NullString{}},
	)
}

// MarkRetryMut records failed relay attempt number retryCount. An event that
// runs out of attempts is parked as failed and gets processed_at, which the
// retention job keys on.
func (m *Model) MarkRetryMut(eventID string, retryCount int64, errMsg string) *spanner.Mutation {
	status := RetryStatus(retryCount)
	var processedAt interface{} = spanner.NullTime{}
	if status == StatusFailed {
		processedAt = spanner.CommitTimestamp
	}
	return spanner.Update(
		TableName,
		[]string{EventID, Status, RetryCount, ProcessedAt, ErrorMessage},
		[]interface{}{eventID, status, retryCount, processedAt, spanner.NullString{StringVal: errMsg, Valid: true}},
	)
}

// RetryStatus is the status an event takes after retryCount failed attempts.
func RetryStatus(retryCount int64) string {
	if retryCount >= MaxRetries {
		return StatusFailed
	}
	return StatusPending
}
