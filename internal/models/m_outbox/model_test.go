package m_outbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModel_Mutations(t *testing.T) {
	m := NewModel()

	assert.NotNil(t, m.InsertMut(&Data{EventID: "e1", EventType: "rates.updated", AggregateID: "metal_rates"}))
	assert.NotNil(t, m.MarkPublishedMut("e1"))
	assert.NotNil(t, m.MarkRetryMut("e1", 1, "broker down"))
	assert.NotNil(t, m.MarkRetryMut("e1", MaxRetries, "broker down"))
}

func TestRetryStatus(t *testing.T) {
	assert.Equal(t, StatusPending, RetryStatus(1))
	assert.Equal(t, StatusPending, RetryStatus(MaxRetries-1))
	assert.Equal(t, StatusFailed, RetryStatus(MaxRetries))
}
