package list_events

import (
	"context"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/models/m_outbox"
)

// Request contains filtering parameters for listing events.
type Request struct {
	EventType   *string // e.g. "rates.updated"
	AggregateID *string // product id, or "metal_rates"
	Status      *string // "pending", "published", "failed"
	Limit       int64
}

// Query handles the list events query use case.
type Query struct {
	readModel contracts.EventsReadModel
}

// NewQuery creates a new list events query.
func NewQuery(readModel contracts.EventsReadModel) *Query {
	return &Query{readModel: readModel}
}

// Execute retrieves outbox events, newest first.
func (q *Query) Execute(ctx context.Context, req *Request) ([]*m_outbox.Data, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	return q.readModel.ListEvents(ctx, &contracts.EventFilter{
		EventType:   req.EventType,
		AggregateID: req.AggregateID,
		Status:      req.Status,
		Limit:       limit,
	})
}
