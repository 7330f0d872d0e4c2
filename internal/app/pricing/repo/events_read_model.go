package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/models/m_outbox"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/query"
)

// EventsReadModel lists outbox rows for inspection.
type EventsReadModel struct {
	client *spanner.Client
}

// NewEventsReadModel creates a new EventsReadModel.
func NewEventsReadModel(client *spanner.Client) *EventsReadModel {
	return &EventsReadModel{client: client}
}

var _ contracts.EventsReadModel = (*EventsReadModel)(nil)

// ListEvents retrieves events, newest first.
func (r *EventsReadModel) ListEvents(ctx context.Context, filter *contracts.EventFilter) ([]*m_outbox.Data, error) {
	iter := r.client.Single().Query(ctx, eventsStatement(filter))
	defer iter.Stop()

	var events []*m_outbox.Data
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate events: %w", err)
		}
		var event m_outbox.Data
		if err := row.ToStruct(&event); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &event)
	}
	return events, nil
}

func eventsStatement(filter *contracts.EventFilter) spanner.Statement {
	b := query.From(m_outbox.TableName).Select(m_outbox.Columns...)
	if filter.EventType != nil {
		b = b.Where(query.Eq(m_outbox.EventType, *filter.EventType))
	}
	if filter.AggregateID != nil {
		b = b.Where(query.Eq(m_outbox.AggregateID, *filter.AggregateID))
	}
	if filter.Status != nil {
		b = b.Where(query.Eq(m_outbox.Status, *filter.Status))
	}
	return b.OrderBy(m_outbox.CreatedAt, query.Desc).Limit(filter.Limit).Build()
}
