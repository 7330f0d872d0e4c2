package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/jewel-pricing-service/internal/models/m_outbox"
)

// OutboxEvent represents an enriched domain event ready for persistence.
type OutboxEvent struct {
	EventID     string
	EventType   string
	AggregateID string
	Payload     string // JSON
	RetryCount  int64
	// Sequence orders events written in the same commit, which share a
	// commit timestamp.
	Sequence int64
}

// OutboxRepository defines the interface for outbox event persistence.
type OutboxRepository interface {
	InsertMut(event *OutboxEvent) *spanner.Mutation

	// EnrichEvent assigns an event id and serializes the payload.
	EnrichEvent(event domain.DomainEvent) (*OutboxEvent, error)

	// ListPending returns up to limit pending events in write order.
	ListPending(ctx context.Context, limit int64) ([]*OutboxEvent, error)

	MarkPublishedMut(eventID string) *spanner.Mutation
	MarkRetryMut(event *OutboxEvent, cause error) *spanner.Mutation
}

// EventsReadModel lists outbox rows for inspection.
type EventsReadModel interface {
	ListEvents(ctx context.Context, filter *EventFilter) ([]*m_outbox.Data, error)
}

// EventFilter narrows an outbox listing. nil fields do not filter.
type EventFilter struct {
	EventType   *string
	AggregateID *string
	Status      *string
	Limit       int64
}
