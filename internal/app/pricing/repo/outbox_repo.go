package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/jewel-pricing-service/internal/models/m_outbox"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/query"
)

// OutboxRepo implements OutboxRepository for Spanner.
type OutboxRepo struct {
	client *spanner.Client
	model  *m_outbox.Model
}

// NewOutboxRepo creates a new OutboxRepo.
func NewOutboxRepo(client *spanner.Client) *OutboxRepo {
	return &OutboxRepo{
		client: client,
		model:  m_outbox.NewModel(),
	}
}

var _ contracts.OutboxRepository = (*OutboxRepo)(nil)

// InsertMut creates a mutation for inserting an outbox event.
func (r *OutboxRepo) InsertMut(event *contracts.OutboxEvent) *spanner.Mutation {
	return r.model.InsertMut(&m_outbox.Data{
		EventID:     event.EventID,
		EventType:   event.EventType,
		AggregateID: event.AggregateID,
		Sequence:    event.Sequence,
		Payload:     spanner.NullJSON{Value: json.RawMessage(event.Payload), Valid: event.Payload != ""},
	})
}

// EnrichEvent assigns an event id and serializes the domain event as JSON.
func (r *OutboxRepo) EnrichEvent(event domain.DomainEvent) (*contracts.OutboxEvent, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s event: %w", event.EventType(), err)
	}
	return &contracts.OutboxEvent{
		EventID:     uuid.New().String(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		Payload:     string(payload),
	}, nil
}

// ListPending returns pending events in write order: commit time, then
// position within the commit.
func (r *OutboxRepo) ListPending(ctx context.Context, limit int64) ([]*contracts.OutboxEvent, error) {
	stmt := query.From(m_outbox.TableName).
		Select(m_outbox.EventID, m_outbox.EventType, m_outbox.AggregateID, "TO_JSON_STRING("+m_outbox.Payload+")", m_outbox.RetryCount, m_outbox.Sequence).
		Where(query.Eq(m_outbox.Status, m_outbox.StatusPending)).
		OrderBy(m_outbox.CreatedAt, query.Asc).
		OrderBy(m_outbox.Sequence, query.Asc).
		Limit(limit).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var events []*contracts.OutboxEvent
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate outbox: %w", err)
		}
		var (
			ev      contracts.OutboxEvent
			payload spanner.NullString
		)
		if err := row.Columns(&ev.EventID, &ev.EventType, &ev.AggregateID, &payload, &ev.RetryCount, &ev.Sequence); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		ev.Payload = payload.StringVal
		events = append(events, &ev)
	}
	return events, nil
}

// MarkPublishedMut records a successful relay.
func (r *OutboxRepo) MarkPublishedMut(eventID string) *spanner.Mutation {
	return r.model.MarkPublishedMut(eventID)
}

// MarkRetryMut records a failed relay attempt.
func (r *OutboxRepo) MarkRetryMut(event *contracts.OutboxEvent, cause error) *spanner.Mutation {
	return r.model.MarkRetryMut(event.EventID, event.RetryCount+1, cause.Error())
}
