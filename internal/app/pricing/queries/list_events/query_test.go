package list_events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/fakes"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/committer"
)

func TestListEvents_Filters(t *testing.T) {
	store := fakes.NewStore()
	outbox := store.OutboxRepo()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	plan := committer.NewPlan()
	for _, ev := range []domain.DomainEvent{
		&domain.OfferUpsertedEvent{ProductID: "ring-1", DiscountPercent: 10, Timestamp: at},
		&domain.RatesUpdatedEvent{Gold: "6000.00", ChangedBy: "admin", Timestamp: at},
		&domain.OfferRemovedEvent{ProductID: "ring-1", Timestamp: at},
	} {
		enriched, err := outbox.EnrichEvent(ev)
		require.NoError(t, err)
		plan.Add(outbox.InsertMut(enriched))
	}
	require.NoError(t, store.Committer().Apply(context.Background(), plan))

	q := NewQuery(outbox)

	all, err := q.Execute(context.Background(), &Request{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "offer.removed", all[0].EventType, "newest first")

	aggregate := "ring-1"
	byAggregate, err := q.Execute(context.Background(), &Request{AggregateID: &aggregate})
	require.NoError(t, err)
	assert.Len(t, byAggregate, 2)

	eventType := "rates.updated"
	byType, err := q.Execute(context.Background(), &Request{EventType: &eventType, Limit: 1})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, domain.RatesAggregateID, byType[0].AggregateID)
}
