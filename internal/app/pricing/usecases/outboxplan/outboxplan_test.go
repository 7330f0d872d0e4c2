package outboxplan

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

func TestAdd_SequencesEventsByPlanPosition(t *testing.T) {
	store := fakes.NewStore()
	outbox := store.OutboxRepo()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	plan := committer.NewPlan()
	require.NoError(t, Add(plan, outbox, &domain.OfferRemovedEvent{ProductID: "ring-1", Timestamp: now}))
	require.NoError(t, Add(plan, outbox,
		&domain.ProductUpdatedEvent{ProductID: "ring-1", UpdatedAt: now},
		&domain.ProductDeletedEvent{ProductID: "ring-1", DeletedAt: now},
	))
	require.NoError(t, store.Committer().Apply(context.Background(), plan))

	pending, err := outbox.ListPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, "offer.removed", pending[0].EventType)
	assert.Equal(t, "product.deleted", pending[2].EventType)
	for i := 1; i < len(pending); i++ {
		assert.Greater(t, pending[i].Sequence, pending[i-1].Sequence)
	}
}
