package delete_product

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/fakes"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/clock"
)

func TestDeleteProduct_RemovesOfferToo(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := fakes.NewStore()
	ring := fakes.GoldRing("ring-1", now)
	store.PutProduct(ring)
	offer, err := domain.NewOffer(ring, 10, now)
	require.NoError(t, err)
	store.PutOffer(offer)

	interactor := NewInteractor(store.ProductRepo(), store.OfferRepo(), store.OutboxRepo(), store.Committer(), clock.NewMockClock(now))
	require.NoError(t, interactor.Execute(context.Background(), &Request{ProductID: "ring-1"}))

	_, ok := store.Product("ring-1")
	assert.False(t, ok)
	_, ok = store.Offer("ring-1")
	assert.False(t, ok)
	assert.Equal(t, []string{"product.deleted"}, store.EventTypes())
	assert.Len(t, store.Plans(), 1)

	err = interactor.Execute(context.Background(), &Request{ProductID: "ring-1"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
