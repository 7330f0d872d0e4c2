package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
)

// OfferRepository persists at most one offer per product.
type OfferRepository interface {
	// UpsertMut replaces any existing offer for the same product.
	UpsertMut(offer *domain.Offer) (*spanner.Mutation, error)

	DeleteMut(productID string) *spanner.Mutation

	// GetByProductID returns ErrOfferNotFound when the product has no offer.
	GetByProductID(ctx context.Context, productID string) (*domain.Offer, error)

	// ListByProductIDs returns offers keyed by product id. Products without offers are absent.
	ListByProductIDs(ctx context.Context, productIDs []string) (map[string]*domain.Offer, error)
}
