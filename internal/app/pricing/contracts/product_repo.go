package contracts

import (
	"context"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/committer"
)

// ProductRepository defines the interface for jewelry item persistence.
// Repositories return mutations, they don't apply them.
type ProductRepository interface {
	// InsertMut returns ErrMoneyOverflow if an amount does not fit storage columns.
	InsertMut(product *domain.Product) (*spanner.Mutation, error)

	// UpdateMut writes only dirty fields and bumps the version. Returns nil when nothing changed.
	UpdateMut(product *domain.Product) (*spanner.Mutation, error)

	DeleteMut(productID string) *spanner.Mutation

	// VersionGuard fails the commit if the row changed since product was loaded.
	VersionGuard(product *domain.Product) committer.VersionGuard

	// GetByID returns ErrProductNotFound when the item does not exist.
	GetByID(ctx context.Context, productID string) (*domain.Product, error)

	// List returns items matching the equality filters, oldest first.
	List(ctx context.Context, q *ProductQuery) ([]*domain.Product, error)
}

// ProductQuery holds filters pushed down to storage. Zero fields do not filter.
type ProductQuery struct {
	Category string
	Type     string
	Metal    string
	Karat    string
	Purity   string
	// CreatedAfter keeps products created at or after this instant.
	CreatedAfter time.Time
	Limit        int64
}
