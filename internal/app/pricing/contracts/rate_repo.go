package contracts

import (
	"context"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
)

// RateSource loads the current market rates in one consistent read.
type RateSource interface {
	LoadRates(ctx context.Context) (domain.RateSnapshot, error)
}

// RateRepository persists the per-metal market rates.
type RateRepository interface {
	RateSource

	// UpsertMut writes the rate for a gold or silver row.
	UpsertMut(metal domain.Metal, rate *domain.Money, changedBy string) (*spanner.Mutation, error)
}

// RateReader exposes the cached snapshot. Implemented by the rate registry.
type RateReader interface {
	Rates() domain.RateSnapshot
}

// RateHistoryRepository records admin rate changes.
type RateHistoryRepository interface {
	// InsertMut creates a mutation for a rate change record.
	// oldRate is nil when the metal had no rate before.
	InsertMut(
		historyID string,
		metal domain.Metal,
		oldRate *domain.Money,
		newRate *domain.Money,
		changedBy string,
		changedAt time.Time,
	) (*spanner.Mutation, error)

	// ListByMetal returns the most recent changes first.
	ListByMetal(ctx context.Context, metal domain.Metal, limit int64) ([]*RateHistoryRecord, error)
}

// RateHistoryRecord represents one rate change.
type RateHistoryRecord struct {
	HistoryID string
	Metal     domain.Metal
	OldRate   *domain.Money // nil for the first rate
	NewRate   *domain.Money
	ChangedBy string
	ChangedAt time.Time
}
