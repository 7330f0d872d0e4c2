package rate_history

import (
	"context"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Request selects a metal's recent rate changes.
type Request struct {
	Metal string
	Limit int64
}

// Query lists admin rate changes, newest first.
type Query struct {
	history contracts.RateHistoryRepository
}

// NewQuery creates a new rate history query.
func NewQuery(history contracts.RateHistoryRepository) *Query {
	return &Query{history: history}
}

// Execute returns ErrUnsupportedMetal for metals without a market rate.
func (q *Query) Execute(ctx context.Context, req *Request) ([]*contracts.RateHistoryRecord, error) {
	metal := domain.ParseMetal(req.Metal)
	if !metal.HasMarketRate() {
		return nil, domain.ErrUnsupportedMetal
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return q.history.ListByMetal(ctx, metal, limit)
}
