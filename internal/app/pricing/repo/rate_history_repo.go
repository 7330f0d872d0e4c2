package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/jewel-pricing-service/internal/models/m_rate_history"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/query"
)

// RateHistoryRepo implements RateHistoryRepository for Spanner.
type RateHistoryRepo struct {
	client *spanner.Client
	model  *m_rate_history.Model
}

// NewRateHistoryRepo creates a new rate history repository.
func NewRateHistoryRepo(client *spanner.Client) *RateHistoryRepo {
	return &RateHistoryRepo{client: client, model: m_rate_history.NewModel()}
}

var _ contracts.RateHistoryRepository = (*RateHistoryRepo)(nil)

// InsertMut creates a mutation for a rate change record.
func (r *RateHistoryRepo) InsertMut(
	historyID string,
	metal domain.Metal,
	oldRate *domain.Money,
	newRate *domain.Money,
	changedBy string,
	changedAt time.Time,
) (*spanner.Mutation, error) {
	oldNum, oldDen, err := nullMoneyColumns("old rate", oldRate)
	if err != nil {
		return nil, err
	}
	newNum, newDen, err := moneyColumns("new rate", newRate)
	if err != nil {
		return nil, err
	}

	mut, err := r.model.InsertMut(&m_rate_history.Data{
		HistoryID:          historyID,
		Metal:              string(metal),
		OldRateNumerator:   oldNum,
		OldRateDenominator: oldDen,
		NewRateNumerator:   newNum,
		NewRateDenominator: newDen,
		ChangedBy:          nullString(changedBy),
		ChangedAt:          changedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build rate history mutation: %w", err)
	}
	return mut, nil
}

// ListByMetal returns recent changes for a metal, newest first.
func (r *RateHistoryRepo) ListByMetal(ctx context.Context, metal domain.Metal, limit int64) ([]*contracts.RateHistoryRecord, error) {
	stmt := query.From(m_rate_history.TableName).
		Select(r.model.ReadColumns()...).
		Where(query.Eq(m_rate_history.Metal, string(metal))).
		OrderBy(m_rate_history.ChangedAt, query.Desc).
		Limit(limit).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var records []*contracts.RateHistoryRecord
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate rate history: %w", err)
		}

		var data m_rate_history.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse rate history: %w", err)
		}
		oldRate, err := nullMoneyFromColumns("old rate", data.OldRateNumerator, data.OldRateDenominator)
		if err != nil {
			return nil, err
		}
		newRate, err := moneyFromColumns("new rate", data.NewRateNumerator, data.NewRateDenominator)
		if err != nil {
			return nil, err
		}
		records = append(records, &contracts.RateHistoryRecord{
			HistoryID: data.HistoryID,
			Metal:     domain.Metal(data.Metal),
			OldRate:   oldRate,
			NewRate:   newRate,
			ChangedBy: data.ChangedBy.StringVal,
			ChangedAt: data.ChangedAt,
		})
	}
	return records, nil
}
