package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/jewel-pricing-service/internal/models/m_metal_rate"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/clock"
)

// RateRepo implements RateRepository for Spanner.
type RateRepo struct {
	client *spanner.Client
	model  *m_metal_rate.Model
	clock  clock.Clock
}

// NewRateRepo creates a new RateRepo.
func NewRateRepo(client *spanner.Client, clk clock.Clock) *RateRepo {
	return &RateRepo{client: client, model: m_metal_rate.NewModel(), clock: clk}
}

var _ contracts.RateRepository = (*RateRepo)(nil)

// UpsertMut writes one metal's rate.
func (r *RateRepo) UpsertMut(metal domain.Metal, rate *domain.Money, changedBy string) (*spanner.Mutation, error) {
	if !metal.HasMarketRate() {
		return nil, domain.ErrUnsupportedMetal
	}
	if rate.IsNegative() {
		return nil, domain.ErrInvalidRate
	}
	num, den, err := moneyColumns(string(metal)+" rate", rate)
	if err != nil {
		return nil, err
	}
	return r.model.UpsertMut(&m_metal_rate.Data{
		Metal:           string(metal),
		RateNumerator:   num,
		RateDenominator: den,
		UpdatedBy:       nullString(changedBy),
	}), nil
}

// LoadRates reads both rate rows in a single snapshot read, so gold and
// silver always come from the same committed state.
func (r *RateRepo) LoadRates(ctx context.Context) (domain.RateSnapshot, error) {
	keys := spanner.KeySetFromKeys(
		spanner.Key{string(domain.MetalGold)},
		spanner.Key{string(domain.MetalSilver)},
	)

	var gold, silver *domain.Money
	iter := r.client.Single().Read(ctx, m_metal_rate.TableName, keys, m_metal_rate.Columns)
	err := iter.Do(func(row *spanner.Row) error {
		var data m_metal_rate.Data
		if err := row.ToStruct(&data); err != nil {
			return fmt.Errorf("failed to parse metal rate: %w", err)
		}
		rate, err := moneyFromColumns(data.Metal+" rate", data.RateNumerator, data.RateDenominator)
		if err != nil {
			return err
		}
		switch domain.Metal(data.Metal) {
		case domain.MetalGold:
			gold = rate
		case domain.MetalSilver:
			silver = rate
		}
		return nil
	})
	if err != nil {
		return domain.RateSnapshot{}, fmt.Errorf("failed to read metal rates: %w", err)
	}

	return domain.NewRateSnapshot(gold, silver, r.now()), nil
}

func (r *RateRepo) now() time.Time {
	if r.clock == nil {
		return time.Now().UTC()
	}
	return r.clock.Now()
}
