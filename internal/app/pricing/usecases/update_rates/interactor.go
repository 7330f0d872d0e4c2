package update_rates

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/outboxplan"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/committer"
)

// Request carries admin-entered rates per gram. nil = no change.
type Request struct {
	Gold      *string
	Silver    *string
	ChangedBy string
}

// Response reports the stored rates after the update.
type Response struct {
	Rates   domain.RateSnapshot
	Changed []domain.Metal
}

// Interactor handles the update rates use case.
type Interactor struct {
	rates      contracts.RateRepository
	history    contracts.RateHistoryRepository
	outboxRepo contracts.OutboxRepository
	committer  contracts.Committer
	notifier   contracts.RateChangeNotifier
	clock      clock.Clock
	logger     *zap.Logger
}

// NewInteractor creates a new update rates interactor.
func NewInteractor(
	rates contracts.RateRepository,
	history contracts.RateHistoryRepository,
	outboxRepo contracts.OutboxRepository,
	committer contracts.Committer,
	notifier contracts.RateChangeNotifier,
	clock clock.Clock,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		rates:      rates,
		history:    history,
		outboxRepo: outboxRepo,
		committer:  committer,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
	}
}

type rateChange struct {
	metal domain.Metal
	rate  *domain.Money
}

// Execute validates and stores new market rates, then tells every registry to refresh.
// Concurrent admin writes are not ordered: the last commit wins.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Validate input before touching storage
	changes, err := parseChanges(req)
	if err != nil {
		return nil, err
	}

	// 2. Load current rates for history
	current, err := i.rates.LoadRates(ctx)
	if err != nil {
		return nil, &domain.RateFetchError{Err: err}
	}

	now := i.clock.Now()
	plan := committer.NewPlan()
	next := current
	var changed []domain.Metal

	for _, c := range changes {
		old := current.RateFor(c.metal)
		if old != nil && old.Equals(c.rate) {
			continue
		}

		mut, err := i.rates.UpsertMut(c.metal, c.rate, req.ChangedBy)
		if err != nil {
			return nil, err
		}
		plan.Add(mut)

		histMut, err := i.history.InsertMut(uuid.New().String(), c.metal, old, c.rate, req.ChangedBy, now)
		if err != nil {
			return nil, err
		}
		plan.Add(histMut)

		if next, err = next.WithRate(c.metal, c.rate, now); err != nil {
			return nil, err
		}
		changed = append(changed, c.metal)
	}

	if len(changed) == 0 {
		return &Response{Rates: current}, nil
	}

	// 3. Outbox event for downstream consumers
	event := &domain.RatesUpdatedEvent{
		Gold:      moneyString(next.Gold()),
		Silver:    moneyString(next.Silver()),
		ChangedBy: req.ChangedBy,
		Timestamp: now,
	}
	if err := outboxplan.Add(plan, i.outboxRepo, event); err != nil {
		return nil, err
	}

	// 4. Apply plan
	if err := i.committer.Apply(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to commit rate update: %w", err)
	}

	// 5. Notify registries. The periodic resync covers a lost notification.
	if err := i.notifier.Publish(ctx); err != nil {
		i.logger.Warn("rate change notification failed",
			zap.Strings("metals", metalNames(changed)),
			zap.Error(err))
	}

	i.logger.Info("metal rates updated",
		zap.Strings("metals", metalNames(changed)),
		zap.String("changed_by", req.ChangedBy))

	return &Response{Rates: next, Changed: changed}, nil
}

func parseChanges(req *Request) ([]rateChange, error) {
	if req.Gold == nil && req.Silver == nil {
		return nil, domain.ErrNoRatesToUpdate
	}

	var changes []rateChange
	for _, in := range []struct {
		metal domain.Metal
		raw   *string
	}{
		{domain.MetalGold, req.Gold},
		{domain.MetalSilver, req.Silver},
	} {
		if in.raw == nil {
			continue
		}
		rate, err := domain.ParseMoney(*in.raw)
		if err != nil {
			return nil, fmt.Errorf("%s rate: %w", in.metal, err)
		}
		if rate.IsNegative() {
			return nil, fmt.Errorf("%s rate: %w", in.metal, domain.ErrInvalidRate)
		}
		changes = append(changes, rateChange{metal: in.metal, rate: rate})
	}
	return changes, nil
}

func metalNames(metals []domain.Metal) []string {
	out := make([]string, len(metals))
	for i, m := range metals {
		out[i] = string(m)
	}
	return out
}

func moneyString(m *domain.Money) string {
	if m == nil {
		return ""
	}
	return m.String()
}
