package relay_outbox

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/committer"
)

// DefaultBatchSize bounds one relay pass when the request leaves it unset.
const DefaultBatchSize = 100

// Request controls one relay pass.
type Request struct {
	BatchSize int64
}

// Response summarizes one relay pass.
type Response struct {
	Published int
	Failed    int
	// Deferred counts events left pending untouched because an earlier event
	// of the same aggregate failed in this pass.
	Deferred int
}

// Interactor moves pending outbox events to the broker.
type Interactor struct {
	outboxRepo contracts.OutboxRepository
	publisher  contracts.EventPublisher
	committer  contracts.Committer
	logger     *zap.Logger
}

// NewInteractor creates a new relay interactor.
func NewInteractor(
	outboxRepo contracts.OutboxRepository,
	publisher contracts.EventPublisher,
	committer contracts.Committer,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		outboxRepo: outboxRepo,
		publisher:  publisher,
		committer:  committer,
		logger:     logger,
	}
}

// Execute publishes one batch of pending events, oldest first. Each event is
// marked published or scheduled for retry; the marks commit together.
// Delivery is at least once: a crash between publish and commit resends.
//
// Events of one aggregate reach the broker in outbox order. Once an event
// fails, later events of its aggregate are skipped for the rest of the pass
// and keep their retry budget.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	limit := req.BatchSize
	if limit <= 0 {
		limit = DefaultBatchSize
	}

	events, err := i.outboxRepo.ListPending(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending events: %w", err)
	}

	resp := &Response{}
	if len(events) == 0 {
		return resp, nil
	}

	plan := committer.NewPlan()
	blocked := make(map[string]struct{})
	for _, ev := range events {
		if _, ok := blocked[ev.AggregateID]; ok {
			resp.Deferred++
			continue
		}
		if err := i.publisher.Publish(ctx, ev); err != nil {
			i.logger.Warn("outbox event publish failed",
				zap.String("event_id", ev.EventID),
				zap.String("event_type", ev.EventType),
				zap.Int64("retry_count", ev.RetryCount),
				zap.Error(err))
			plan.Add(i.outboxRepo.MarkRetryMut(ev, err))
			resp.Failed++
			blocked[ev.AggregateID] = struct{}{}
			continue
		}
		plan.Add(i.outboxRepo.MarkPublishedMut(ev.EventID))
		resp.Published++
	}

	if err := i.committer.Apply(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to record relay results: %w", err)
	}

	i.logger.Debug("outbox relay pass",
		zap.Int("published", resp.Published),
		zap.Int("failed", resp.Failed),
		zap.Int("deferred", resp.Deferred))
	return resp, nil
}
