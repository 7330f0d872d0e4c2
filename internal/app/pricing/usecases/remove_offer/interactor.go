package remove_offer

import (
	"context"
	"fmt"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/outboxplan"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/committer"
)

// Request identifies the offer to remove.
type Request struct {
	ProductID string
}

// Interactor handles the remove offer use case.
type Interactor struct {
	offers     contracts.OfferRepository
	outboxRepo contracts.OutboxRepository
	committer  contracts.Committer
	clock      clock.Clock
}

// NewInteractor creates a new remove offer interactor.
func NewInteractor(
	offers contracts.OfferRepository,
	outboxRepo contracts.OutboxRepository,
	committer contracts.Committer,
	clock clock.Clock,
) *Interactor {
	return &Interactor{
		offers:     offers,
		outboxRepo: outboxRepo,
		committer:  committer,
		clock:      clock,
	}
}

// Execute deletes the product's offer. Returns ErrOfferNotFound if there is none.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	if _, err := i.offers.GetByProductID(ctx, req.ProductID); err != nil {
		return err
	}

	plan := committer.NewPlan()
	plan.Add(i.offers.DeleteMut(req.ProductID))

	event := &domain.OfferRemovedEvent{
		ProductID: req.ProductID,
		Timestamp: i.clock.Now(),
	}
	if err := outboxplan.Add(plan, i.outboxRepo, event); err != nil {
		return err
	}

	if err := i.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to commit offer removal: %w", err)
	}
	return nil
}
