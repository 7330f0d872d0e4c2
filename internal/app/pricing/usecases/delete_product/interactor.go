package delete_product

import (
	"context"
	"fmt"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/outboxplan"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/committer"
)

// Request identifies the product to delete.
type Request struct {
	ProductID string
}

// Interactor handles the delete product use case.
type Interactor struct {
	products   contracts.ProductRepository
	offers     contracts.OfferRepository
	outboxRepo contracts.OutboxRepository
	committer  contracts.Committer
	clock      clock.Clock
}

// NewInteractor creates a new delete product interactor.
func NewInteractor(
	products contracts.ProductRepository,
	offers contracts.OfferRepository,
	outboxRepo contracts.OutboxRepository,
	committer contracts.Committer,
	clock clock.Clock,
) *Interactor {
	return &Interactor{
		products:   products,
		offers:     offers,
		outboxRepo: outboxRepo,
		committer:  committer,
		clock:      clock,
	}
}

// Execute removes the product and any offer on it in one commit.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	product, err := i.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return err
	}
	product.MarkDeleted(i.clock.Now())

	plan := committer.NewPlan()
	plan.Add(i.offers.DeleteMut(product.ID()))
	plan.Add(i.products.DeleteMut(product.ID()))
	if err := outboxplan.Add(plan, i.outboxRepo, product.DomainEvents()...); err != nil {
		return err
	}

	if err := i.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
