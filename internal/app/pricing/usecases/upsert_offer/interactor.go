package upsert_offer

import (
	"context"
	"fmt"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/outboxplan"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/committer"
)

// Request contains the data to create or replace an offer.
type Request struct {
	ProductID       string
	DiscountPercent int64
}

// Interactor handles the upsert offer use case.
type Interactor struct {
	products   contracts.ProductRepository
	offers     contracts.OfferRepository
	outboxRepo contracts.OutboxRepository
	committer  contracts.Committer
	clock      clock.Clock
}

// NewInteractor creates a new upsert offer interactor.
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

// Execute freezes the discounted making charge and stores the offer,
// replacing any earlier offer for the product.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Offer, error) {
	// 1. Load aggregate
	product, err := i.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	// 2. Create offer; rejects out-of-range percentages
	offer, err := domain.NewOffer(product, req.DiscountPercent, i.clock.Now())
	if err != nil {
		return nil, err
	}

	// 3. Build plan
	plan := committer.NewPlan()
	mut, err := i.offers.UpsertMut(offer)
	if err != nil {
		return nil, err
	}
	plan.Add(mut)
	if err := outboxplan.Add(plan, i.outboxRepo, offer.DomainEvents()...); err != nil {
		return nil, err
	}

	// 4. Apply plan
	if err := i.committer.Apply(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to commit offer: %w", err)
	}

	return offer, nil
}
