package update_product

import (
	"context"
	"fmt"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/outboxplan"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/committer"
)

// Request contains the data to update a product. nil = no change.
type Request struct {
	ProductID    string
	Name         *string
	Description  *string
	Type         *string
	Karat        *string
	Purity       *string
	WeightGrams  *string
	MakingCharge *string
	StoredRate   *string

	// ExpectedVersion, when set, rejects the update if the product has moved on.
	ExpectedVersion *int64
}

// Interactor handles the update product use case.
type Interactor struct {
	repo       contracts.ProductRepository
	outboxRepo contracts.OutboxRepository
	committer  contracts.Committer
	clock      clock.Clock
}

// NewInteractor creates a new update product interactor.
func NewInteractor(
	repo contracts.ProductRepository,
	outboxRepo contracts.OutboxRepository,
	committer contracts.Committer,
	clock clock.Clock,
) *Interactor {
	return &Interactor{
		repo:       repo,
		outboxRepo: outboxRepo,
		committer:  committer,
		clock:      clock,
	}
}

// Execute updates a product following the Golden Mutation Pattern.
// An existing offer keeps its frozen discounted making charge.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	// 1. Load aggregate
	product, err := i.repo.GetByID(ctx, req.ProductID)
	if err != nil {
		return err
	}
	if req.ExpectedVersion != nil && *req.ExpectedVersion != product.Version() {
		return fmt.Errorf("%w: expected version %d, found %d",
			committer.ErrVersionConflict, *req.ExpectedVersion, product.Version())
	}

	// Clear events on function exit to prevent duplicates on retry
	defer product.ClearEvents()

	// 2. Call domain methods
	if err := applyChanges(product, req); err != nil {
		return err
	}
	product.MarkUpdated(i.clock.Now())

	// 3. Create commit plan
	mut, err := i.repo.UpdateMut(product)
	if err != nil {
		return err
	}
	if mut == nil {
		return nil // No changes
	}

	plan := committer.NewPlan()
	plan.Add(mut)
	plan.Guard(i.repo.VersionGuard(product))
	if err := outboxplan.Add(plan, i.outboxRepo, product.DomainEvents()...); err != nil {
		return err
	}

	// 4. Apply plan
	if err := i.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func applyChanges(p *domain.Product, req *Request) error {
	if req.Name != nil {
		if err := p.SetName(*req.Name); err != nil {
			return err
		}
	}
	if req.Description != nil {
		p.SetDescription(*req.Description)
	}
	if req.Type != nil {
		p.SetType(*req.Type)
	}
	if req.Karat != nil {
		if err := p.SetKarat(*req.Karat); err != nil {
			return err
		}
	}
	if req.Purity != nil {
		if err := p.SetPurity(*req.Purity); err != nil {
			return err
		}
	}
	if req.WeightGrams != nil {
		w, err := domain.ParseRat(*req.WeightGrams)
		if err != nil {
			return fmt.Errorf("weight: %w", err)
		}
		if err := p.SetWeight(w); err != nil {
			return err
		}
	}
	if req.MakingCharge != nil {
		m, err := domain.ParseMoney(*req.MakingCharge)
		if err != nil {
			return fmt.Errorf("making charge: %w", err)
		}
		if err := p.SetMakingCharge(m); err != nil {
			return err
		}
	}
	if req.StoredRate != nil {
		r, err := domain.ParseMoney(*req.StoredRate)
		if err != nil {
			return fmt.Errorf("stored rate: %w", err)
		}
		if err := p.SetStoredRate(r); err != nil {
			return err
		}
	}
	return nil
}
