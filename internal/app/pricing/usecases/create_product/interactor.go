package create_product

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/outboxplan"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/committer"
)

// Request contains the data to add a jewelry item. Amounts are decimal strings.
type Request struct {
	Name         string
	Description  string
	Category     string
	Type         string
	Metal        string
	Karat        string
	Purity       string
	WeightGrams  string
	MakingCharge string
	// StoredRate is required for metals without a market rate.
	// For gold and silver it defaults to the current market rate.
	StoredRate *string
}

// Interactor handles the create product use case.
type Interactor struct {
	repo       contracts.ProductRepository
	outboxRepo contracts.OutboxRepository
	rates      contracts.RateReader
	committer  contracts.Committer
	clock      clock.Clock
}

// NewInteractor creates a new create product interactor.
func NewInteractor(
	repo contracts.ProductRepository,
	outboxRepo contracts.OutboxRepository,
	rates contracts.RateReader,
	committer contracts.Committer,
	clock clock.Clock,
) *Interactor {
	return &Interactor{
		repo:       repo,
		outboxRepo: outboxRepo,
		rates:      rates,
		committer:  committer,
		clock:      clock,
	}
}

// Execute creates a new product following the Golden Mutation Pattern.
func (i *Interactor) Execute(ctx context.Context, req *Request) (string, error) {
	attrs, err := i.attributes(req)
	if err != nil {
		return "", err
	}

	product, err := domain.NewProduct(uuid.New().String(), attrs, i.clock.Now())
	if err != nil {
		return "", err
	}

	plan := committer.NewPlan()
	mut, err := i.repo.InsertMut(product)
	if err != nil {
		return "", err
	}
	plan.Add(mut)
	if err := outboxplan.Add(plan, i.outboxRepo, product.DomainEvents()...); err != nil {
		return "", err
	}

	if err := i.committer.Apply(ctx, plan); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return product.ID(), nil
}

func (i *Interactor) attributes(req *Request) (domain.ProductAttributes, error) {
	weight, err := domain.ParseRat(req.WeightGrams)
	if err != nil {
		return domain.ProductAttributes{}, fmt.Errorf("weight: %w", err)
	}
	making, err := domain.ParseMoney(req.MakingCharge)
	if err != nil {
		return domain.ProductAttributes{}, fmt.Errorf("making charge: %w", err)
	}

	metal := domain.ParseMetal(req.Metal)
	var stored *domain.Money
	if req.StoredRate != nil {
		if stored, err = domain.ParseMoney(*req.StoredRate); err != nil {
			return domain.ProductAttributes{}, fmt.Errorf("stored rate: %w", err)
		}
	} else if metal.HasMarketRate() {
		// Captured for reference; pricing always reads the live rate for these metals.
		stored = i.rates.Rates().RateFor(metal)
	}

	return domain.ProductAttributes{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Type:         req.Type,
		Metal:        metal,
		Karat:        req.Karat,
		Purity:       req.Purity,
		WeightGrams:  weight,
		MakingCharge: making,
		StoredRate:   stored,
	}, nil
}
