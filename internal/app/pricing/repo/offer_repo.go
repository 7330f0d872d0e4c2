package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/jewel-pricing-service/internal/models/m_offer"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/query"
)

// OfferRepo implements OfferRepository for Spanner.
type OfferRepo struct {
	client *spanner.Client
	model  *m_offer.Model
}

// NewOfferRepo creates a new OfferRepo.
func NewOfferRepo(client *spanner.Client) *OfferRepo {
	return &OfferRepo{client: client, model: m_offer.NewModel()}
}

var _ contracts.OfferRepository = (*OfferRepo)(nil)

// UpsertMut writes the offer keyed by product id.
func (r *OfferRepo) UpsertMut(offer *domain.Offer) (*spanner.Mutation, error) {
	num, den, err := moneyColumns("discounted making charge", offer.DiscountedMakingCharge())
	if err != nil {
		return nil, err
	}
	return r.model.UpsertMut(&m_offer.Data{
		ProductID:                         offer.ProductID(),
		DiscountPercent:                   offer.Percent(),
		DiscountedMakingChargeNumerator:   num,
		DiscountedMakingChargeDenominator: den,
		CreatedAt:                         offer.CreatedAt(),
	}), nil
}

// DeleteMut removes the product's offer.
func (r *OfferRepo) DeleteMut(productID string) *spanner.Mutation {
	return r.model.DeleteMut(productID)
}

// GetByProductID reads one offer.
func (r *OfferRepo) GetByProductID(ctx context.Context, productID string) (*domain.Offer, error) {
	row, err := r.client.Single().ReadRow(ctx, m_offer.TableName, spanner.Key{productID}, m_offer.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to read offer: %w", err)
	}
	var data m_offer.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse offer: %w", err)
	}
	return offerToDomain(&data)
}

// ListByProductIDs reads the offers for a set of products in one query.
func (r *OfferRepo) ListByProductIDs(ctx context.Context, productIDs []string) (map[string]*domain.Offer, error) {
	offers := make(map[string]*domain.Offer)
	if len(productIDs) == 0 {
		return offers, nil
	}

	stmt := query.From(m_offer.TableName).
		Select(m_offer.Columns...).
		Where(query.In(m_offer.ProductID, productIDs)).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate offers: %w", err)
		}
		var data m_offer.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse offer: %w", err)
		}
		o, err := offerToDomain(&data)
		if err != nil {
			return nil, err
		}
		offers[o.ProductID()] = o
	}
	return offers, nil
}

func offerToDomain(data *m_offer.Data) (*domain.Offer, error) {
	discounted, err := moneyFromColumns("discounted making charge",
		data.DiscountedMakingChargeNumerator, data.DiscountedMakingChargeDenominator)
	if err != nil {
		return nil, err
	}
	return domain.ReconstructOffer(data.ProductID, data.DiscountPercent, discounted, data.CreatedAt, data.UpdatedAt), nil
}
