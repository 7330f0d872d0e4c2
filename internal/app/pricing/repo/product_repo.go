package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/jewel-pricing-service/internal/models/m_product"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/committer"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/query"
)

// ProductRepo implements ProductRepository for Spanner.
type ProductRepo struct {
	client *spanner.Client
	model  *m_product.Model
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(client *spanner.Client) *ProductRepo {
	return &ProductRepo{
		client: client,
		model:  m_product.NewModel(),
	}
}

var _ contracts.ProductRepository = (*ProductRepo)(nil)

// InsertMut creates a mutation for inserting a new item.
func (r *ProductRepo) InsertMut(product *domain.Product) (*spanner.Mutation, error) {
	data, err := domainToData(product)
	if err != nil {
		return nil, err
	}
	return r.model.InsertMut(data), nil
}

// VersionGuard asserts the row still holds the version the product was loaded at.
func (r *ProductRepo) VersionGuard(product *domain.Product) committer.VersionGuard {
	return committer.VersionGuard{
		Table:    m_product.TableName,
		Key:      spanner.Key{product.ID()},
		Column:   m_product.Version,
		Expected: product.Version(),
	}
}

// UpdateMut creates a mutation for the dirty fields only.
func (r *ProductRepo) UpdateMut(product *domain.Product) (*spanner.Mutation, error) {
	changes := product.Changes()
	if !changes.HasChanges() {
		return nil, nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldName) {
		updates[m_product.Name] = product.Name()
	}
	if changes.Dirty(domain.FieldDescription) {
		updates[m_product.Description] = nullString(product.Description())
	}
	if changes.Dirty(domain.FieldType) {
		updates[m_product.Type] = product.Type()
	}
	if changes.Dirty(domain.FieldKarat) {
		updates[m_product.Karat] = nullString(product.Karat())
	}
	if changes.Dirty(domain.FieldPurity) {
		updates[m_product.Purity] = nullString(product.Purity())
	}
	if changes.Dirty(domain.FieldWeight) {
		num, den, err := ratColumns("weight", product.WeightGrams())
		if err != nil {
			return nil, err
		}
		updates[m_product.WeightNumerator] = num
		updates[m_product.WeightDenominator] = den
	}
	if changes.Dirty(domain.FieldMakingCharge) {
		num, den, err := moneyColumns("making charge", product.MakingCharge())
		if err != nil {
			return nil, err
		}
		updates[m_product.MakingChargeNumerator] = num
		updates[m_product.MakingChargeDenominator] = den
	}
	if changes.Dirty(domain.FieldStoredRate) {
		num, den, err := nullMoneyColumns("stored rate", product.StoredRate())
		if err != nil {
			return nil, err
		}
		updates[m_product.StoredRateNumerator] = num
		updates[m_product.StoredRateDenominator] = den
	}

	updates[m_product.Version] = product.Version() + 1

	return r.model.UpdateMut(product.ID(), updates), nil
}

// DeleteMut creates a mutation removing the item.
func (r *ProductRepo) DeleteMut(productID string) *spanner.Mutation {
	return r.model.DeleteMut(productID)
}

// GetByID retrieves an item by ID, reconstructing the domain aggregate.
func (r *ProductRepo) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	row, err := r.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{productID}, m_product.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}

	var data m_product.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}
	return dataToDomain(&data)
}

// List returns items matching the equality filters, oldest first.
func (r *ProductRepo) List(ctx context.Context, q *contracts.ProductQuery) ([]*domain.Product, error) {
	stmt := listStatement(q)

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var products []*domain.Product
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate products: %w", err)
		}

		var data m_product.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse product: %w", err)
		}
		p, err := dataToDomain(&data)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// listStatement builds the catalog query. created_at then product_id gives
// a stable input order for the in-memory sort.
func listStatement(q *contracts.ProductQuery) spanner.Statement {
	if q == nil {
		q = &contracts.ProductQuery{}
	}
	b := query.From(m_product.TableName).
		Select(m_product.Columns...).
		WhereIf(q.Category != "", query.Eq(m_product.Category, q.Category)).
		WhereIf(q.Type != "", query.Eq(m_product.Type, q.Type)).
		WhereIf(q.Metal != "", query.Eq(m_product.Metal, q.Metal)).
		WhereIf(q.Karat != "", query.Eq(m_product.Karat, q.Karat)).
		WhereIf(q.Purity != "", query.Eq(m_product.Purity, q.Purity)).
		WhereIf(!q.CreatedAfter.IsZero(), query.Gte(m_product.CreatedAt, q.CreatedAfter)).
		OrderBy(m_product.CreatedAt, query.Asc).
		OrderBy(m_product.ProductID, query.Asc)
	if q.Limit > 0 {
		b = b.Limit(q.Limit)
	}
	return b.Build()
}

// domainToData converts a domain Product to database Data.
func domainToData(p *domain.Product) (*m_product.Data, error) {
	weightNum, weightDen, err := ratColumns("weight", p.WeightGrams())
	if err != nil {
		return nil, err
	}
	makingNum, makingDen, err := moneyColumns("making charge", p.MakingCharge())
	if err != nil {
		return nil, err
	}
	rateNum, rateDen, err := nullMoneyColumns("stored rate", p.StoredRate())
	if err != nil {
		return nil, err
	}

	return &m_product.Data{
		ProductID:               p.ID(),
		Name:                    p.Name(),
		Description:             nullString(p.Description()),
		Category:                p.Category(),
		Type:                    p.Type(),
		Metal:                   string(p.Metal()),
		Karat:                   nullString(p.Karat()),
		Purity:                  nullString(p.Purity()),
		WeightNumerator:         weightNum,
		WeightDenominator:       weightDen,
		MakingChargeNumerator:   makingNum,
		MakingChargeDenominator: makingDen,
		StoredRateNumerator:     rateNum,
		StoredRateDenominator:   rateDen,
		Version:                 p.Version(),
		CreatedAt:               p.CreatedAt(),
		UpdatedAt:               p.UpdatedAt(),
	}, nil
}

// dataToDomain converts database Data to a domain Product.
func dataToDomain(data *m_product.Data) (*domain.Product, error) {
	weight, err := ratFromColumns("weight", data.WeightNumerator, data.WeightDenominator)
	if err != nil {
		return nil, err
	}
	making, err := moneyFromColumns("making charge", data.MakingChargeNumerator, data.MakingChargeDenominator)
	if err != nil {
		return nil, err
	}
	stored, err := nullMoneyFromColumns("stored rate", data.StoredRateNumerator, data.StoredRateDenominator)
	if err != nil {
		return nil, err
	}

	return domain.ReconstructProduct(
		data.ProductID,
		domain.ProductAttributes{
			Name:         data.Name,
			Description:  data.Description.StringVal,
			Category:     data.Category,
			Type:         data.Type,
			Metal:        domain.ParseMetal(data.Metal),
			Karat:        data.Karat.StringVal,
			Purity:       data.Purity.StringVal,
			WeightGrams:  weight,
			MakingCharge: making,
			StoredRate:   stored,
		},
		data.Version,
		data.CreatedAt,
		data.UpdatedAt,
	), nil
}
