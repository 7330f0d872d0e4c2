package domain

import (
	"math/big"
	"time"
)

// ProductAttributes carries the physical and catalog attributes of a jewelry item.
type ProductAttributes struct {
	Name         string
	Description  string
	Category     string
	Type         string
	Metal        Metal
	Karat        string
	Purity       string
	WeightGrams  *big.Rat
	MakingCharge *Money
	// StoredRate is the per-unit price for materials without a market rate. For
	// gold and silver it is recorded at creation for reference and never priced from.
	StoredRate *Money
}

// Product is a jewelry item as seen by the pricing core.
type Product struct {
	id           string
	name         string
	description  string
	category     string
	productType  string
	metal        Metal
	karat        string
	purity       string
	weight       *big.Rat
	makingCharge *Money
	storedRate   *Money
	version      int64
	createdAt    time.Time
	updatedAt    time.Time

	changes *ChangeTracker
	events  []DomainEvent
}

// NewProduct creates a new Product aggregate (for creation).
func NewProduct(id string, attrs ProductAttributes, now time.Time) (*Product, error) {
	if err := validateAttributes(attrs); err != nil {
		return nil, err
	}

	p := &Product{
		id:           id,
		name:         attrs.Name,
		description:  attrs.Description,
		category:     attrs.Category,
		productType:  attrs.Type,
		metal:        attrs.Metal,
		karat:        attrs.Karat,
		purity:       attrs.Purity,
		weight:       copyRat(attrs.WeightGrams),
		makingCharge: copyMoney(attrs.MakingCharge),
		storedRate:   copyMoneyOrNil(attrs.StoredRate),
		createdAt:    now,
		updatedAt:    now,
		changes:      NewChangeTracker(),
		events:       make([]DomainEvent, 0),
	}

	p.recordEvent(&ProductCreatedEvent{
		ProductID:    p.id,
		Name:         p.name,
		Category:     p.category,
		Metal:        string(p.metal),
		Karat:        p.karat,
		Purity:       p.purity,
		WeightGrams:  p.weight.FloatString(3),
		MakingCharge: p.makingCharge.String(),
		StoredRate:   moneyString(p.storedRate),
		CreatedAt:    now,
	})

	return p, nil
}

// ReconstructProduct reconstitutes a Product from storage.
func ReconstructProduct(id string, attrs ProductAttributes, version int64, createdAt, updatedAt time.Time) *Product {
	return &Product{
		id:           id,
		name:         attrs.Name,
		description:  attrs.Description,
		category:     attrs.Category,
		productType:  attrs.Type,
		metal:        attrs.Metal,
		karat:        attrs.Karat,
		purity:       attrs.Purity,
		weight:       copyRat(attrs.WeightGrams),
		makingCharge: copyMoney(attrs.MakingCharge),
		storedRate:   copyMoneyOrNil(attrs.StoredRate),
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		changes:      NewChangeTracker(),
		events:       make([]DomainEvent, 0),
	}
}

// Getters
func (p *Product) ID() string                  { return p.id }
func (p *Product) Name() string                { return p.name }
func (p *Product) Description() string         { return p.description }
func (p *Product) Category() string            { return p.category }
func (p *Product) Type() string                { return p.productType }
func (p *Product) Metal() Metal                { return p.metal }
func (p *Product) Karat() string               { return p.karat }
func (p *Product) Purity() string              { return p.purity }
func (p *Product) WeightGrams() *big.Rat       { return copyRat(p.weight) }
func (p *Product) MakingCharge() *Money        { return p.makingCharge.Copy() }
func (p *Product) StoredRate() *Money          { return copyMoneyOrNil(p.storedRate) }
func (p *Product) Version() int64              { return p.version }
func (p *Product) CreatedAt() time.Time        { return p.createdAt }
func (p *Product) UpdatedAt() time.Time        { return p.updatedAt }
func (p *Product) Changes() *ChangeTracker     { return p.changes }
func (p *Product) DomainEvents() []DomainEvent { return p.events }

// Attributes returns a copy of the product's attributes.
func (p *Product) Attributes() ProductAttributes {
	return ProductAttributes{
		Name:         p.name,
		Description:  p.description,
		Category:     p.category,
		Type:         p.productType,
		Metal:        p.metal,
		Karat:        p.karat,
		Purity:       p.purity,
		WeightGrams:  p.WeightGrams(),
		MakingCharge: p.MakingCharge(),
		StoredRate:   p.StoredRate(),
	}
}

// SetName updates the product name.
func (p *Product) SetName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	p.name = name
	p.changes.MarkDirty(FieldName)
	return nil
}

// SetDescription updates the free-text description.
func (p *Product) SetDescription(description string) {
	p.description = description
	p.changes.MarkDirty(FieldDescription)
}

// SetType updates the product type (Ring, Necklace, ...).
func (p *Product) SetType(productType string) {
	p.productType = productType
	p.changes.MarkDirty(FieldType)
}

// SetKarat updates the gold karat tag.
func (p *Product) SetKarat(karat string) error {
	if err := ValidateTags(karat, ""); err != nil {
		return err
	}
	p.karat = karat
	p.changes.MarkDirty(FieldKarat)
	return nil
}

// SetPurity updates the silver purity tag.
func (p *Product) SetPurity(purity string) error {
	if err := ValidateTags("", purity); err != nil {
		return err
	}
	p.purity = purity
	p.changes.MarkDirty(FieldPurity)
	return nil
}

// SetWeight updates the weight in grams.
func (p *Product) SetWeight(weight *big.Rat) error {
	if weight == nil || weight.Sign() < 0 {
		return ErrInvalidWeight
	}
	p.weight = copyRat(weight)
	p.changes.MarkDirty(FieldWeight)
	return nil
}

// SetMakingCharge updates the flat making charge.
// Existing offers keep the discounted charge computed when they were created.
func (p *Product) SetMakingCharge(charge *Money) error {
	if charge == nil || charge.IsNegative() {
		return ErrInvalidMakingCharge
	}
	p.makingCharge = charge.Copy()
	p.changes.MarkDirty(FieldMakingCharge)
	return nil
}

// SetStoredRate updates the stored rate. nil clears it, which is only
// allowed for metals with a market rate.
func (p *Product) SetStoredRate(rate *Money) error {
	if rate == nil && !p.metal.HasMarketRate() {
		return ErrMissingStoredRate
	}
	if rate != nil && rate.IsNegative() {
		return ErrInvalidRate
	}
	p.storedRate = copyMoneyOrNil(rate)
	p.changes.MarkDirty(FieldStoredRate)
	return nil
}

// MarkUpdated stamps the update time and records a single update event
// covering every dirty field.
func (p *Product) MarkUpdated(now time.Time) {
	if !p.changes.HasChanges() {
		return
	}
	p.updatedAt = now
	p.recordEvent(&ProductUpdatedEvent{
		ProductID:     p.id,
		ChangedFields: p.changes.DirtyFields(),
		MakingCharge:  p.makingCharge.String(),
		UpdatedAt:     now,
	})
}

// MarkDeleted records the deletion event.
func (p *Product) MarkDeleted(now time.Time) {
	p.recordEvent(&ProductDeletedEvent{
		ProductID: p.id,
		DeletedAt: now,
	})
}

// recordEvent adds a domain event to the list of events.
func (p *Product) recordEvent(event DomainEvent) {
	p.events = append(p.events, event)
}

// ClearEvents clears all recorded domain events (called after publishing).
func (p *Product) ClearEvents() {
	p.events = make([]DomainEvent, 0)
}

func validateAttributes(attrs ProductAttributes) error {
	if attrs.Name == "" {
		return ErrEmptyName
	}
	if attrs.Category == "" {
		return ErrInvalidCategory
	}
	if attrs.WeightGrams == nil || attrs.WeightGrams.Sign() < 0 {
		return ErrInvalidWeight
	}
	if attrs.MakingCharge == nil || attrs.MakingCharge.IsNegative() {
		return ErrInvalidMakingCharge
	}
	if attrs.StoredRate != nil && attrs.StoredRate.IsNegative() {
		return ErrInvalidRate
	}
	if attrs.StoredRate == nil && !attrs.Metal.HasMarketRate() {
		return ErrMissingStoredRate
	}
	return ValidateTags(attrs.Karat, attrs.Purity)
}

func copyRat(r *big.Rat) *big.Rat {
	if r == nil {
		return new(big.Rat)
	}
	return new(big.Rat).Set(r)
}

func copyMoney(m *Money) *Money {
	if m == nil {
		return ZeroMoney()
	}
	return m.Copy()
}

func copyMoneyOrNil(m *Money) *Money {
	if m == nil {
		return nil
	}
	return m.Copy()
}

func moneyString(m *Money) string {
	if m == nil {
		return ""
	}
	return m.String()
}
