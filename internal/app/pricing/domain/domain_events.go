package domain

import "time"

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// Amounts are carried as decimal strings so payloads stay exact.

// ProductCreatedEvent is emitted when a jewelry item is added.
type ProductCreatedEvent struct {
	ProductID    string
	Name         string
	Category     string
	Metal        string
	Karat        string
	Purity       string
	WeightGrams  string
	MakingCharge string
	StoredRate   string
	CreatedAt    time.Time
}

func (e *ProductCreatedEvent) EventType() string   { return "product.created" }
func (e *ProductCreatedEvent) AggregateID() string { return e.ProductID }

// ProductUpdatedEvent is emitted when item attributes change.
type ProductUpdatedEvent struct {
	ProductID     string
	ChangedFields []string
	MakingCharge  string
	UpdatedAt     time.Time
}

func (e *ProductUpdatedEvent) EventType() string   { return "product.updated" }
func (e *ProductUpdatedEvent) AggregateID() string { return e.ProductID }

// ProductDeletedEvent is emitted when an item is removed.
type ProductDeletedEvent struct {
	ProductID string
	DeletedAt time.Time
}

func (e *ProductDeletedEvent) EventType() string   { return "product.deleted" }
func (e *ProductDeletedEvent) AggregateID() string { return e.ProductID }

// OfferUpsertedEvent is emitted when an offer is created or replaced.
type OfferUpsertedEvent struct {
	ProductID              string
	DiscountPercent        int64
	OriginalMakingCharge   string
	DiscountedMakingCharge string
	Timestamp              time.Time
}

func (e *OfferUpsertedEvent) EventType() string   { return "offer.upserted" }
func (e *OfferUpsertedEvent) AggregateID() string { return e.ProductID }

// OfferRemovedEvent is emitted when an offer is deleted.
type OfferRemovedEvent struct {
	ProductID string
	Timestamp time.Time
}

func (e *OfferRemovedEvent) EventType() string   { return "offer.removed" }
func (e *OfferRemovedEvent) AggregateID() string { return e.ProductID }

// RatesUpdatedEvent is emitted when an admin changes market rates.
// Aggregate id is the constant "metal_rates".
type RatesUpdatedEvent struct {
	Gold      string
	Silver    string
	ChangedBy string
	Timestamp time.Time
}

// RatesAggregateID identifies the rate table in the outbox.
const RatesAggregateID = "metal_rates"

func (e *RatesUpdatedEvent) EventType() string   { return "rates.updated" }
func (e *RatesUpdatedEvent) AggregateID() string { return RatesAggregateID }
