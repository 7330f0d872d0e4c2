// Package fakes provides in-memory repositories for usecase and transport tests.
//
// Repositories hand out real Spanner mutations and remember what each one
// would do; the Committer performs those effects only when a plan is
// applied, so an aborted plan leaves the store untouched.
package fakes

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/jewel-pricing-service/internal/models/m_outbox"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/committer"
)

// Store is the shared in-memory state behind every fake.
type Store struct {
	mu sync.Mutex

	products map[string]*domain.Product
	offers   map[string]*domain.Offer
	rates    map[domain.Metal]*domain.Money
	history  []*contracts.RateHistoryRecord
	outbox   []*outboxRow

	effects map[*spanner.Mutation]func()
	plans   []*committer.CommitPlan

	// ApplyErr, when set, fails the next Apply and is then cleared.
	ApplyErr error
	// LoadErr fails every LoadRates call while set.
	LoadErr error

	Now time.Time
}

type outboxRow struct {
	event  contracts.OutboxEvent
	status string
	errMsg string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		products: make(map[string]*domain.Product),
		offers:   make(map[string]*domain.Offer),
		rates:    make(map[domain.Metal]*domain.Money),
		effects:  make(map[*spanner.Mutation]func()),
		Now:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (s *Store) record(mut *spanner.Mutation, effect func()) *spanner.Mutation {
	s.mu.Lock()
	s.effects[mut] = effect
	s.mu.Unlock()
	return mut
}

// Committer applies plans against the store.
func (s *Store) Committer() *Committer { return &Committer{s: s} }

// Committer is an in-memory contracts.Committer.
type Committer struct{ s *Store }

var _ contracts.Committer = (*Committer)(nil)

// Apply runs every recorded effect in the plan, or none on failure.
func (c *Committer) Apply(_ context.Context, plan *committer.CommitPlan) error {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ApplyErr != nil {
		err := s.ApplyErr
		s.ApplyErr = nil
		return err
	}
	for _, g := range plan.Guards() {
		if err := s.checkGuardLocked(g); err != nil {
			return err
		}
	}
	effects := make([]func(), 0, plan.Count())
	for _, mut := range plan.Mutations() {
		effect, ok := s.effects[mut]
		if !ok {
			return fmt.Errorf("fakes: mutation not issued by a fake repository")
		}
		effects = append(effects, effect)
	}
	for i, effect := range effects {
		effect()
		delete(s.effects, plan.Mutations()[i])
	}
	s.plans = append(s.plans, plan)
	return nil
}

func (s *Store) checkGuardLocked(g committer.VersionGuard) error {
	id := fmt.Sprint(g.Key[0])
	p, ok := s.products[id]
	if !ok {
		return fmt.Errorf("%w: %s no longer exists", committer.ErrVersionConflict, id)
	}
	if p.Version() != g.Expected {
		return fmt.Errorf("%w: expected version %d, got %d", committer.ErrVersionConflict, g.Expected, p.Version())
	}
	return nil
}

// Plans returns every successfully applied plan.
func (s *Store) Plans() []*committer.CommitPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*committer.CommitPlan(nil), s.plans...)
}

// PutProduct seeds a committed product.
func (s *Store) PutProduct(p *domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID()] = clone(p, p.Version())
}

// PutOffer seeds a committed offer.
func (s *Store) PutOffer(o *domain.Offer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offers[o.ProductID()] = o
}

// PutRate seeds a committed rate.
func (s *Store) PutRate(metal domain.Metal, rate *domain.Money) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[metal] = rate.Copy()
}

// Product returns the committed product, if any.
func (s *Store) Product(id string) (*domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, false
	}
	return clone(p, p.Version()), true
}

// Offer returns the committed offer, if any.
func (s *Store) Offer(productID string) (*domain.Offer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.offers[productID]
	return o, ok
}

// History returns committed rate history, oldest first.
func (s *Store) History() []*contracts.RateHistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*contracts.RateHistoryRecord(nil), s.history...)
}

// EventTypes returns committed outbox event types in insertion order.
func (s *Store) EventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.outbox))
	for i, row := range s.outbox {
		out[i] = row.event.EventType
	}
	return out
}

// EventStatus returns the status of an outbox event.
func (s *Store) EventStatus(eventID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.outbox {
		if row.event.EventID == eventID {
			return row.status
		}
	}
	return ""
}

func clone(p *domain.Product, version int64) *domain.Product {
	return domain.ReconstructProduct(p.ID(), p.Attributes(), version, p.CreatedAt(), p.UpdatedAt())
}

// ProductRepo returns a contracts.ProductRepository over the store.
func (s *Store) ProductRepo() *ProductRepo { return &ProductRepo{s: s} }

// ProductRepo is an in-memory contracts.ProductRepository.
type ProductRepo struct{ s *Store }

var _ contracts.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) InsertMut(p *domain.Product) (*spanner.Mutation, error) {
	snapshot := clone(p, 0)
	return r.s.record(spanner.Delete("jewellery_items", spanner.Key{p.ID()}), func() {
		r.s.products[p.ID()] = snapshot
	}), nil
}

func (r *ProductRepo) UpdateMut(p *domain.Product) (*spanner.Mutation, error) {
	if !p.Changes().HasChanges() {
		return nil, nil
	}
	snapshot := clone(p, p.Version()+1)
	return r.s.record(spanner.Delete("jewellery_items", spanner.Key{p.ID()}), func() {
		r.s.products[p.ID()] = snapshot
	}), nil
}

func (r *ProductRepo) VersionGuard(p *domain.Product) committer.VersionGuard {
	return committer.VersionGuard{
		Table:    "jewellery_items",
		Key:      spanner.Key{p.ID()},
		Column:   "version",
		Expected: p.Version(),
	}
}

func (r *ProductRepo) DeleteMut(productID string) *spanner.Mutation {
	return r.s.record(spanner.Delete("jewellery_items", spanner.Key{productID}), func() {
		delete(r.s.products, productID)
	})
}

func (r *ProductRepo) GetByID(_ context.Context, productID string) (*domain.Product, error) {
	p, ok := r.s.Product(productID)
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// List returns matching products ordered by creation time then id.
func (r *ProductRepo) List(_ context.Context, q *contracts.ProductQuery) ([]*domain.Product, error) {
	if q == nil {
		q = &contracts.ProductQuery{}
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*domain.Product
	for _, p := range r.s.products {
		if (q.Category != "" && p.Category() != q.Category) ||
			(q.Type != "" && p.Type() != q.Type) ||
			(q.Metal != "" && string(p.Metal()) != q.Metal) ||
			(q.Karat != "" && p.Karat() != q.Karat) ||
			(q.Purity != "" && p.Purity() != q.Purity) ||
			(!q.CreatedAfter.IsZero() && p.CreatedAt().Before(q.CreatedAfter)) {
			continue
		}
		out = append(out, clone(p, p.Version()))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].CreatedAt().Before(out[j].CreatedAt())
		}
		return out[i].ID() < out[j].ID()
	})
	if q.Limit > 0 && int64(len(out)) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// OfferRepo returns a contracts.OfferRepository over the store.
func (s *Store) OfferRepo() *OfferRepo { return &OfferRepo{s: s} }

// OfferRepo is an in-memory contracts.OfferRepository.
type OfferRepo struct{ s *Store }

var _ contracts.OfferRepository = (*OfferRepo)(nil)

func (r *OfferRepo) UpsertMut(o *domain.Offer) (*spanner.Mutation, error) {
	return r.s.record(spanner.Delete("offers", spanner.Key{o.ProductID()}), func() {
		r.s.offers[o.ProductID()] = o
	}), nil
}

func (r *OfferRepo) DeleteMut(productID string) *spanner.Mutation {
	return r.s.record(spanner.Delete("offers", spanner.Key{productID}), func() {
		delete(r.s.offers, productID)
	})
}

func (r *OfferRepo) GetByProductID(_ context.Context, productID string) (*domain.Offer, error) {
	o, ok := r.s.Offer(productID)
	if !ok {
		return nil, domain.ErrOfferNotFound
	}
	return o, nil
}

func (r *OfferRepo) ListByProductIDs(_ context.Context, ids []string) (map[string]*domain.Offer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]*domain.Offer)
	for _, id := range ids {
		if o, ok := r.s.offers[id]; ok {
			out[id] = o
		}
	}
	return out, nil
}

// RateRepo returns a contracts.RateRepository over the store.
func (s *Store) RateRepo() *RateRepo { return &RateRepo{s: s} }

// RateRepo is an in-memory contracts.RateRepository.
type RateRepo struct{ s *Store }

var _ contracts.RateRepository = (*RateRepo)(nil)

func (r *RateRepo) UpsertMut(metal domain.Metal, rate *domain.Money, _ string) (*spanner.Mutation, error) {
	if !metal.HasMarketRate() {
		return nil, domain.ErrUnsupportedMetal
	}
	v := rate.Copy()
	return r.s.record(spanner.Delete("metal_rates", spanner.Key{string(metal)}), func() {
		r.s.rates[metal] = v
	}), nil
}

func (r *RateRepo) LoadRates(context.Context) (domain.RateSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.LoadErr != nil {
		return domain.RateSnapshot{}, r.s.LoadErr
	}
	return domain.NewRateSnapshot(r.s.rates[domain.MetalGold], r.s.rates[domain.MetalSilver], r.s.Now), nil
}

// RateHistoryRepo returns a contracts.RateHistoryRepository over the store.
func (s *Store) RateHistoryRepo() *RateHistoryRepo { return &RateHistoryRepo{s: s} }

// RateHistoryRepo is an in-memory contracts.RateHistoryRepository.
type RateHistoryRepo struct{ s *Store }

var _ contracts.RateHistoryRepository = (*RateHistoryRepo)(nil)

func (r *RateHistoryRepo) InsertMut(id string, metal domain.Metal, oldRate, newRate *domain.Money, by string, at time.Time) (*spanner.Mutation, error) {
	rec := &contracts.RateHistoryRecord{HistoryID: id, Metal: metal, OldRate: oldRate, NewRate: newRate, ChangedBy: by, ChangedAt: at}
	return r.s.record(spanner.Delete("rate_history", spanner.Key{id}), func() {
		r.s.history = append(r.s.history, rec)
	}), nil
}

func (r *RateHistoryRepo) ListByMetal(_ context.Context, metal domain.Metal, limit int64) ([]*contracts.RateHistoryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*contracts.RateHistoryRecord
	for i := len(r.s.history) - 1; i >= 0; i-- {
		if r.s.history[i].Metal == metal {
			out = append(out, r.s.history[i])
		}
		if limit > 0 && int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

// OutboxRepo returns a contracts.OutboxRepository over the store.
func (s *Store) OutboxRepo() *OutboxRepo { return &OutboxRepo{s: s} }

// OutboxRepo is an in-memory contracts.OutboxRepository and EventsReadModel.
type OutboxRepo struct{ s *Store }

var (
	_ contracts.OutboxRepository = (*OutboxRepo)(nil)
	_ contracts.EventsReadModel  = (*OutboxRepo)(nil)
)

func (r *OutboxRepo) InsertMut(ev *contracts.OutboxEvent) *spanner.Mutation {
	row := &outboxRow{event: *ev, status: m_outbox.StatusPending}
	return r.s.record(spanner.Delete("outbox_events", spanner.Key{ev.EventID}), func() {
		r.s.outbox = append(r.s.outbox, row)
	})
}

func (r *OutboxRepo) EnrichEvent(event domain.DomainEvent) (*contracts.OutboxEvent, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return &contracts.OutboxEvent{
		EventID:     uuid.New().String(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		Payload:     string(payload),
	}, nil
}

func (r *OutboxRepo) ListPending(_ context.Context, limit int64) ([]*contracts.OutboxEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*contracts.OutboxEvent
	for _, row := range r.s.outbox {
		if row.status != m_outbox.StatusPending {
			continue
		}
		ev := row.event
		out = append(out, &ev)
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (r *OutboxRepo) MarkPublishedMut(eventID string) *spanner.Mutation {
	return r.s.record(spanner.Delete("outbox_events", spanner.Key{eventID}), func() {
		for _, row := range r.s.outbox {
			if row.event.EventID == eventID {
				row.status = m_outbox.StatusPublished
			}
		}
	})
}

func (r *OutboxRepo) MarkRetryMut(ev *contracts.OutboxEvent, cause error) *spanner.Mutation {
	count := ev.RetryCount + 1
	return r.s.record(spanner.Delete("outbox_events", spanner.Key{ev.EventID}), func() {
		for _, row := range r.s.outbox {
			if row.event.EventID == ev.EventID {
				row.event.RetryCount = count
				row.status = m_outbox.RetryStatus(count)
				row.errMsg = cause.Error()
			}
		}
	})
}

// ListEvents lists committed outbox rows, newest first.
func (r *OutboxRepo) ListEvents(_ context.Context, f *contracts.EventFilter) ([]*m_outbox.Data, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*m_outbox.Data
	for i := len(r.s.outbox) - 1; i >= 0; i-- {
		row := r.s.outbox[i]
		if f.EventType != nil && row.event.EventType != *f.EventType {
			continue
		}
		if f.AggregateID != nil && row.event.AggregateID != *f.AggregateID {
			continue
		}
		if f.Status != nil && row.status != *f.Status {
			continue
		}
		out = append(out, &m_outbox.Data{
			EventID:     row.event.EventID,
			EventType:   row.event.EventType,
			AggregateID: row.event.AggregateID,
			Payload:     spanner.NullJSON{Value: json.RawMessage(row.event.Payload), Valid: true},
			Status:      row.status,
			RetryCount:  row.event.RetryCount,
		})
		if f.Limit > 0 && int64(len(out)) == f.Limit {
			break
		}
	}
	return out, nil
}
