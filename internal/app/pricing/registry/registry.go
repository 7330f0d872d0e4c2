// Package registry holds the process-wide cache of market rates.
//
// One writer (Refresh) replaces the snapshot; any number of readers call
// Rates without blocking. Snapshots are immutable and swapped whole, so a
// reader never sees gold from one load and silver from another.
package registry

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
)

// Registry caches the latest RateSnapshot and fans out replacements to subscribers.
type Registry struct {
	source contracts.RateSource
	logger *zap.Logger

	current atomic.Pointer[domain.RateSnapshot]

	// refreshMu orders loads so an older read never replaces a newer one.
	refreshMu sync.Mutex

	mu       sync.Mutex
	subs     map[uint64]*subscription
	nextID   uint64
	pending  []*domain.RateSnapshot
	draining bool
}

type subscription struct {
	id     uint64
	fn     func(domain.RateSnapshot)
	closed atomic.Bool

	// mu is held from the closed check through the return of fn, so an
	// unsubscribe either lands before the check or waits for the call.
	mu sync.Mutex
	// inFn is set while fn runs; an unsubscribe that finds it set is either
	// the callback itself or concurrent with a call that already began.
	inFn atomic.Bool
}

// New creates a registry with both rates unset.
func New(source contracts.RateSource, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		source: source,
		logger: logger.Named("rate_registry"),
		subs:   make(map[uint64]*subscription),
	}
	empty := domain.EmptyRates()
	r.current.Store(&empty)
	return r
}

// Rates returns the cached snapshot. It never blocks on I/O.
func (r *Registry) Rates() domain.RateSnapshot {
	return *r.current.Load()
}

// Subscribe registers fn for every future snapshot replacement and returns
// a function that cancels the subscription.
//
// Deliveries are serialized and arrive in replacement order. After the
// returned function returns no new delivery to fn begins; it may be called
// from inside fn and calling it more than once is harmless.
func (r *Registry) Subscribe(fn func(domain.RateSnapshot)) (unsubscribe func()) {
	r.mu.Lock()
	r.nextID++
	sub := &subscription{id: r.nextID, fn: fn}
	r.subs[sub.id] = sub
	r.mu.Unlock()

	return func() {
		if sub.closed.Swap(true) {
			return
		}
		r.mu.Lock()
		delete(r.subs, sub.id)
		r.mu.Unlock()
		sub.waitIdle()
	}
}

// waitIdle returns once no delivery to s can still invoke fn. A delivery
// past its closed check but not yet inside fn is waited for; one already
// inside fn is not, which keeps unsubscribing from the callback deadlock free.
func (s *subscription) waitIdle() {
	if s.mu.TryLock() {
		s.mu.Unlock()
		return
	}
	if s.inFn.Load() {
		return
	}
	s.mu.Lock()
	s.mu.Unlock()
}

// Refresh reads both rates from the source and replaces the snapshot.
//
// On failure the cached snapshot is kept and a *domain.RateFetchError is
// returned. A load that yields the same rates as the cache is not a
// replacement and notifies nobody.
func (r *Registry) Refresh(ctx context.Context) error {
	r.refreshMu.Lock()
	snap, err := r.source.LoadRates(ctx)
	if err != nil {
		r.refreshMu.Unlock()
		r.logger.Warn("rate refresh failed, serving cached rates", zap.Error(err))
		return &domain.RateFetchError{Err: err}
	}
	drain := r.replace(snap)
	r.refreshMu.Unlock()

	if drain {
		r.drain()
	}
	return nil
}

// Watch refreshes on every change notification until ctx is done.
// Refresh failures are logged and do not stop the watch.
func (r *Registry) Watch(ctx context.Context, notifier contracts.RateChangeNotifier) error {
	r.logger.Info("watching for rate changes")
	err := notifier.Listen(ctx, func() {
		_ = r.Refresh(ctx)
	})
	r.logger.Info("rate watch stopped", zap.Error(err))
	return err
}

// replace swaps in snap and queues it for delivery. It reports whether the
// caller must drain the queue; false means another goroutine already is.
func (r *Registry) replace(snap domain.RateSnapshot) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current.Load().Equal(snap) {
		return false
	}
	next := &snap
	r.current.Store(next)
	r.pending = append(r.pending, next)
	r.logger.Info("rates replaced",
		zap.Stringer("gold", stringer(snap.Gold())),
		zap.Stringer("silver", stringer(snap.Silver())),
	)

	if r.draining {
		return false
	}
	r.draining = true
	return true
}

// drain delivers queued snapshots in order until the queue is empty.
func (r *Registry) drain() {
	r.mu.Lock()
	for len(r.pending) > 0 {
		s := r.pending[0]
		r.pending = r.pending[1:]
		subs := r.activeLocked()
		r.mu.Unlock()

		for _, sub := range subs {
			r.deliver(sub, *s)
		}

		r.mu.Lock()
	}
	r.draining = false
	r.mu.Unlock()
}

// activeLocked returns subscribers in subscription order. Caller holds r.mu.
func (r *Registry) activeLocked() []*subscription {
	out := make([]*subscription, 0, len(r.subs))
	for _, s := range r.subs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (r *Registry) deliver(sub *subscription, snap domain.RateSnapshot) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed.Load() {
		return
	}
	defer func() {
		sub.inFn.Store(false)
		if p := recover(); p != nil {
			r.logger.Error("rate subscriber panicked", zap.Uint64("subscriber", sub.id), zap.Any("panic", p))
		}
	}()
	sub.inFn.Store(true)
	sub.fn(snap)
}

type moneyStringer struct{ m *domain.Money }

func (s moneyStringer) String() string {
	if s.m == nil {
		return "unset"
	}
	return s.m.String()
}

func stringer(m *domain.Money) moneyStringer { return moneyStringer{m: m} }
