package registry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/domain"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// fakeSource returns gold=n, silver=n on the n-th successful load.
type fakeSource struct {
	mu   sync.Mutex
	n    int64
	fail error
}

func (f *fakeSource) LoadRates(context.Context) (domain.RateSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return domain.RateSnapshot{}, f.fail
	}
	f.n++
	v := domain.NewMoneyFromInt(f.n)
	return domain.NewRateSnapshot(v, v, t0), nil
}

func (f *fakeSource) setFail(err error) {
	f.mu.Lock()
	f.fail = err
	f.mu.Unlock()
}

// fixedSource always returns the same rates.
type fixedSource struct{ snap domain.RateSnapshot }

func (f fixedSource) LoadRates(context.Context) (domain.RateSnapshot, error) { return f.snap, nil }

func TestRegistry_InitialSnapshotIsEmpty(t *testing.T) {
	r := New(&fakeSource{}, nil)

	assert.False(t, r.Rates().IsLoaded())
	assert.Nil(t, r.Rates().Gold())
	assert.Nil(t, r.Rates().Silver())
}

func TestRegistry_Refresh(t *testing.T) {
	src := &fakeSource{}
	r := New(src, nil)

	require.NoError(t, r.Refresh(context.Background()))
	assert.True(t, r.Rates().Gold().Equals(domain.NewMoneyFromInt(1)))

	t.Run("failure keeps cached snapshot", func(t *testing.T) {
		src.setFail(errors.New("connection reset"))
		defer src.setFail(nil)

		err := r.Refresh(context.Background())

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrRateFetch)
		var rfe *domain.RateFetchError
		require.True(t, errors.As(err, &rfe))
		assert.EqualError(t, rfe.Err, "connection reset")
		assert.True(t, r.Rates().Gold().Equals(domain.NewMoneyFromInt(1)))
	})
}

func TestRegistry_SubscribeReceivesReplacementsInOrder(t *testing.T) {
	r := New(&fakeSource{}, nil)
	var got []int64
	unsubscribe := r.Subscribe(func(s domain.RateSnapshot) {
		got = append(got, s.Gold().Round())
	})
	defer unsubscribe()

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Refresh(context.Background()))
	}

	assert.Equal(t, []int64{1, 2, 3}, got)
}

func TestRegistry_UnchangedRatesDoNotNotify(t *testing.T) {
	snap := domain.NewRateSnapshot(domain.NewMoneyFromInt(6000), domain.NewMoneyFromInt(80), t0)
	r := New(fixedSource{snap: snap}, nil)
	calls := 0
	r.Subscribe(func(domain.RateSnapshot) { calls++ })

	require.NoError(t, r.Refresh(context.Background()))
	require.NoError(t, r.Refresh(context.Background()))

	assert.Equal(t, 1, calls)
}

func TestRegistry_Unsubscribe(t *testing.T) {
	r := New(&fakeSource{}, nil)

	t.Run("stops delivery", func(t *testing.T) {
		calls := 0
		unsubscribe := r.Subscribe(func(domain.RateSnapshot) { calls++ })
		require.NoError(t, r.Refresh(context.Background()))

		unsubscribe()
		unsubscribe() // idempotent
		require.NoError(t, r.Refresh(context.Background()))

		assert.Equal(t, 1, calls)
	})

	t.Run("from inside the callback", func(t *testing.T) {
		calls := 0
		var unsubscribe func()
		unsubscribe = r.Subscribe(func(domain.RateSnapshot) {
			calls++
			unsubscribe()
		})

		require.NoError(t, r.Refresh(context.Background()))
		require.NoError(t, r.Refresh(context.Background()))

		assert.Equal(t, 1, calls)
	})

	t.Run("one subscriber leaving does not affect others", func(t *testing.T) {
		a, b := 0, 0
		unsubA := r.Subscribe(func(domain.RateSnapshot) { a++ })
		unsubB := r.Subscribe(func(domain.RateSnapshot) { b++ })
		defer unsubB()

		unsubA()
		require.NoError(t, r.Refresh(context.Background()))

		assert.Equal(t, 0, a)
		assert.Equal(t, 1, b)
	})
}

// A delivery racing an unsubscribe either starts before unsubscribe returns
// or not at all.
func TestRegistry_NoDeliveryStartsAfterUnsubscribeReturns(t *testing.T) {
	for i := 0; i < 200; i++ {
		r := New(&fakeSource{}, nil)
		var after atomic.Bool
		var late atomic.Int32
		unsubscribe := r.Subscribe(func(domain.RateSnapshot) {
			if after.Load() {
				late.Add(1)
			}
		})

		stop := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_ = r.Refresh(context.Background())
				}
			}
		}()

		unsubscribe()
		after.Store(true)
		close(stop)
		wg.Wait()

		require.Zero(t, late.Load(), "iteration %d", i)
	}
}

func TestRegistry_UnsubscribeFromCallbackWhileOthersRefresh(t *testing.T) {
	r := New(&fakeSource{}, nil)
	var unsubscribe func()
	var calls atomic.Int32
	unsubscribe = r.Subscribe(func(domain.RateSnapshot) {
		calls.Add(1)
		unsubscribe()
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = r.Refresh(context.Background())
			}()
		}
		wg.Wait()
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("unsubscribe from callback deadlocked")
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestRegistry_RefreshFromCallbackDoesNotDeadlock(t *testing.T) {
	r := New(&fakeSource{}, nil)
	var got []int64
	r.Subscribe(func(s domain.RateSnapshot) {
		got = append(got, s.Gold().Round())
		if len(got) == 1 {
			require.NoError(t, r.Refresh(context.Background()))
		}
	})

	require.NoError(t, r.Refresh(context.Background()))

	assert.Equal(t, []int64{1, 2}, got)
}

func TestRegistry_PanickingSubscriberIsIsolated(t *testing.T) {
	r := New(&fakeSource{}, nil)
	r.Subscribe(func(domain.RateSnapshot) { panic("boom") })
	calls := 0
	r.Subscribe(func(domain.RateSnapshot) { calls++ })

	require.NoError(t, r.Refresh(context.Background()))
	require.NoError(t, r.Refresh(context.Background()))

	assert.Equal(t, 2, calls)
}

// Every reader and subscriber must see gold and silver from the same load.
func TestRegistry_ReplacementIsAtomic(t *testing.T) {
	r := New(&fakeSource{}, nil)
	var torn atomic.Int64
	var delivered atomic.Int64

	check := func(s domain.RateSnapshot) {
		g, sv := s.Gold(), s.Silver()
		if (g == nil) != (sv == nil) || (g != nil && !g.Equals(sv)) {
			torn.Add(1)
		}
	}
	r.Subscribe(func(s domain.RateSnapshot) {
		delivered.Add(1)
		check(s)
	})

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				check(r.Rates())
			}
		}()
	}

	var writers sync.WaitGroup
	for i := 0; i < 4; i++ {
		writers.Add(1)
		go func() {
			defer writers.Done()
			for j := 0; j < 200; j++ {
				_ = r.Refresh(context.Background())
			}
		}()
	}
	writers.Wait()
	cancel()
	wg.Wait()

	assert.Zero(t, torn.Load())
	assert.Equal(t, int64(800), delivered.Load())
	assert.True(t, r.Rates().Gold().Equals(domain.NewMoneyFromInt(800)))
}

type chanNotifier struct {
	ch chan struct{}
}

func (n *chanNotifier) Publish(context.Context) error {
	n.ch <- struct{}{}
	return nil
}

func (n *chanNotifier) Listen(ctx context.Context, fn func()) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-n.ch:
			fn()
		}
	}
}

func TestRegistry_Watch(t *testing.T) {
	r := New(&fakeSource{}, nil)
	n := &chanNotifier{ch: make(chan struct{})}
	updates := make(chan domain.RateSnapshot, 4)
	r.Subscribe(func(s domain.RateSnapshot) { updates <- s })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Watch(ctx, n) }()

	require.NoError(t, n.Publish(ctx))
	select {
	case s := <-updates:
		assert.True(t, s.Gold().Equals(domain.NewMoneyFromInt(1)))
	case <-time.After(time.Second):
		t.Fatal("no refresh after notification")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop")
	}
}
