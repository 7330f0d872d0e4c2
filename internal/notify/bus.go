package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/asaskevich/EventBus"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
)

// BusNotifier signals listeners in the same process through an event bus.
// Suitable for a single instance; use RedisNotifier when several run.
type BusNotifier struct {
	bus     EventBus.Bus
	handler func()

	mu        sync.Mutex
	listeners map[int]chan struct{}
	nextID    int
}

var _ contracts.RateChangeNotifier = (*BusNotifier)(nil)

// NewBusNotifier subscribes to Topic on bus.
func NewBusNotifier(bus EventBus.Bus) (*BusNotifier, error) {
	n := &BusNotifier{
		bus:       bus,
		listeners: make(map[int]chan struct{}),
	}
	n.handler = func() { n.dispatch() }
	if err := bus.Subscribe(Topic, n.handler); err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", Topic, err)
	}
	return n, nil
}

// Publish never blocks on listeners.
func (n *BusNotifier) Publish(context.Context) error {
	n.bus.Publish(Topic)
	return nil
}

// Listen calls fn for each notification until ctx is done.
func (n *BusNotifier) Listen(ctx context.Context, fn func()) error {
	ch := make(chan struct{}, 1)

	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = ch
	n.mu.Unlock()

	defer func() {
		n.mu.Lock()
		delete(n.listeners, id)
		n.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
			fn()
		}
	}
}

// Close detaches from the bus.
func (n *BusNotifier) Close() error {
	return n.bus.Unsubscribe(Topic, n.handler)
}

func (n *BusNotifier) dispatch() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.listeners {
		signal(ch)
	}
}
