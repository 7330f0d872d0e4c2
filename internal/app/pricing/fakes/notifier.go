package fakes

import (
	"context"
	"sync"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
)

// Notifier counts publishes. Listen is a no-op that waits for ctx.
type Notifier struct {
	mu         sync.Mutex
	publishes  int
	PublishErr error
}

var _ contracts.RateChangeNotifier = (*Notifier)(nil)

func (n *Notifier) Publish(context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.PublishErr != nil {
		return n.PublishErr
	}
	n.publishes++
	return nil
}

func (n *Notifier) Listen(ctx context.Context, _ func()) error {
	<-ctx.Done()
	return ctx.Err()
}

// Publishes returns how many notifications were sent.
func (n *Notifier) Publishes() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.publishes
}

// Publisher records events handed to the broker.
type Publisher struct {
	mu        sync.Mutex
	published []*contracts.OutboxEvent
	// FailFor fails Publish for any event with this id.
	FailFor string
	Err     error
}

var _ contracts.EventPublisher = (*Publisher)(nil)

func (p *Publisher) Publish(_ context.Context, events ...*contracts.OutboxEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ev := range events {
		if ev.EventID == p.FailFor {
			return p.Err
		}
	}
	p.published = append(p.published, events...)
	return nil
}

// Published returns every delivered event.
func (p *Publisher) Published() []*contracts.OutboxEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*contracts.OutboxEvent(nil), p.published...)
}
