package contracts

import "context"

// RateChangeNotifier broadcasts "rates changed" to every running instance.
// Notifications carry no payload; listeners re-read the rate store.
type RateChangeNotifier interface {
	Publish(ctx context.Context) error

	// Listen calls fn once per notification until ctx is done, then
	// releases the subscription. It blocks and returns ctx.Err() on shutdown.
	Listen(ctx context.Context, fn func()) error
}

// EventPublisher delivers outbox events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, events ...*OutboxEvent) error
}
