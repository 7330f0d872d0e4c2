package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
)

const changedMessage = "changed"

// RedisNotifier fans notifications out to every instance over Redis pub/sub.
// Pub/sub is fire and forget: an instance that is disconnected misses the
// signal and catches up on its next periodic resync.
type RedisNotifier struct {
	client  redis.UniversalClient
	channel string
	logger  *zap.Logger
}

var _ contracts.RateChangeNotifier = (*RedisNotifier)(nil)

// NewRedisNotifier uses channel, or Topic when channel is empty.
func NewRedisNotifier(client redis.UniversalClient, channel string, logger *zap.Logger) *RedisNotifier {
	if channel == "" {
		channel = Topic
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisNotifier{client: client, channel: channel, logger: logger}
}

func (n *RedisNotifier) Publish(ctx context.Context) error {
	if err := n.client.Publish(ctx, n.channel, changedMessage).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", n.channel, err)
	}
	return nil
}

// Listen blocks until ctx is done. It returns early if the subscription
// cannot be established or is closed underneath it.
func (n *RedisNotifier) Listen(ctx context.Context, fn func()) error {
	sub := n.client.Subscribe(ctx, n.channel)
	defer sub.Close()

	// Wait for the subscription to be confirmed so no publish after this point is missed.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe %s: %w", n.channel, err)
	}
	n.logger.Info("listening for rate changes", zap.String("channel", n.channel))

	// Coalesce bursts so a slow refresh does not back up the pub/sub buffer.
	msgs := sub.Channel()
	pending := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				done <- ctx.Err()
				return
			case _, ok := <-msgs:
				if !ok {
					done <- errors.New("redis subscription closed")
					return
				}
				signal(pending)
			}
		}
	}()

	for {
		select {
		case err := <-done:
			return err
		case <-pending:
			fn()
		}
	}
}
