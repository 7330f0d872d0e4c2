// Package notify broadcasts "rates changed" signals to rate registries.
//
// Notifications carry no payload. A receiver re-reads the rate store, so
// several signals arriving while one refresh runs collapse into one more refresh.
package notify

import (
	"fmt"

	"github.com/asaskevich/EventBus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/config"
)

// Topic is the bus topic and default Redis channel for rate changes.
const Topic = "pricing:rates:changed"

// New builds the notifier selected by configuration.
func New(cfg *config.Config, logger *zap.Logger) (contracts.RateChangeNotifier, func() error, error) {
	switch cfg.Notifier {
	case config.NotifierRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return NewRedisNotifier(client, cfg.RedisChannel, logger), client.Close, nil
	case config.NotifierLocal, "":
		n, err := NewBusNotifier(EventBus.New())
		if err != nil {
			return nil, nil, err
		}
		return n, n.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown notifier %q", cfg.Notifier)
	}
}

// signal does a non-blocking send; a pending signal already covers this one.
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
