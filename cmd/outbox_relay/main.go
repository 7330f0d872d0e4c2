package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/relay_outbox"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/config"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/logger"
	"github.com/light-bringer/jewel-pricing-service/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "outbox_relay: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	relayOpts, err := services.NewRelayOptions(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize relay: %w", err)
	}
	defer relayOpts.Close()

	log.Info("outbox relay started",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopic),
		zap.Duration("interval", cfg.RelayInterval))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return relayLoop(gctx, relayOpts.Relay, cfg.RelayBatchSize, cfg.RelayInterval, log)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("outbox relay stopped")
	return nil
}

// relayLoop runs a relay pass every interval until ctx is done. A fully
// published batch is followed immediately by another pass.
func relayLoop(ctx context.Context, relay *relay_outbox.Interactor, batchSize int64, interval time.Duration, log *zap.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		resp, err := relay.Execute(ctx, &relay_outbox.Request{BatchSize: batchSize})
		switch {
		case err != nil && ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			log.Warn("relay pass failed", zap.Error(err))
		case resp.Published+resp.Failed > 0:
			log.Info("relay pass",
				zap.Int("published", resp.Published),
				zap.Int("failed", resp.Failed))
			if resp.Failed == 0 && int64(resp.Published) >= batchSize {
				continue
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
