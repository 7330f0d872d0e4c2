package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/light-bringer/jewel-pricing-service/internal/pkg/config"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/logger"
	"github.com/light-bringer/jewel-pricing-service/internal/services"
	"github.com/light-bringer/jewel-pricing-service/internal/transport/grpc/pricing"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
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

	log.Info("connecting to Spanner", zap.String("database", cfg.SpannerDB))
	serviceOpts, err := services.NewServiceOptions(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer serviceOpts.Close()

	// Startup proceeds without rates; quotes report unavailable until a refresh succeeds.
	if err := serviceOpts.Registry.Refresh(ctx); err != nil {
		log.Warn("initial rate load failed", zap.Error(err))
	} else {
		rates := serviceOpts.Registry.Rates()
		log.Info("rates loaded",
			zap.Stringer("gold", rates.Gold()),
			zap.Stringer("silver", rates.Silver()))
	}

	grpcServer := grpc.NewServer()
	pricing.RegisterPricingServiceServer(grpcServer, serviceOpts.PricingHandler)
	reflection.Register(grpcServer)

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           serviceOpts.HTTPHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	resync, err := newResyncScheduler(ctx, cfg.ResyncSchedule, serviceOpts, log)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			return fmt.Errorf("failed to listen on gRPC port %s: %w", cfg.GRPCPort, err)
		}
		log.Info("gRPC server listening", zap.String("port", cfg.GRPCPort))
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		log.Info("HTTP server listening", zap.String("port", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		// Losing the watch degrades to scheduled resyncs; it does not stop serving.
		err := serviceOpts.Registry.Watch(gctx, serviceOpts.Notifier)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("rate watch ended, relying on scheduled resync", zap.Error(err))
		}
		return nil
	})

	if resync != nil {
		resync.Start()
		log.Info("rate resync scheduled", zap.String("schedule", cfg.ResyncSchedule))
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down servers")

		if resync != nil {
			<-resync.Stop().Done()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("HTTP shutdown error", zap.Error(err))
		}

		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-shutdownCtx.Done():
			grpcServer.Stop()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("servers stopped")
	return nil
}

// newResyncScheduler builds a cron that periodically reloads rates so that a
// missed change notification is eventually corrected. An empty schedule
// disables it.
func newResyncScheduler(ctx context.Context, schedule string, opts *services.ServiceOptions, log *zap.Logger) (*cron.Cron, error) {
	if schedule == "" {
		return nil, nil
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(schedule, func() {
		if err := opts.Registry.Refresh(ctx); err != nil {
			log.Warn("scheduled rate resync failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_RESYNC_SCHEDULE %q: %w", schedule, err)
	}
	return c, nil
}
