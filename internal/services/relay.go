package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/repo"
	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/usecases/relay_outbox"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/committer"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/config"
	"github.com/light-bringer/jewel-pricing-service/internal/transport/kafka"
)

// RelayOptions holds the dependencies of the outbox relay worker.
type RelayOptions struct {
	SpannerClient *spanner.Client
	Publisher     *kafka.Publisher
	Relay         *relay_outbox.Interactor
}

// NewRelayOptions wires the outbox relay: Spanner outbox in, Kafka out.
func NewRelayOptions(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*RelayOptions, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required for the outbox relay")
	}

	spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDB)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	publisher := kafka.NewPublisher(kafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic))
	relay := relay_outbox.NewInteractor(
		repo.NewOutboxRepo(spannerClient),
		publisher,
		committer.NewCommitter(spannerClient),
		logger.Named("relay"),
	)

	return &RelayOptions{
		SpannerClient: spannerClient,
		Publisher:     publisher,
		Relay:         relay,
	}, nil
}

// Close flushes the publisher and closes Spanner.
func (r *RelayOptions) Close() {
	if r.Publisher != nil {
		_ = r.Publisher.Close()
	}
	if r.SpannerClient != nil {
		r.SpannerClient.Close()
	}
}
