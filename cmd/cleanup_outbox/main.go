package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/jewel-pricing-service/internal/models/m_outbox"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/config"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/logger"
)

// cleanupOptions controls which outbox rows are purged.
type cleanupOptions struct {
	SpannerDB          string
	PublishedRetention time.Duration
	FailedRetention    time.Duration
	DryRun             bool
}

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	opts := cleanupOptions{}
	cmd := &cobra.Command{
		Use:          "cleanup_outbox",
		Short:        "Delete relayed and failed outbox events past their retention",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log, err := logger.New(cfg.Logger)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if opts.SpannerDB == "" {
				opts.SpannerDB = cfg.SpannerDB
			}
			if opts.PublishedRetention == 0 {
				opts.PublishedRetention = cfg.OutboxRetention
			}
			if opts.PublishedRetention <= 0 || opts.FailedRetention <= 0 {
				return errors.New("retention periods must be positive")
			}

			if err := cleanupOutbox(cmd.Context(), opts, time.Now().UTC(), log); err != nil {
				log.Error("cleanup failed", zap.Error(err))
				return err
			}
			log.Info("cleanup completed")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.SpannerDB, "database", "", "Spanner database path (defaults to SPANNER_DATABASE)")
	flags.DurationVar(&opts.PublishedRetention, "published-retention", 0, "Retention for published events (defaults to OUTBOX_RETENTION)")
	flags.DurationVar(&opts.FailedRetention, "failed-retention", 30*24*time.Hour, "Retention for failed events")
	flags.BoolVar(&opts.DryRun, "dry-run", false, "Show what would be deleted without deleting")
	return cmd
}

func cleanupOutbox(ctx context.Context, opts cleanupOptions, now time.Time, log *zap.Logger) error {
	client, err := spanner.NewClient(ctx, opts.SpannerDB)
	if err != nil {
		return fmt.Errorf("failed to create Spanner client: %w", err)
	}
	defer client.Close()

	publishedCutoff := now.Add(-opts.PublishedRetention)
	failedCutoff := now.Add(-opts.FailedRetention)

	log.Info("starting outbox cleanup",
		zap.Time("published_cutoff", publishedCutoff),
		zap.Time("failed_cutoff", failedCutoff),
		zap.Bool("dry_run", opts.DryRun))

	if opts.DryRun {
		return dryRunCleanup(ctx, client, publishedCutoff, failedCutoff, log)
	}
	return performCleanup(ctx, client, publishedCutoff, failedCutoff, log)
}

const expiredCondition = `(status = @published AND processed_at < @publishedCutoff)
   OR (status = @failed AND processed_at < @failedCutoff)`

func expiredStatement(sql string, publishedCutoff, failedCutoff time.Time) spanner.Statement {
	return spanner.Statement{
		SQL: sql,
		Params: map[string]interface{}{
			"published":       m_outbox.StatusPublished,
			"failed":          m_outbox.StatusFailed,
			"publishedCutoff": publishedCutoff,
			"failedCutoff":    failedCutoff,
		},
	}
}

func countStatement(publishedCutoff, failedCutoff time.Time) spanner.Statement {
	return expiredStatement(fmt.Sprintf(
		"SELECT %s, COUNT(*) FROM %s WHERE %s GROUP BY %s",
		m_outbox.Status, m_outbox.TableName, expiredCondition, m_outbox.Status,
	), publishedCutoff, failedCutoff)
}

func deleteStatement(publishedCutoff, failedCutoff time.Time) spanner.Statement {
	return expiredStatement(fmt.Sprintf(
		"DELETE FROM %s WHERE %s", m_outbox.TableName, expiredCondition,
	), publishedCutoff, failedCutoff)
}

func dryRunCleanup(ctx context.Context, client *spanner.Client, publishedCutoff, failedCutoff time.Time, log *zap.Logger) error {
	iter := client.Single().Query(ctx, countStatement(publishedCutoff, failedCutoff))
	defer iter.Stop()

	var total int64
	for {
		row, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to query events: %w", err)
		}

		var status string
		var count int64
		if err := row.Columns(&status, &count); err != nil {
			return fmt.Errorf("failed to parse row: %w", err)
		}
		log.Info("would delete events", zap.String("status", status), zap.Int64("count", count))
		total += count
	}

	log.Info("dry run finished, run without --dry-run to delete", zap.Int64("total", total))
	return nil
}

func performCleanup(ctx context.Context, client *spanner.Client, publishedCutoff, failedCutoff time.Time, log *zap.Logger) error {
	var deleted int64
	_, err := client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		n, err := txn.Update(ctx, deleteStatement(publishedCutoff, failedCutoff))
		if err != nil {
			return fmt.Errorf("failed to delete events: %w", err)
		}
		deleted = n
		return nil
	})
	if err != nil {
		return fmt.Errorf("cleanup transaction failed: %w", err)
	}

	log.Info("deleted expired outbox events", zap.Int64("count", deleted))
	return nil
}
