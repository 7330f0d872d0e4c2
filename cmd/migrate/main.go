package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/jewel-pricing-service/internal/pkg/config"
	"github.com/light-bringer/jewel-pricing-service/internal/pkg/logger"
)

type options struct {
	projectID  string
	instanceID string
	databaseID string
	migrateDir string
}

func (o options) instancePath() string {
	return fmt.Sprintf("projects/%s/instances/%s", o.projectID, o.instanceID)
}

func (o options) databasePath() string {
	return fmt.Sprintf("%s/databases/%s", o.instancePath(), o.databaseID)
}

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Create the Spanner instance and database and apply schema migrations",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logger.New(config.LoggerConfig{Mode: "development", Level: "info"})
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if host := os.Getenv("SPANNER_EMULATOR_HOST"); host != "" {
				log.Info("using Spanner emulator", zap.String("host", host))
			}
			if err := run(cmd.Context(), opts, log); err != nil {
				log.Error("migration failed", zap.Error(err))
				return err
			}
			log.Info("migrations completed")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.projectID, "project", envOr("SPANNER_PROJECT_ID", "test-project"), "GCP project ID")
	flags.StringVar(&opts.instanceID, "instance", envOr("SPANNER_INSTANCE_ID", "dev-instance"), "Spanner instance ID")
	flags.StringVar(&opts.databaseID, "database", envOr("SPANNER_DATABASE_ID", "jewel-pricing-db"), "Spanner database ID")
	flags.StringVar(&opts.migrateDir, "migrations", "migrations", "Directory containing migration SQL files")
	return cmd
}

func run(ctx context.Context, opts options, log *zap.Logger) error {
	if err := ensureInstance(ctx, opts, log); err != nil {
		return fmt.Errorf("failed to ensure instance: %w", err)
	}
	if err := ensureDatabase(ctx, opts, log); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}
	if err := applyMigrations(ctx, opts, log); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func ensureInstance(ctx context.Context, opts options, log *zap.Logger) error {
	log.Info("ensuring instance exists", zap.String("instance", opts.instanceID))

	instanceAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer instanceAdmin.Close()

	_, err = instanceAdmin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: opts.instancePath()})
	if err == nil {
		log.Info("instance already exists")
		return nil
	}
	if status.Code(err) != codes.NotFound {
		log.Warn("unexpected error checking instance", zap.Error(err))
		return nil
	}

	log.Info("creating instance")
	op, err := instanceAdmin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     "projects/" + opts.projectID,
		InstanceId: opts.instanceID,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", opts.projectID),
			DisplayName: "Development Instance",
			NodeCount:   1,
		},
	})
	if err != nil {
		if status.Code(err) != codes.AlreadyExists {
			return fmt.Errorf("failed to create instance: %w", err)
		}
		log.Info("instance already exists")
		return nil
	}
	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		log.Warn("instance creation did not complete cleanly", zap.Error(err))
	}
	log.Info("instance created")
	return nil
}

func ensureDatabase(ctx context.Context, opts options, log *zap.Logger) error {
	log.Info("ensuring database exists", zap.String("database", opts.databaseID))

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	_, err = adminClient.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: opts.databasePath()})
	if err == nil {
		log.Info("database already exists")
		return nil
	}
	if status.Code(err) != codes.NotFound {
		// The emulator reports odd codes for databases that do exist.
		if os.Getenv("SPANNER_EMULATOR_HOST") != "" {
			log.Warn("proceeding with database in emulator mode", zap.Error(err))
			return nil
		}
		return fmt.Errorf("failed to check database: %w", err)
	}

	log.Info("creating database")
	op, err := adminClient.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          opts.instancePath(),
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", opts.databaseID),
	})
	if err != nil {
		if status.Code(err) != codes.AlreadyExists {
			return fmt.Errorf("failed to create database: %w", err)
		}
		log.Info("database already exists")
		return nil
	}
	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for database creation: %w", err)
	}
	log.Info("database created")
	return nil
}

func applyMigrations(ctx context.Context, opts options, log *zap.Logger) error {
	log.Info("applying migrations", zap.String("dir", opts.migrateDir))

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	files, err := filepath.Glob(filepath.Join(opts.migrateDir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}
	if len(files) == 0 {
		log.Info("no migration files found")
		return nil
	}

	current, err := adminClient.GetDatabaseDdl(ctx, &databasepb.GetDatabaseDdlRequest{Database: opts.databasePath()})
	if err != nil {
		return fmt.Errorf("failed to read current schema: %w", err)
	}
	existing := existingObjects(current.GetStatements())

	for _, file := range files {
		name := filepath.Base(file)

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		statements := pendingStatements(splitDDLStatements(string(content)), existing)
		if len(statements) == 0 {
			log.Info("migration already applied", zap.String("file", name))
			continue
		}

		log.Info("applying migration", zap.String("file", name), zap.Int("statements", len(statements)))
		op, err := adminClient.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   opts.databasePath(),
			Statements: statements,
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", name, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply DDL for %s: %w", name, err)
		}
		for key := range existingObjects(statements) {
			existing[key] = struct{}{}
		}
		log.Info("migration applied", zap.String("file", name))
	}
	return nil
}

func splitDDLStatements(content string) []string {
	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var result []string
	for _, stmt := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}

var createObject = regexp.MustCompile(`(?i)^CREATE\s+(?:UNIQUE\s+|NULL_FILTERED\s+)*(TABLE|INDEX)\s+` + "`?" + `(\w+)`)

// objectKey returns "TABLE name" or "INDEX name" for a CREATE statement.
func objectKey(stmt string) (string, bool) {
	m := createObject.FindStringSubmatch(strings.TrimSpace(stmt))
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]) + " " + strings.ToLower(m[2]), true
}

func existingObjects(statements []string) map[string]struct{} {
	out := make(map[string]struct{}, len(statements))
	for _, stmt := range statements {
		if key, ok := objectKey(stmt); ok {
			out[key] = struct{}{}
		}
	}
	return out
}

// pendingStatements drops CREATE statements for objects the schema already has.
// Statements that are not CREATE TABLE or CREATE INDEX always run.
func pendingStatements(statements []string, existing map[string]struct{}) []string {
	var out []string
	for _, stmt := range statements {
		if key, ok := objectKey(stmt); ok {
			if _, found := existing[key]; found {
				continue
			}
		}
		out = append(out, stmt)
	}
	return out
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
