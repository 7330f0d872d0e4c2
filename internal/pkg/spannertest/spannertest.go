// Package spannertest connects tests to the Spanner emulator.
//
// Tests using it are skipped unless SPANNER_EMULATOR_HOST is set. The schema
// must already be applied, e.g. with `go run ./cmd/migrate`.
package spannertest

import (
	"context"
	"fmt"
	"os"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"
)

// Tables in delete order.
var Tables = []string{"outbox_events", "rate_history", "metal_rates", "offers", "jewellery_items"}

// Setup returns a client on a clean test database and registers cleanup.
func Setup(t *testing.T) *spanner.Client {
	t.Helper()

	if os.Getenv("SPANNER_EMULATOR_HOST") == "" {
		t.Skip("SPANNER_EMULATOR_HOST not set; skipping Spanner test")
	}

	ctx := context.Background()
	client, err := spanner.NewClient(ctx, Database())
	require.NoError(t, err, "failed to create Spanner client")

	Clean(t, client)
	t.Cleanup(func() {
		Clean(t, client)
		client.Close()
	})
	return client
}

// Database returns the test database path.
func Database() string {
	if db := os.Getenv("SPANNER_TEST_DATABASE"); db != "" {
		return db
	}
	return "projects/test-project/instances/dev-instance/databases/jewel-pricing-db"
}

// Clean deletes all rows from every table.
func Clean(t *testing.T, client *spanner.Client) {
	t.Helper()

	mutations := make([]*spanner.Mutation, 0, len(Tables))
	for _, table := range Tables {
		mutations = append(mutations, spanner.Delete(table, spanner.AllKeys()))
	}
	_, err := client.Apply(context.Background(), mutations)
	require.NoError(t, err, "failed to clean database")
}

// Apply commits mutations directly.
func Apply(t *testing.T, client *spanner.Client, muts ...*spanner.Mutation) {
	t.Helper()
	_, err := client.Apply(context.Background(), muts)
	require.NoError(t, err)
}

// RowCount returns the number of rows in a table.
func RowCount(t *testing.T, client *spanner.Client, table string) int64 {
	t.Helper()

	iter := client.Single().Query(context.Background(), spanner.Statement{
		SQL: fmt.Sprintf("SELECT COUNT(*) FROM %s", table),
	})
	defer iter.Stop()

	row, err := iter.Next()
	require.NoError(t, err, "failed to query row count")

	var count int64
	require.NoError(t, row.Columns(&count))
	return count
}
