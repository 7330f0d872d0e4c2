package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.GRPCPort)
	assert.Equal(t, NotifierLocal, cfg.Notifier)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, int64(100), cfg.RelayBatchSize)
	assert.Equal(t, 2*time.Second, cfg.RelayInterval)
	assert.False(t, cfg.Logger.FileEnable)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("GRPC_PORT", "7000")
	t.Setenv("RATE_NOTIFIER", "Redis")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("RELAY_INTERVAL", "500ms")
	t.Setenv("LOG_FILE_ENABLE", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.GRPCPort)
	assert.Equal(t, NotifierRedis, cfg.Notifier)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 500*time.Millisecond, cfg.RelayInterval)
	assert.True(t, cfg.Logger.FileEnable)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_PORT=8181\nRATE_RESYNC_SCHEDULE=@every 5m\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("HTTP_PORT")
		os.Unsetenv("RATE_RESYNC_SCHEDULE")
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8181", cfg.HTTPPort)
	assert.Equal(t, "@every 5m", cfg.ResyncSchedule)
}

func TestLoad_InvalidNotifier(t *testing.T) {
	t.Setenv("RATE_NOTIFIER", "carrier-pigeon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "RATE_NOTIFIER")
}
