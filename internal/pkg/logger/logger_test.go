package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/jewel-pricing-service/internal/pkg/config"
)

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.log")

	log, err := New(config.LoggerConfig{Mode: "production", Level: "info", FileEnable: true, Filename: path})
	require.NoError(t, err)
	log.Info("rates replaced", zap.String("gold", "6000.00"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"gold":"6000.00"`)
	assert.Same(t, log, zap.L())
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LoggerConfig{Mode: "development", Level: "loud"})
	assert.Error(t, err)
}
