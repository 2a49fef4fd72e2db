package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cbodonnell/snake/pkg/game/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_defaults(t *testing.T) {
	cfg, err := Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, constants.TickInterval, cfg.TickInterval)
	assert.Equal(t, filepath.Join("migrations", "sqlite"), cfg.Migrations())
}

func TestLoad_precedence(t *testing.T) {
	path := writeFile(t, "snake.yaml", `
httpPort: 9000
gridSize: 12
tickInterval: 200ms
databaseURL: postgresql://localhost/snake
logLevel: debug
`)
	envFile := writeFile(t, "test.env", "SNAKE_GRID_SIZE=16\nSNAKE_LOG_LEVEL=warn\n")
	t.Cleanup(func() {
		os.Unsetenv("SNAKE_GRID_SIZE")
		os.Unsetenv("SNAKE_LOG_LEVEL")
	})
	// the real environment wins over the .env file
	t.Setenv("SNAKE_LOG_LEVEL", "trace")

	cfg, err := Load(path, envFile)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, 16, cfg.GridSize)
	assert.Equal(t, 200*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "trace", cfg.LogLevel)
	assert.Equal(t, filepath.Join("migrations", "postgres"), cfg.Migrations())
}

func TestLoad_errors(t *testing.T) {
	noEnv := filepath.Join(t.TempDir(), "missing.env")
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "bad yaml", yaml: "gridSize: [", env: nil},
		{name: "grid too small", yaml: "gridSize: 2", env: nil},
		{name: "grid too small for the starting snake", yaml: "gridSize: 3", env: nil},
		{name: "non numeric port", env: map[string]string{"SNAKE_HTTP_PORT": "http"}},
		{name: "bad tick interval", env: map[string]string{"SNAKE_TICK_INTERVAL": "fast"}},
		{name: "negative tick interval", env: map[string]string{"SNAKE_TICK_INTERVAL": "-1s"}},
		{name: "unknown log level", env: map[string]string{"SNAKE_LOG_LEVEL": "loud"}},
		{name: "cert without key", env: map[string]string{"SNAKE_TLS_CERT_FILE": "cert.pem"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.yaml != "" {
				path = writeFile(t, "snake.yaml", tt.yaml)
			}
			_, err := Load(path, noEnv)
			assert.Error(t, err)
		})
	}
}

func TestLoad_missingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
