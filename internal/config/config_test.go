package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG_FILE", "SERVICE_ROLE", "SERVER_PORT", "HANDLER_URL", "DATABASE_URL", "REDIS_URL",
	"ENVIRONMENT", "GRID_SIZE", "SNAP_TO_GRID", "HISTORY_LIMIT", "CACHE_TTL", "DRAFT_TTL",
	"SESSION_IDLE_TIMEOUT",
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		original, existed := os.LookupEnv(key)
		os.Unsetenv(key)
		t.Cleanup(func() {
			if existed {
				os.Setenv(key, original)
			}
		})
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNew_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "gateway", cfg.Role)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "http://handler:8081", cfg.HandlerURL)
	assert.Equal(t, 0.5, cfg.GridSize)
	assert.True(t, cfg.SnapToGrid)
	assert.Equal(t, 0, cfg.HistoryLimit)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.DraftTTL)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdleTimeout)
}

func TestNew_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVICE_ROLE", "handler")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("GRID_SIZE", "0.25")
	t.Setenv("SNAP_TO_GRID", "off")
	t.Setenv("HISTORY_LIMIT", "50")
	t.Setenv("DRAFT_TTL", "1h30m")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "handler", cfg.Role)
	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 0.25, cfg.GridSize)
	assert.False(t, cfg.SnapToGrid)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, 90*time.Minute, cfg.DraftTTL)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
role: handler
server_port: "8081"
database_url: postgres://designer@db:5432/rooms
grid_size: 1
snap_to_grid: false
history_limit: 100
session_idle_timeout: 30m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "handler", cfg.Role)
	assert.Equal(t, "8081", cfg.ServerPort)
	assert.Equal(t, "postgres://designer@db:5432/rooms", cfg.DatabaseURL)
	assert.Equal(t, 1.0, cfg.GridSize)
	assert.False(t, cfg.SnapToGrid)
	assert.Equal(t, 100, cfg.HistoryLimit)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, DefaultRedisURL, cfg.RedisURL)
}

func TestLoad_EnvironmentBeatsFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, "role: handler\nserver_port: \"8081\"\n")
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("CONFIG_FILE", path)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "handler", cfg.Role)
	assert.Equal(t, "7000", cfg.ServerPort)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Role:               "handler",
		GridSize:           0.5,
		CacheTTL:           time.Minute,
		DraftTTL:           time.Hour,
		SessionIdleTimeout: time.Hour,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"unknown role", func(c *Config) { c.Role = "worker" }, ErrInvalidRole},
		{"zero grid", func(c *Config) { c.GridSize = 0 }, ErrInvalidGridSize},
		{"grid too fine", func(c *Config) { c.GridSize = 0.01 }, ErrInvalidGridSize},
		{"finest grid", func(c *Config) { c.GridSize = 0.05 }, nil},
		{"negative history", func(c *Config) { c.HistoryLimit = -1 }, ErrInvalidHistoryLimit},
		{"zero ttl", func(c *Config) { c.DraftTTL = 0 }, ErrInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNew_InvalidEnvironmentRejected(t *testing.T) {
	clearEnv(t)
	t.Setenv("GRID_SIZE", "-1")

	_, err := New()
	assert.ErrorIs(t, err, ErrInvalidGridSize)
}

func TestIsGateway(t *testing.T) {
	tests := []struct {
		role     string
		expected bool
	}{
		{"gateway", true},
		{"handler", false},
		{"other", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			cfg := &Config{Role: tt.role}
			assert.Equal(t, tt.expected, cfg.IsGateway())
		})
	}
}

func TestIsHandler(t *testing.T) {
	tests := []struct {
		role     string
		expected bool
	}{
		{"gateway", false},
		{"handler", true},
		{"other", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			cfg := &Config{Role: tt.role}
			assert.Equal(t, tt.expected, cfg.IsHandler())
		})
	}
}

func TestIsDevelopment(t *testing.T) {
	tests := []struct {
		env      string
		expected bool
	}{
		{"development", true},
		{"production", false},
		{"staging", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := &Config{Environment: tt.env}
			assert.Equal(t, tt.expected, cfg.IsDevelopment())
		})
	}
}

func TestGetEnvParsers(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INVALID_INT", "not_a_number")
	t.Setenv("TEST_BOOL", "YES")
	t.Setenv("TEST_INVALID_BOOL", "maybe")
	t.Setenv("TEST_DURATION", "15s")
	t.Setenv("TEST_FLOAT", "0.1")

	assert.Equal(t, 42, getEnvInt("TEST_INT", 10))
	assert.Equal(t, 10, getEnvInt("TEST_INVALID_INT", 10))
	assert.Equal(t, 100, getEnvInt("NON_EXISTING_INT", 100))
	assert.True(t, getEnvBool("TEST_BOOL", false))
	assert.True(t, getEnvBool("TEST_INVALID_BOOL", true))
	assert.Equal(t, 15*time.Second, getEnvDuration("TEST_DURATION", time.Minute))
	assert.Equal(t, 0.1, getEnvFloat("TEST_FLOAT", 1))
	assert.Equal(t, "default_value", getEnv("NON_EXISTING_VAR", "default_value"))
}
