package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, ":3000", cfg.Server.Addr())
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "http://localhost:1026", cfg.Upstream.URL)
	assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, "https://uri.etsi.org/ngsi-ld/v1/ngsi-ld-core-context-v1.8.jsonld", cfg.Context.URL)
	assert.Equal(t, "1970-01-01T00:00:00.000Z", cfg.Context.DefaultTimestamp)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.False(t, cfg.NATS.Enabled)
	assert.Equal(t, "ngsild.notifications", cfg.NATS.SubjectPrefix)
	assert.Equal(t, 5*time.Second, cfg.Notify.Timeout)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8080
  cors_origins: ["*"]
upstream:
  url: http://orion:1026
context:
  url: http://context/ngsi-context.jsonld
redis:
  enabled: true
ratelimit:
  enabled: true
  requests: 5
  window: 10s
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "http://orion:1026", cfg.Upstream.URL)
	assert.Equal(t, "http://context/ngsi-context.jsonld", cfg.Context.URL)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 5, cfg.RateLimit.Requests)
	assert.Equal(t, 10*time.Second, cfg.RateLimit.Window)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LDADAPTER_UPSTREAM_URL", "http://broker:1026")
	t.Setenv("LDADAPTER_LOGGING_LEVEL", "debug")
	t.Setenv("LDADAPTER_NATS_ENABLED", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://broker:1026", cfg.Upstream.URL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.NATS.Enabled)
}

func TestLoad_NonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("invalid: yaml: : :"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:   ServerConfig{Port: 3000},
			Upstream: UpstreamConfig{URL: "http://orion:1026"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing upstream", func(c *Config) { c.Upstream.URL = "" }, "upstream.url"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"ratelimit without redis", func(c *Config) {
			c.RateLimit = RateLimitConfig{Enabled: true, Requests: 1, Window: time.Second}
		}, "redis.enabled"},
		{"ratelimit zero window", func(c *Config) {
			c.Redis.Enabled = true
			c.RateLimit = RateLimitConfig{Enabled: true, Requests: 1}
		}, "must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
