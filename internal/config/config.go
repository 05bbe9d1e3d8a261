// Package config loads adapter settings from defaults, an optional YAML file
// and LDADAPTER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LDADAPTER_UPSTREAM_URL.
const EnvPrefix = "LDADAPTER"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Context   ContextConfig   `mapstructure:"context"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Notify    NotifyConfig    `mapstructure:"notify"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// UpstreamConfig points at the v2 context broker.
type UpstreamConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ContextConfig feeds translator.Settings.
type ContextConfig struct {
	URL              string `mapstructure:"url"`
	DefaultTimestamp string `mapstructure:"default_timestamp"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RedisConfig struct {
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// NATSConfig controls fan-out of relayed notifications.
type NATSConfig struct {
	URL           string `mapstructure:"url"`
	Enabled       bool   `mapstructure:"enabled"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type NotifyConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Addr is the listen address for the HTTP server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("upstream.url", "http://localhost:1026")
	v.SetDefault("upstream.timeout", "10s")
	v.SetDefault("context.url", "https://uri.etsi.org/ngsi-ld/v1/ngsi-ld-core-context-v1.8.jsonld")
	v.SetDefault("context.default_timestamp", "1970-01-01T00:00:00.000Z")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.requests", 600)
	v.SetDefault("ratelimit.window", "1m")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.subject_prefix", "ngsild.notifications")
	v.SetDefault("notify.timeout", "5s")
}

func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/ldadapter")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the adapter cannot start with.
func (c *Config) Validate() error {
	if c.Upstream.URL == "" {
		return errors.New("upstream.url is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.RateLimit.Enabled {
		if !c.Redis.Enabled {
			return errors.New("ratelimit.enabled requires redis.enabled")
		}
		if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
			return errors.New("ratelimit.requests and ratelimit.window must be positive")
		}
	}
	return nil
}
