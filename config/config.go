// Package config loads settings for the telguarder CLI and for applications
// embedding the client: defaults, then an optional YAML file, then environment
// variables with the TELGUARDER_ prefix.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/telguarder/go-telguarder/cache"
)

type Config struct {
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	Client ClientConfig `koanf:"client"`
	Cache  CacheConfig  `koanf:"cache"`
}

type ClientConfig struct {
	BaseURL   string        `koanf:"base_url" validate:"required,url"`
	APIKey    string        `koanf:"api_key"`
	Timeout   time.Duration `koanf:"timeout" validate:"gt=0"`
	UserAgent string        `koanf:"user_agent"`

	Retry     RetryConfig     `koanf:"retry"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

type RetryConfig struct {
	MaxAttempts    int           `koanf:"max_attempts" validate:"gte=1,lte=10"`
	InitialBackoff time.Duration `koanf:"initial_backoff" validate:"gt=0"`
	MaxBackoff     time.Duration `koanf:"max_backoff" validate:"gt=0"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"gte=0"`
	Burst             int     `koanf:"burst" validate:"gte=0"`
}

type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`

	Redis cache.Config `koanf:"redis"`
}

// Load reads configuration in layers. path may be empty; a missing explicit
// file is an error, a missing default file is not.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := &Config{
		LogLevel: "info",
		Client: ClientConfig{
			BaseURL: "https://api.telguarder.com",
			Timeout: 10 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:    3,
				InitialBackoff: 250 * time.Millisecond,
				MaxBackoff:     5 * time.Second,
			},
		},
		Cache: CacheConfig{
			TTL: cache.DefaultTTL,
			Redis: cache.Config{
				Addr:        "localhost:6379",
				PoolSize:    5,
				DialTimeout: 5 * time.Second,
			},
		},
	}

	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	} else if _, err := os.Stat("telguarder.yaml"); err == nil {
		if err := k.Load(file.Provider("telguarder.yaml"), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file telguarder.yaml: %w", err)
		}
	}

	// TELGUARDER_CLIENT__BASE_URL -> client.base_url
	if err := k.Load(env.Provider("TELGUARDER_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "TELGUARDER_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}
