package config

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration from environment.
type Config struct {
	HTTPHost           string   `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	HTTPPort           string   `env:"HTTP_PORT" envDefault:"57305"`
	Debug              bool     `env:"DEBUG" envDefault:"false"`
	LogLevel           string   `env:"LOG_LEVEL" envDefault:"info"`
	RedisURL           string   `env:"REDIS_URL"`
	RedisPoolSize      int      `env:"REDIS_POOL_SIZE" envDefault:"10"`
	CacheTTL           int      `env:"CACHE_TTL_SEC" envDefault:"300"` // seconds
	KafkaBrokers       []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic         string   `env:"KAFKA_TODO_TOPIC" envDefault:"todo-events"`
	KafkaPartitions    int      `env:"KAFKA_PARTITIONS" envDefault:"1"`
	KafkaGroupID       string   `env:"KAFKA_GROUP_ID" envDefault:"todo-activity"`
	ShutdownTimeoutSec int      `env:"SHUTDOWN_TIMEOUT_SEC" envDefault:"15"`
}

var (
	cfg     *Config
	cfgErr  error
	cfgOnce sync.Once
)

// Load parses a fresh Config from the environment.
func Load() (*Config, error) {
	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	c.KafkaBrokers = compact(c.KafkaBrokers)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the application config (loads once from env).
// A config that fails to parse is reported by Err and replaced with defaults.
func Get() *Config {
	cfgOnce.Do(func() {
		cfg, cfgErr = Load()
		if cfgErr != nil {
			cfg = Defaults()
		}
	})
	return cfg
}

// Err reports the error encountered by the first Get, if any.
func Err() error {
	Get()
	return cfgErr
}

// Defaults returns the configuration used when no environment is set.
func Defaults() *Config {
	c := &Config{}
	_ = env.ParseWithOptions(c, env.Options{Environment: map[string]string{}})
	return c
}

// Validate checks the values that cannot be defaulted sensibly.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.HTTPPort) == "" {
		return fmt.Errorf("HTTP_PORT is required")
	}
	if c.RedisPoolSize <= 0 {
		return fmt.Errorf("REDIS_POOL_SIZE must be positive, got %d", c.RedisPoolSize)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL_SEC must not be negative, got %d", c.CacheTTL)
	}
	if c.KafkaPartitions <= 0 {
		return fmt.Errorf("KAFKA_PARTITIONS must be positive, got %d", c.KafkaPartitions)
	}
	return nil
}

// Addr is the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.HTTPHost, c.HTTPPort)
}

// CacheEnabled reports whether a Redis list cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}

// EventsEnabled reports whether the Kafka change feed is configured.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// LoadEnvFile reads a .env file and sets env vars (only if not already set).
// A missing file is not an error.
func LoadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open env file: %w", err)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])
		if strings.HasPrefix(val, `"`) && strings.HasSuffix(val, `"`) {
			val = strings.Trim(val, `"`)
		} else if strings.HasPrefix(val, "'") && strings.HasSuffix(val, "'") {
			val = strings.Trim(val, "'")
		}
		if key != "" && os.Getenv(key) == "" {
			_ = os.Setenv(key, val)
		}
	}
	return scanner.Err()
}
