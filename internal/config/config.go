// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	RosterFixture  = "fixture"
	RosterDatabase = "database"
)

type Config struct {
	Port            int           `env:"PORT" envDefault:"8080"`
	DatabaseURL     string        `env:"DATABASE_URL" envDefault:"file:dinerreach.db"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Directory and composer
	RosterSource    string        `env:"ROSTER_SOURCE" envDefault:"fixture"`
	CatalogPath     string        `env:"CATALOG_PATH"`
	SuggestionDelay time.Duration `env:"SUGGESTION_DELAY" envDefault:"2s"`
	SessionCookie   string        `env:"SESSION_COOKIE" envDefault:"dinerreach_session"`
	SessionIdle     time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"24h"`

	// Dashboard cache
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	Redis    RedisConfig   `envPrefix:"REDIS_"`

	// Events
	RabbitMQURL      string `env:"RABBITMQ_URL"`
	RabbitMQExchange string `env:"RABBITMQ_EXCHANGE" envDefault:"dinerreach.events"`

	// Observability
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	SentryDSN string `env:"SENTRY_DSN"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // no .env in production
	return parse(env.Options{})
}

// LoadFrom parses an explicit environment map, ignoring the process environment.
func LoadFrom(environment map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.RosterSource {
	case RosterFixture, RosterDatabase:
	default:
		return fmt.Errorf("ROSTER_SOURCE must be %q or %q, got %q", RosterFixture, RosterDatabase, c.RosterSource)
	}
	if c.SuggestionDelay < 0 {
		return fmt.Errorf("SUGGESTION_DELAY must not be negative")
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
