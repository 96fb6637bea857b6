// Package config loads the process-wide configuration once at startup.
// The resulting struct is treated as immutable; nothing mutates it after
// Load returns.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	// minSecretBytes is the floor for the HS256 signing secret. Shorter
	// secrets weaken the whole credential scheme, so startup refuses them.
	minSecretBytes = 32

	// maxClockSkew bounds the validator leeway. An unbounded or disabled
	// expiry check must not be configurable.
	maxClockSkew = 60 * time.Second
)

// Config holds all settings consumed by the API process.
type Config struct {
	Addr        string `env:"SITEWISE_ADDR" envDefault:":8080"`
	DatabaseURL string `env:"SITEWISE_PG_DSN,required"`

	AuthSecret    string        `env:"SITEWISE_AUTH_SECRET,required"`
	TokenIssuer   string        `env:"SITEWISE_TOKEN_ISSUER" envDefault:"sitewise"`
	TokenAudience string        `env:"SITEWISE_TOKEN_AUDIENCE" envDefault:"sitewise-admin"`
	TokenTTL      time.Duration `env:"SITEWISE_TOKEN_TTL" envDefault:"15m"`
	ClockSkew     time.Duration `env:"SITEWISE_CLOCK_SKEW" envDefault:"30s"`

	AuthRateBurst     int   `env:"SITEWISE_AUTH_RATE_BURST" envDefault:"10"`
	AuthRatePerSecond int   `env:"SITEWISE_AUTH_RATE_PER_SECOND" envDefault:"5"`
	MaxBodyBytes      int64 `env:"SITEWISE_MAX_BODY_BYTES" envDefault:"1048576"`
}

// Load reads configuration from the environment. A .env file is honored when
// present, mainly for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.AuthSecret) < minSecretBytes {
		return fmt.Errorf("SITEWISE_AUTH_SECRET must be at least %d bytes", minSecretBytes)
	}
	if c.TokenIssuer == "" || c.TokenAudience == "" {
		return errors.New("token issuer and audience are required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("SITEWISE_TOKEN_TTL must be greater than zero")
	}
	if c.ClockSkew < 0 || c.ClockSkew > maxClockSkew {
		return fmt.Errorf("SITEWISE_CLOCK_SKEW must be between 0 and %s", maxClockSkew)
	}
	return nil
}
