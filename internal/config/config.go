// Package config reads the server configuration from the environment.
// A .env file, when present, is loaded by main before Load runs.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port            string        `env:"PORT" envDefault:"8000"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ClientOrigin    string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	DailySalt       string        `env:"DAILY_SALT" envDefault:"local_dev_salt"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Countries CountriesConfig `envPrefix:"COUNTRIES_"`
}

// CountriesConfig selects and tunes the territory data provider.
// File takes precedence over the API when set.
type CountriesConfig struct {
	APIURL           string        `env:"API_URL" envDefault:"https://restcountries.com/v3.1"`
	File             string        `env:"FILE"`
	CacheDB          string        `env:"CACHE_DB"`
	FetchTimeout     time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`
	RatePerSec       float64       `env:"RATE_PER_SEC" envDefault:"2"`
	Retries          int           `env:"RETRIES" envDefault:"3"`
	EmbeddedFallback bool          `env:"EMBEDDED_FALLBACK" envDefault:"true"`
}

// Addr is the listen address derived from Port.
func (c *Config) Addr() string { return ":" + c.Port }

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.Countries.Retries < 0 {
		return nil, fmt.Errorf("COUNTRIES_RETRIES must be >= 0, got %d", cfg.Countries.Retries)
	}
	return &cfg, nil
}
