package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppPort         string        `env:"APP_PORT" envDefault:"3000"`
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"30s"`
	HTTPTimeout     time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	VenueRPS        float64       `env:"VENUE_RPS" envDefault:"2"`

	DriftURL       string        `env:"DRIFT_URL" envDefault:"https://data.api.drift.trade"`
	HyperliquidURL string        `env:"HYPERLIQUID_URL" envDefault:"https://api.hyperliquid.xyz"`
	GMXURL         string        `env:"GMX_URL" envDefault:"https://arbitrum-api.gmxinfra.io"`
	GMXCacheTTL    time.Duration `env:"GMX_CACHE_TTL" envDefault:"5m"`
	ParadexURL     string        `env:"PARADEX_URL" envDefault:"https://api.prod.paradex.trade/v1"`

	LighterWSURL       string `env:"LIGHTER_WS_URL" envDefault:"wss://mainnet.zklighter.elliot.ai/stream"`
	LighterMarketsFile string `env:"LIGHTER_MARKETS_FILE"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
	LogFile   string `env:"LOG_FILE"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, reading from environment directly")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return fmt.Errorf("APP_PORT must not be empty")
	}
	if c.RefreshInterval < time.Second {
		return fmt.Errorf("refresh interval must be at least 1 second, got %s", c.RefreshInterval)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %s", c.HTTPTimeout)
	}
	if c.GMXCacheTTL < 0 {
		return fmt.Errorf("gmx cache ttl must not be negative, got %s", c.GMXCacheTTL)
	}
	if c.VenueRPS < 0 {
		return fmt.Errorf("venue rps must not be negative, got %g", c.VenueRPS)
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s", c.LogFormat)
	}
	return nil
}
