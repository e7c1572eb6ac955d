package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("LOG_LEVEL", "INFO")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.AppPort != "8080" || cfg.LogLevel != "info" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.RefreshInterval != 30*time.Second || cfg.GMXCacheTTL != 5*time.Minute {
		t.Errorf("unexpected durations: refresh=%s gmx=%s", cfg.RefreshInterval, cfg.GMXCacheTTL)
	}
	if !strings.HasPrefix(cfg.LighterWSURL, "wss://") {
		t.Errorf("lighter url = %q", cfg.LighterWSURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "2m")
	t.Setenv("VENUE_RPS", "0.5")
	t.Setenv("LOG_FORMAT", "JSON")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.RefreshInterval != 2*time.Minute || cfg.VenueRPS != 0.5 || cfg.LogFormat != "json" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		AppPort:         "3000",
		RefreshInterval: time.Minute,
		HTTPTimeout:     time.Second,
		LogLevel:        "info",
		LogFormat:       "console",
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := map[string]func(c *Config){
		"empty port":     func(c *Config) { c.AppPort = "" },
		"short interval": func(c *Config) { c.RefreshInterval = time.Millisecond },
		"zero timeout":   func(c *Config) { c.HTTPTimeout = 0 },
		"negative ttl":   func(c *Config) { c.GMXCacheTTL = -time.Second },
		"negative rps":   func(c *Config) { c.VenueRPS = -1 },
		"bad level":      func(c *Config) { c.LogLevel = "loud" },
		"bad format":     func(c *Config) { c.LogFormat = "xml" },
	}
	for name, mutate := range tests {
		c := base
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
