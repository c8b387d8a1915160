package common

import (
	"testing"
	"time"
)

func TestLoadConfigCORSOrigins(t *testing.T) {
	t.Run("defaults to the local dashboard hosts", func(t *testing.T) {
		t.Setenv("CORS_ORIGINS", "")
		cfg := LoadConfig()
		if len(cfg.Server.CORSOrigins) != len(DefaultCORSOrigins) {
			t.Fatalf("got %v", cfg.Server.CORSOrigins)
		}
	})

	t.Run("splits and trims the configured list", func(t *testing.T) {
		t.Setenv("CORS_ORIGINS", "https://dash.example.com, https://admin.example.com ,")
		cfg := LoadConfig()
		want := []string{"https://dash.example.com", "https://admin.example.com"}
		if len(cfg.Server.CORSOrigins) != len(want) {
			t.Fatalf("got %v", cfg.Server.CORSOrigins)
		}
		for i, origin := range want {
			if cfg.Server.CORSOrigins[i] != origin {
				t.Errorf("origin %d: got %q, want %q", i, cfg.Server.CORSOrigins[i], origin)
			}
		}
	})
}

func TestLoadConfigDurations(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "25s")
	t.Setenv("DB_HEALTH_TIMEOUT", "bogus")
	cfg := LoadConfig()
	if cfg.Server.ShutdownTimeout != 25*time.Second {
		t.Errorf("shutdown timeout: got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Store.HealthTimeout != 3*time.Second {
		t.Errorf("invalid duration must fall back to the default, got %v", cfg.Store.HealthTimeout)
	}
}
