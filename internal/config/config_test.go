package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("PRIMARY_TIMEOUT", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.PrimaryTimeout != 10*time.Second || cfg.SecondaryTimeout != 15*time.Second {
		t.Errorf("timeouts = %v / %v", cfg.PrimaryTimeout, cfg.SecondaryTimeout)
	}
	if cfg.AllowedOrigins != nil {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PRIMARY_TIMEOUT", "3s")
	t.Setenv("SECONDARY_TIMEOUT", "20")
	t.Setenv("SESSION_IDLE_TTL", "not-a-duration")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, ,https://maps.example.com")
	t.Setenv("LOG_DEV", "true")

	cfg := Load()
	if cfg.PrimaryTimeout != 3*time.Second {
		t.Errorf("PrimaryTimeout = %v", cfg.PrimaryTimeout)
	}
	if cfg.SecondaryTimeout != 20*time.Second {
		t.Errorf("SecondaryTimeout = %v", cfg.SecondaryTimeout)
	}
	if cfg.SessionIdleTTL != 30*time.Minute {
		t.Errorf("invalid duration should fall back, got %v", cfg.SessionIdleTTL)
	}
	want := []string{"http://localhost:5173", "https://maps.example.com"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if !cfg.DevLog {
		t.Error("DevLog should be true")
	}
}

func TestGetInt(t *testing.T) {
	t.Setenv("SOME_INT", "42")
	if got := GetInt("SOME_INT", 1); got != 42 {
		t.Errorf("GetInt = %d", got)
	}
	t.Setenv("SOME_INT", "x")
	if got := GetInt("SOME_INT", 1); got != 1 {
		t.Errorf("GetInt fallback = %d", got)
	}
}
