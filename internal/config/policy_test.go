package config

import (
	"os"
	"path/filepath"
	"testing"

	"hazard-route-service/internal/domain"
)

func TestParsePolicyMergesOverDefaults(t *testing.T) {
	doc := []byte(`
delays:
  JAM: {base: 12, per_severity: 6}
  weather_hazard: {base: 1, per_severity: 1}
degraded:
  traffic: true
`)
	p, err := ParsePolicy(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := p.Delays[domain.HazardJam]; got != (DelayRule{Base: 12, PerSeverity: 6}) {
		t.Errorf("jam rule = %+v", got)
	}
	if got := p.Delays[domain.HazardWeatherHazard]; got != (DelayRule{Base: 1, PerSeverity: 1}) {
		t.Errorf("weather rule = %+v", got)
	}
	if got := p.Delays[domain.HazardAccident]; got != (DelayRule{Base: 15, PerSeverity: 8}) {
		t.Errorf("accident rule should keep default, got %+v", got)
	}
	if !p.DegradedVisible("traffic") {
		t.Error("traffic should be visible")
	}
	if p.DegradedVisible("narration") {
		t.Error("narration should default to silent")
	}
}

func TestParsePolicyRejectsUnknownCategory(t *testing.T) {
	if _, err := ParsePolicy([]byte("delays:\n  meteor: {base: 1}\n")); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestLoadPolicyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte("degraded:\n  narration: true\n"), 0o644); err != nil {
		t.Fatalf("write policy: %v", err)
	}

	p, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.DegradedVisible("narration") {
		t.Error("narration should be visible")
	}

	if _, err := LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetDuration(t *testing.T) {
	t.Setenv("X_TIMEOUT", "15s")
	if got := GetDuration("X_TIMEOUT", 0); got.Seconds() != 15 {
		t.Errorf("GetDuration(15s) = %v", got)
	}
	t.Setenv("X_TIMEOUT", "7")
	if got := GetDuration("X_TIMEOUT", 0); got.Seconds() != 7 {
		t.Errorf("GetDuration(7) = %v", got)
	}
	t.Setenv("X_TIMEOUT", "soon")
	if got := GetDuration("X_TIMEOUT", 3); got != 3 {
		t.Errorf("GetDuration(garbage) = %v, want fallback", got)
	}
}
