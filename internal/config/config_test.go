package config

import (
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.InitialCredits != 4.0 {
		t.Errorf("expected 4.0 initial credits, got %v", cfg.InitialCredits)
	}
	if cfg.MaxVirtualTrees != 100 {
		t.Errorf("expected 100 max trees, got %d", cfg.MaxVirtualTrees)
	}
	if cfg.AI.Model != "claude-3-sonnet-20240229" {
		t.Errorf("unexpected model %q", cfg.AI.Model)
	}
	if cfg.AI.MaxTokens != 300 {
		t.Errorf("expected 300 max tokens, got %d", cfg.AI.MaxTokens)
	}
	if cfg.AI.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.AI.Timeout)
	}
	if cfg.Debug {
		t.Error("expected debug off by default")
	}
	if cfg.LogLevel() != slog.LevelInfo {
		t.Errorf("expected info level, got %v", cfg.LogLevel())
	}
	if len(cfg.ChartColors) != len(DefaultChartColors) {
		t.Errorf("expected default palette, got %v", cfg.ChartColors)
	}
	if cfg.SQLitePath() != "" {
		t.Errorf("expected in-memory sessions by default, got %q", cfg.SQLitePath())
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := Load()
	if !errors.Is(err, ErrConfigurationMissing) {
		t.Fatalf("expected ErrConfigurationMissing, got %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	t.Setenv("DEBUG", "t")
	t.Setenv("INITIAL_CARBON_CREDITS", "2.5")
	t.Setenv("CHART_COLORS", "#000000, #ffffff ,")
	t.Setenv("DATABASE_URL", "sqlite:///data/carbon.db")
	t.Setenv("AI_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Debug || cfg.LogLevel() != slog.LevelDebug {
		t.Error("expected debug enabled")
	}
	if cfg.InitialCredits != 2.5 {
		t.Errorf("expected 2.5 initial credits, got %v", cfg.InitialCredits)
	}
	if len(cfg.ChartColors) != 2 || cfg.ChartColors[1] != "#ffffff" {
		t.Errorf("unexpected palette %v", cfg.ChartColors)
	}
	if cfg.SQLitePath() != "data/carbon.db" {
		t.Errorf("unexpected sqlite path %q", cfg.SQLitePath())
	}
	if cfg.AI.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.AI.Timeout)
	}
}

func TestLoadMalformedValues(t *testing.T) {
	tests := map[string]string{
		"INITIAL_CARBON_CREDITS": "four",
		"AI_TEMPERATURE":         "NaN",
		"AI_MAX_TOKENS":          "3OO",
		"SESSION_TTL":            "forever",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv("ANTHROPIC_API_KEY", "test-key")
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}

func TestLoadRejectsNonFiniteCredits(t *testing.T) {
	for _, value := range []string{"NaN", "Inf", "-Inf", "+Infinity"} {
		t.Run(value, func(t *testing.T) {
			t.Setenv("ANTHROPIC_API_KEY", "test-key")
			t.Setenv("INITIAL_CARBON_CREDITS", value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for INITIAL_CARBON_CREDITS=%q", value)
			}
		})
	}
}

func TestValidateRejectsNonFiniteCredits(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for _, v := range []float64{math.NaN(), math.Inf(1)} {
		cfg.InitialCredits = v
		if err := cfg.Validate(); err == nil {
			t.Errorf("Validate() accepted InitialCredits=%v", v)
		}
	}
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{FrontendURL: "https://carbon.example.com/"}
	got := cfg.AllowedOrigins()
	if len(got) != 1 || got[0] != "https://carbon.example.com" {
		t.Fatalf("unexpected origins %v", got)
	}

	dev := &Config{FrontendURL: "http://localhost:5173"}
	if got := dev.AllowedOrigins(); len(got) != 1 || got[0] != "*" {
		t.Fatalf("expected wildcard in development, got %v", got)
	}
}
