// Package config provides application configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrConfigurationMissing is returned when a required setting is absent.
var ErrConfigurationMissing = errors.New("required configuration missing")

var errNotFinite = errors.New("value must be finite")

// DefaultChartColors is the chart palette used when CHART_COLORS is unset.
var DefaultChartColors = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd"}

// Config holds all application configuration.
type Config struct {
	Port            string
	FrontendURL     string
	Debug           bool
	InitialCredits  float64
	MaxVirtualTrees int // informational, not enforced by the ledger
	DatabaseURL     string
	SessionTTL      time.Duration
	ChartColors     []string
	AI              AIConfig
	RateLimit       RateLimitConfig
}

// AIConfig configures the advisory client.
type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int64
	Temperature float64
	Timeout     time.Duration
}

// RateLimitConfig bounds advisory calls per browser identity.
type RateLimitConfig struct {
	RequestsPerWindow int
	WindowDuration    time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	initialCredits, err := getEnvFloat("INITIAL_CARBON_CREDITS", 4.0)
	if err != nil {
		return nil, err
	}
	maxTrees, err := getEnvInt("MAX_VIRTUAL_TREES", 100)
	if err != nil {
		return nil, err
	}
	maxTokens, err := getEnvInt("AI_MAX_TOKENS", 300)
	if err != nil {
		return nil, err
	}
	temperature, err := getEnvFloat("AI_TEMPERATURE", 0.7)
	if err != nil {
		return nil, err
	}
	aiTimeout, err := getEnvDuration("AI_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := getEnvDuration("SESSION_TTL", 60*time.Minute)
	if err != nil {
		return nil, err
	}
	rateLimit, err := getEnvInt("AI_RATE_LIMIT", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		FrontendURL:     getEnv("FRONTEND_URL", ""),
		Debug:           getEnvBool("DEBUG", false),
		InitialCredits:  initialCredits,
		MaxVirtualTrees: maxTrees,
		DatabaseURL:     strings.TrimSpace(getEnv("DATABASE_URL", "")),
		SessionTTL:      sessionTTL,
		ChartColors:     getEnvList("CHART_COLORS", DefaultChartColors),
		AI: AIConfig{
			APIKey:      strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")),
			BaseURL:     strings.TrimSpace(getEnv("ANTHROPIC_BASE_URL", "")),
			Model:       getEnv("AI_MODEL", "claude-3-sonnet-20240229"),
			MaxTokens:   int64(maxTokens),
			Temperature: temperature,
			Timeout:     aiTimeout,
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: rateLimit,
			WindowDuration:    time.Minute,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.AI.APIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY: %w", ErrConfigurationMissing)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.InitialCredits < 0 || math.IsNaN(c.InitialCredits) || math.IsInf(c.InitialCredits, 0) {
		return fmt.Errorf("INITIAL_CARBON_CREDITS must be a finite value >= 0")
	}
	if c.AI.Model == "" {
		return fmt.Errorf("AI_MODEL cannot be empty")
	}
	if c.AI.MaxTokens <= 0 {
		return fmt.Errorf("AI_MAX_TOKENS must be > 0")
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be > 0")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if c.RateLimit.RequestsPerWindow <= 0 {
		return fmt.Errorf("AI_RATE_LIMIT must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// LogLevel returns the slog level implied by the debug flag.
func (c *Config) LogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// AllowedOrigins returns the CORS origins for the configured frontend.
func (c *Config) AllowedOrigins() []string {
	if c.IsDevelopment() {
		return []string{"*"}
	}
	return []string{strings.TrimRight(c.FrontendURL, "/")}
}

// SQLitePath resolves DATABASE_URL to a file path. It returns "" when no
// database is configured and sessions live in memory.
func (c *Config) SQLitePath() string {
	switch {
	case c.DatabaseURL == "":
		return ""
	case strings.HasPrefix(c.DatabaseURL, "sqlite:///"):
		return strings.TrimPrefix(c.DatabaseURL, "sqlite:///")
	case strings.HasPrefix(c.DatabaseURL, "sqlite://"):
		return strings.TrimPrefix(c.DatabaseURL, "sqlite://")
	default:
		return c.DatabaseURL
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "t", "true", "yes", "on":
		return true
	case "0", "f", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, errNotFinite)
	}
	return f, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}
