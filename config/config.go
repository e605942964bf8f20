// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/warp/benefits-engine/benefits"
	"github.com/warp/benefits-engine/seed"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv string
	Port   string

	StorageBackend string
	SQLitePath     string
	RedisURL       string
	DataDir        string
	StorageKey     string

	Rates benefits.Rates
	Seed  seed.Generator

	ListPageSize       int
	LogLevel           string
	LogFormat          string
	CORSAllowedOrigins []string
	SummaryInterval    time.Duration
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	p := parser{k: k}
	cfg := &Config{
		AppEnv:         valueOrDefault(k.String("APP_ENV"), "development"),
		Port:           valueOrDefault(k.String("PORT"), "8080"),
		StorageBackend: strings.ToLower(valueOrDefault(k.String("STORAGE_BACKEND"), BackendSQLite)),
		SQLitePath:     valueOrDefault(k.String("SQLITE_PATH"), "benefits.db"),
		RedisURL:       strings.TrimSpace(k.String("REDIS_URL")),
		DataDir:        valueOrDefault(k.String("DATA_DIR"), "data"),
		StorageKey:     valueOrDefault(k.String("STORAGE_KEY"), "employees"),
		Rates: benefits.Rates{
			EmployeeCost:       p.float("EMPLOYEE_COST", benefits.DefaultEmployeeCost),
			DependentCost:      p.float("DEPENDENT_COST", benefits.DefaultDependentCost),
			PayPeriods:         p.int("PAY_PERIODS", benefits.DefaultPayPeriods),
			DiscountMultiplier: p.float("DISCOUNT_FACTOR", benefits.DefaultDiscountMultiplier),
		},
		Seed: seed.Generator{
			Seed:          int64(p.int("SEED_RANDOM", 1)),
			Count:         p.int("SEED_EMPLOYEES", seed.DefaultCount),
			MaxDependents: p.int("SEED_MAX_DEPENDENTS", seed.DefaultMaxDependents),
		},
		ListPageSize:       p.int("LIST_PAGE_SIZE", benefits.DefaultPageSize),
		LogLevel:           valueOrDefault(k.String("LOG_LEVEL"), "info"),
		LogFormat:          valueOrDefault(k.String("LOG_FORMAT"), "json"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		SummaryInterval:    parseDuration(k.String("SUMMARY_INTERVAL"), "1m"),
	}
	if p.err != nil {
		return nil, p.err
	}

	switch cfg.StorageBackend {
	case BackendSQLite, BackendFile, BackendMemory:
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when STORAGE_BACKEND=%s", BackendRedis)
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
	if err := cfg.Rates.Validate(); err != nil {
		return nil, err
	}
	if cfg.ListPageSize <= 0 {
		return nil, fmt.Errorf("LIST_PAGE_SIZE must be positive, got %d", cfg.ListPageSize)
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// parser reads typed values and keeps the first error.
type parser struct {
	k   *koanf.Koanf
	err error
}

func (p *parser) float(key string, fallback float64) float64 {
	raw := strings.TrimSpace(p.k.String(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %q is not a number", key, raw)
	}
	return v
}

func (p *parser) int(key string, fallback int) int {
	raw := strings.TrimSpace(p.k.String(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %q is not an integer", key, raw)
	}
	return v
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}
