// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RedisConfig provides connection settings shared by the task queue and
// the score cache.
type RedisConfig interface {
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
}

// ScoringConfig provides settings for the scoring engine and model store.
type ScoringConfig interface {
	GetModelDir() string
	GetHealthStrategy() string
	GetChurnStrategy() string
	GetScoreCacheTTL() time.Duration
}

// SchedulerConfig provides settings for the background worker.
type SchedulerConfig interface {
	RedisConfig
	GetWorkerConcurrency() int
	GetScoreRefreshInterval() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	DatabaseURL          string
	JWTAccessSecret      string
	CORSAllowAll         bool
	CORSOrigins          []string
	CORSAllowCreds       bool
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	ModelDir             string
	HealthStrategy       string
	ChurnStrategy        string
	ScoreCacheTTL        time.Duration
	WorkerConcurrency    int
	ScoreRefreshInterval time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RedisConfig implementation
func (c *Config) GetRedisAddr() string     { return c.RedisAddr }
func (c *Config) GetRedisPassword() string { return c.RedisPassword }
func (c *Config) GetRedisDB() int          { return c.RedisDB }

// ScoringConfig implementation
func (c *Config) GetModelDir() string              { return c.ModelDir }
func (c *Config) GetHealthStrategy() string        { return c.HealthStrategy }
func (c *Config) GetChurnStrategy() string         { return c.ChurnStrategy }
func (c *Config) GetScoreCacheTTL() time.Duration  { return c.ScoreCacheTTL }

// SchedulerConfig implementation
func (c *Config) GetWorkerConcurrency() int             { return c.WorkerConcurrency }
func (c *Config) GetScoreRefreshInterval() time.Duration { return c.ScoreRefreshInterval }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		JWTAccessSecret:      getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		CORSAllowCreds:       strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisDB:              mustInt(getEnv("REDIS_DB", "0")),
		ModelDir:             getEnv("SCORING_MODEL_DIR", "models"),
		HealthStrategy:       strings.ToLower(getEnv("SCORING_HEALTH_STRATEGY", "model")),
		ChurnStrategy:        strings.ToLower(getEnv("SCORING_CHURN_STRATEGY", "advanced")),
		ScoreCacheTTL:        mustDuration(getEnv("SCORE_CACHE_TTL", "1h")),
		WorkerConcurrency:    mustInt(getEnv("WORKER_CONCURRENCY", "10")),
		ScoreRefreshInterval: mustDuration(getEnv("SCORE_REFRESH_INTERVAL", "24h")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	switch cfg.HealthStrategy {
	case "model", "rules", "basic":
	default:
		return nil, fmt.Errorf("SCORING_HEALTH_STRATEGY must be model, rules, or basic")
	}
	switch cfg.ChurnStrategy {
	case "advanced", "model", "rules":
	default:
		return nil, fmt.Errorf("SCORING_CHURN_STRATEGY must be advanced, model, or rules")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
