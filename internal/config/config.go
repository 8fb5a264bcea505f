package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// WooCommerce store
	StoreURL       string
	ConsumerKey    string
	ConsumerSecret string

	// Model provider (OpenAI-compatible)
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	Model             string

	// HTTP clients
	HTTPTimeout  time.Duration
	ModelTimeout time.Duration

	// Pagination
	PerPage  int
	MaxPages int

	// Resilience (retries default to 0: a failed fetch degrades, it is
	// not replayed)
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Response caching
	OrdersCacheTTL  time.Duration
	CatalogCacheTTL time.Duration
	StatsCacheTTL   time.Duration

	// Observability
	OTLPEndpoint string
}

// Load reads configuration from environment variables. It returns an error
// when a required credential is absent so the process fails fast at startup
// instead of at first use.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StoreURL:       getEnv("WOOCOMMERCE_STORE_URL", ""),
		ConsumerKey:    getEnv("WOOCOMMERCE_CONSUMER_KEY", ""),
		ConsumerSecret: getEnv("WOOCOMMERCE_CONSUMER_SECRET", ""),

		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		Model:             getEnv("MODEL", "qwen/qwen3-max"),

		HTTPTimeout:  getEnvDuration("HTTP_TIMEOUT", 15*time.Second),
		ModelTimeout: getEnvDuration("MODEL_TIMEOUT", 2*time.Minute),

		PerPage:  getEnvInt("WOO_PER_PAGE", 100),
		MaxPages: getEnvInt("WOO_MAX_PAGES", 10),

		MaxRetries:     getEnvInt("MAX_RETRIES", 0),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 8),

		OrdersCacheTTL:  getEnvDuration("ORDERS_CACHE_TTL", 60*time.Second),
		CatalogCacheTTL: getEnvDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		StatsCacheTTL:   getEnvDuration("STATS_CACHE_TTL", 60*time.Second),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}

	if cfg.StoreURL == "" {
		return nil, fmt.Errorf("missing required env WOOCOMMERCE_STORE_URL")
	}
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" {
		return nil, fmt.Errorf("missing required env WOOCOMMERCE_CONSUMER_KEY / WOOCOMMERCE_CONSUMER_SECRET")
	}
	if cfg.OpenRouterAPIKey == "" {
		return nil, fmt.Errorf("missing required env OPENROUTER_API_KEY")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
