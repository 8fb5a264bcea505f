package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wooinsight/wooinsight-go/internal/config"
	"github.com/wooinsight/wooinsight-go/internal/handler"
	"github.com/wooinsight/wooinsight-go/internal/infra/cache"
	"github.com/wooinsight/wooinsight-go/internal/infra/llm"
	"github.com/wooinsight/wooinsight-go/internal/infra/observability"
	"github.com/wooinsight/wooinsight-go/internal/infra/resilience"
	"github.com/wooinsight/wooinsight-go/internal/infra/woo"
	"github.com/wooinsight/wooinsight-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("store_url", cfg.StoreURL),
		zap.String("model", cfg.Model),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("model_timeout", cfg.ModelTimeout),
		zap.Int("per_page", cfg.PerPage),
		zap.Int("max_pages", cfg.MaxPages),
		zap.Int("max_retries", cfg.MaxRetries),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "wooinsight")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	storeBreaker := resilience.NewCircuitBreaker("woocommerce")
	modelBreaker := resilience.NewCircuitBreaker("openrouter")

	// --- Clients ---
	storeClient := woo.NewClient(
		&http.Client{Timeout: cfg.HTTPTimeout},
		cfg.StoreURL,
		cfg.ConsumerKey,
		cfg.ConsumerSecret,
		cfg.PerPage,
		cfg.MaxPages,
		storeBreaker,
		resilienceCfg,
		cache.New[json.RawMessage](cfg.OrdersCacheTTL),
		woo.TTLConfig{
			Orders:  cfg.OrdersCacheTTL,
			Catalog: cfg.CatalogCacheTTL,
			Stats:   cfg.StatsCacheTTL,
		},
		metrics,
		logger,
	)

	modelClient := llm.NewClient(
		&http.Client{Timeout: cfg.ModelTimeout},
		cfg.OpenRouterBaseURL,
		cfg.OpenRouterAPIKey,
		cfg.Model,
		modelBreaker,
		resilienceCfg,
		logger,
	)

	// --- Services ---
	assistantSvc := service.NewAssistant(storeClient, modelClient, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(assistantSvc, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// Write timeout must cover a full streamed model reply.
		WriteTimeout: cfg.ModelTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
