// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the service layer
// from concrete implementations.
package port

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wooinsight/wooinsight-go/internal/domain"
)

// StoreGateway retrieves store data from the commerce platform.
// Params are raw query parameters merged over each call's defaults
// (caller values win).
type StoreGateway interface {
	Orders(ctx context.Context, params map[string]string) ([]domain.Order, error)
	Products(ctx context.Context, params map[string]string) ([]domain.Product, error)

	SalesReport(ctx context.Context, params map[string]string) (*domain.SalesReport, error)
	TopSellers(ctx context.Context, params map[string]string) ([]domain.TopSeller, error)

	OrdersTotals(ctx context.Context) (json.RawMessage, error)
	ProductsTotals(ctx context.Context) (json.RawMessage, error)
	CustomersTotals(ctx context.Context) (json.RawMessage, error)
	CouponsTotals(ctx context.Context) (json.RawMessage, error)

	RevenueStats(ctx context.Context, params map[string]string) (*domain.RevenueStats, error)
	OrdersStats(ctx context.Context, params map[string]string) (json.RawMessage, error)
	CouponsStats(ctx context.Context, params map[string]string) (json.RawMessage, error)
}

// InsightModel streams a model reply for one turn. Each decoded token is
// passed to onToken in arrival order; an error from onToken stops the
// stream (caller disconnected). Returns token usage when the provider
// reports it.
type InsightModel interface {
	StreamChat(ctx context.Context, system string, messages []domain.ChatMessage, onToken func(token string) error) (*domain.TokenUsage, error)
}

// Cache provides generic caching with TTL. SetFor stores an entry with a
// lifetime different from the cache default.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	SetFor(key string, value T, ttl time.Duration)
	Delete(key string)
}
