package woo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wooinsight/wooinsight-go/internal/domain"
)

// Typed operations over the generic client. Each call merges caller params
// over its own defaults (caller values win) and uses the cache lifetime of
// its endpoint class.

// decodeItems unmarshals every element of a raw page concatenation.
func decodeItems[T any](endpoint string, items []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, raw := range items {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode %s item: %w", endpoint, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// --- Core resources ---

// Orders returns the complete paginated order list, latest first by default.
func (c *Client) Orders(ctx context.Context, params map[string]string) ([]domain.Order, error) {
	merged := mergeParams(map[string]string{
		"orderby": "date",
		"order":   "desc",
	}, params)

	items, err := c.GetAll(ctx, "orders", merged, c.ttl.Orders)
	if err != nil {
		return nil, err
	}
	return decodeItems[domain.Order]("orders", items)
}

// Products returns the complete paginated product catalog.
func (c *Client) Products(ctx context.Context, params map[string]string) ([]domain.Product, error) {
	items, err := c.GetAll(ctx, "products", params, c.ttl.Catalog)
	if err != nil {
		return nil, err
	}
	return decodeItems[domain.Product]("products", items)
}

// OrderRefunds returns all refunds of one order.
func (c *Client) OrderRefunds(ctx context.Context, orderID int64) ([]domain.OrderRefund, error) {
	endpoint := fmt.Sprintf("orders/%d/refunds", orderID)
	items, err := c.GetAll(ctx, endpoint, nil, c.ttl.Orders)
	if err != nil {
		return nil, err
	}
	return decodeItems[domain.OrderRefund](endpoint, items)
}

// Customers returns the complete customer list as raw records.
func (c *Client) Customers(ctx context.Context, params map[string]string) ([]json.RawMessage, error) {
	return c.GetAll(ctx, "customers", params, c.ttl.Catalog)
}

// Coupons returns the complete coupon list as raw records.
func (c *Client) Coupons(ctx context.Context, params map[string]string) ([]json.RawMessage, error) {
	return c.GetAll(ctx, "coupons", params, c.ttl.Catalog)
}

// Categories returns the complete product category list as raw records.
func (c *Client) Categories(ctx context.Context, params map[string]string) ([]json.RawMessage, error) {
	return c.GetAll(ctx, "products/categories", params, c.ttl.Catalog)
}

// ProductVariations returns all variations of one variable product.
func (c *Client) ProductVariations(ctx context.Context, productID int64, params map[string]string) ([]json.RawMessage, error) {
	endpoint := fmt.Sprintf("products/%d/variations", productID)
	return c.GetAll(ctx, endpoint, params, c.ttl.Catalog)
}

// --- Classic wc/v3 reports ---

// SalesReport fetches reports/sales. The store returns a one-element array;
// the first row is the report.
func (c *Client) SalesReport(ctx context.Context, params map[string]string) (*domain.SalesReport, error) {
	body, err := c.Get(ctx, "reports/sales", params, c.ttl.Catalog)
	if err != nil {
		return nil, err
	}

	var rows []domain.SalesReport
	if err := json.Unmarshal(body, &rows); err == nil && len(rows) > 0 {
		return &rows[0], nil
	}

	var single domain.SalesReport
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, fmt.Errorf("decode reports/sales: %w", err)
	}
	return &single, nil
}

// TopSellers fetches reports/top_sellers, five rows by default.
func (c *Client) TopSellers(ctx context.Context, params map[string]string) ([]domain.TopSeller, error) {
	merged := mergeParams(map[string]string{"per_page": "5"}, params)

	body, err := c.Get(ctx, "reports/top_sellers", merged, c.ttl.Catalog)
	if err != nil {
		return nil, err
	}

	var rows []domain.TopSeller
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode reports/top_sellers: %w", err)
	}
	return rows, nil
}

// OrdersTotals fetches reports/orders/totals.
func (c *Client) OrdersTotals(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "reports/orders/totals", nil, c.ttl.Catalog)
}

// ProductsTotals fetches reports/products/totals.
func (c *Client) ProductsTotals(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "reports/products/totals", nil, c.ttl.Catalog)
}

// CustomersTotals fetches reports/customers/totals.
func (c *Client) CustomersTotals(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "reports/customers/totals", nil, c.ttl.Catalog)
}

// CouponsTotals fetches reports/coupons/totals.
func (c *Client) CouponsTotals(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "reports/coupons/totals", nil, c.ttl.Catalog)
}

// ReviewsTotals fetches reports/reviews/totals.
func (c *Client) ReviewsTotals(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "reports/reviews/totals", nil, c.ttl.Catalog)
}

// --- wc-analytics stats (the endpoints the Analytics admin screens use) ---

// RevenueStats fetches reports/revenue/stats; the totals block carries the
// store-computed authoritative revenue figures.
func (c *Client) RevenueStats(ctx context.Context, params map[string]string) (*domain.RevenueStats, error) {
	body, err := c.GetAnalytics(ctx, "reports/revenue/stats", params)
	if err != nil {
		return nil, err
	}

	var stats domain.RevenueStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("decode reports/revenue/stats: %w", err)
	}
	return &stats, nil
}

// OrdersStats fetches reports/orders/stats.
func (c *Client) OrdersStats(ctx context.Context, params map[string]string) (json.RawMessage, error) {
	return c.GetAnalytics(ctx, "reports/orders/stats", params)
}

// ProductsStats fetches reports/products/stats.
func (c *Client) ProductsStats(ctx context.Context, params map[string]string) (json.RawMessage, error) {
	return c.GetAnalytics(ctx, "reports/products/stats", params)
}

// CustomersStats fetches reports/customers/stats.
func (c *Client) CustomersStats(ctx context.Context, params map[string]string) (json.RawMessage, error) {
	return c.GetAnalytics(ctx, "reports/customers/stats", params)
}

// CouponsStats fetches reports/coupons/stats.
func (c *Client) CouponsStats(ctx context.Context, params map[string]string) (json.RawMessage, error) {
	return c.GetAnalytics(ctx, "reports/coupons/stats", params)
}
