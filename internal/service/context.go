package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wooinsight/wooinsight-go/internal/analytics"
	"github.com/wooinsight/wooinsight-go/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// storeData holds everything the collect phase fetched for one turn. Fields
// stay nil/empty when their fetch was not planned or failed; the context
// builder renders whatever survived.
type storeData struct {
	orders      []domain.Order
	products    []domain.Product
	salesReport *domain.SalesReport
	topSellers  []domain.TopSeller

	ordersTotals    json.RawMessage
	productsTotals  json.RawMessage
	customersTotals json.RawMessage
	couponsTotals   json.RawMessage

	revenueStats *domain.RevenueStats
	ordersStats  json.RawMessage
	couponsStats json.RawMessage

	summary *domain.Summary
}

// collect runs the fetches selected by the plan concurrently. A failed fetch
// is logged and counted but never aborts the batch; the model works with
// whatever data arrived. Each goroutine writes its own field, so no locking.
func (a *Assistant) collect(ctx context.Context, plan domain.FetchPlan) *storeData {
	ctx, span := tracer.Start(ctx, "Assistant.collect")
	defer span.End()

	data := &storeData{}
	hasRange := !plan.Range.IsZero()

	g, gCtx := errgroup.WithContext(ctx)

	fetch := func(name string, fn func(ctx context.Context) error) {
		g.Go(func() error {
			if err := fn(gCtx); err != nil {
				a.logger.Warn("store fetch degraded",
					zap.String("fetch", name),
					zap.Error(err),
				)
				a.metrics.IncrUpstreamError(name)
			}
			return nil
		})
	}

	if plan.WantsSales || hasRange {
		fetch("orders", func(ctx context.Context) error {
			orders, err := a.store.Orders(ctx, map[string]string{"status": "any"})
			if err != nil {
				return err
			}
			data.orders = orders
			return nil
		})

		fetch("sales_report", func(ctx context.Context) error {
			params := map[string]string{}
			if hasRange {
				params["date_min"] = plan.Range.From
				params["date_max"] = plan.Range.To
			}
			report, err := a.store.SalesReport(ctx, params)
			if err != nil {
				return err
			}
			data.salesReport = report
			return nil
		})

		fetch("orders_totals", func(ctx context.Context) error {
			totals, err := a.store.OrdersTotals(ctx)
			if err != nil {
				return err
			}
			data.ordersTotals = totals
			return nil
		})
	}

	if plan.WantsProducts {
		fetch("products", func(ctx context.Context) error {
			products, err := a.store.Products(ctx, map[string]string{"status": "any"})
			if err != nil {
				return err
			}
			data.products = products
			return nil
		})

		fetch("top_sellers", func(ctx context.Context) error {
			sellers, err := a.store.TopSellers(ctx, map[string]string{"per_page": "10"})
			if err != nil {
				return err
			}
			data.topSellers = sellers
			return nil
		})

		fetch("products_totals", func(ctx context.Context) error {
			totals, err := a.store.ProductsTotals(ctx)
			if err != nil {
				return err
			}
			data.productsTotals = totals
			return nil
		})
	}

	fetch("customers_totals", func(ctx context.Context) error {
		totals, err := a.store.CustomersTotals(ctx)
		if err != nil {
			return err
		}
		data.customersTotals = totals
		return nil
	})

	fetch("coupons_totals", func(ctx context.Context) error {
		totals, err := a.store.CouponsTotals(ctx)
		if err != nil {
			return err
		}
		data.couponsTotals = totals
		return nil
	})

	if plan.WantsAnalytics {
		statsParams := map[string]string{"interval": "day", "per_page": "100"}
		if hasRange {
			statsParams["after"] = plan.Range.From + "T00:00:00Z"
			statsParams["before"] = plan.Range.To + "T23:59:59Z"
		}

		fetch("revenue_stats", func(ctx context.Context) error {
			stats, err := a.store.RevenueStats(ctx, statsParams)
			if err != nil {
				return err
			}
			data.revenueStats = stats
			return nil
		})

		fetch("orders_stats", func(ctx context.Context) error {
			stats, err := a.store.OrdersStats(ctx, statsParams)
			if err != nil {
				return err
			}
			data.ordersStats = stats
			return nil
		})

		fetch("coupons_stats", func(ctx context.Context) error {
			stats, err := a.store.CouponsStats(ctx, statsParams)
			if err != nil {
				return err
			}
			data.couponsStats = stats
			return nil
		})
	}

	// fetch closures never return errors
	_ = g.Wait()

	if len(data.orders) > 0 || len(data.products) > 0 {
		data.summary = analytics.BuildSummary(data.orders, data.products)
	}

	return data
}

// buildContext renders the fetched data as the fixed-format text block the
// model receives. Store-computed totals come first so the model never has a
// reason to add up orders itself.
func buildContext(data *storeData) string {
	totalSales := "unavailable"
	netSales := "unavailable"
	if data.revenueStats != nil && data.revenueStats.Totals != nil {
		if gs := data.revenueStats.Totals.GrossSales; gs != nil {
			totalSales = gs.String()
		}
		if nr := data.revenueStats.Totals.NetRevenue; nr != nil {
			netSales = nr.String()
		}
	}
	if totalSales == "unavailable" && data.salesReport != nil && data.salesReport.TotalSales != nil {
		totalSales = data.salesReport.TotalSales.String()
	}
	if netSales == "unavailable" && data.salesReport != nil && data.salesReport.NetSales != nil {
		netSales = data.salesReport.NetSales.String()
	}

	recentOrders := make([]string, 0, 10)
	for i, o := range data.orders {
		if i == 10 {
			break
		}
		recentOrders = append(recentOrders, fmt.Sprintf("#%d %s $%s", o.ID, o.Status, o.Total.String()))
	}

	recentProducts := make([]string, 0, 10)
	for i, p := range data.products {
		if i == 10 {
			break
		}
		recentProducts = append(recentProducts, fmt.Sprintf("%q $%s", p.Name, p.Price.String()))
	}

	sellers := make([]string, 0, len(data.topSellers))
	for _, t := range data.topSellers {
		sellers = append(sellers, fmt.Sprintf("%q qty:%d total:$%s", t.Name, t.Quantity, t.Total.String()))
	}

	var b strings.Builder
	b.WriteString("AUTHORITATIVE TOTALS (DO NOT CALCULATE):\n")
	fmt.Fprintf(&b, "TOTAL_SALES: %s\n", totalSales)
	fmt.Fprintf(&b, "NET_SALES: %s\n\n", netSales)

	b.WriteString("REPORT TOTALS:\n")
	fmt.Fprintf(&b, "ORDERS_TOTALS: %s\n", rawOrNull(data.ordersTotals))
	fmt.Fprintf(&b, "PRODUCTS_TOTALS: %s\n", rawOrNull(data.productsTotals))
	fmt.Fprintf(&b, "CUSTOMERS_TOTALS: %s\n", rawOrNull(data.customersTotals))
	fmt.Fprintf(&b, "COUPONS_TOTALS: %s\n\n", rawOrNull(data.couponsTotals))

	b.WriteString("ANALYTICS (SOURCE OF TRUTH):\n")
	fmt.Fprintf(&b, "REVENUE_STATS: %s\n", jsonOrNull(data.revenueStats))
	fmt.Fprintf(&b, "ORDERS_STATS: %s\n", rawOrNull(data.ordersStats))
	fmt.Fprintf(&b, "COUPONS_STATS: %s\n\n", rawOrNull(data.couponsStats))

	if data.summary != nil {
		b.WriteString("LOCAL AGGREGATION (computed from fetched orders/products):\n")
		fmt.Fprintf(&b, "SUMMARY: %s\n\n", jsonOrNull(data.summary))
	}

	b.WriteString("RECENT (DISPLAY ONLY - NOT TOTALS):\n")
	fmt.Fprintf(&b, "ORDERS: %s\n", strings.Join(recentOrders, "; "))
	fmt.Fprintf(&b, "PRODUCTS: %s\n\n", strings.Join(recentProducts, "; "))

	b.WriteString("TOP SELLERS:\n")
	b.WriteString(strings.Join(sellers, "; "))

	return strings.TrimSpace(b.String())
}

func rawOrNull(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	return string(raw)
}

func jsonOrNull(v any) string {
	if v == nil {
		return "null"
	}
	out, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(out)
}

const systemPromptFormat = `You are an e-commerce analyst.

CRITICAL RULES:
- NEVER calculate total sales from orders.
- ALWAYS use TOTAL_SALES if present.
- If TOTAL_SALES is unavailable, say totals cannot be determined.
- Orders are DISPLAY ONLY.

Use ONLY this data:
%s

Respond in EXACT JSON:
{
  "narrative": "1-2 sentence summary.",
  "chart": { "type": "bar", "data": { "labels": [...], "datasets": [...] } },
  "table": [{"item": "Name", "value": 100}],
  "recommendation": "Optional tip."
}
Omit unused fields.`
