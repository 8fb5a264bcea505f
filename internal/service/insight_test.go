package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/wooinsight/wooinsight-go/internal/domain"
	"github.com/wooinsight/wooinsight-go/internal/infra/observability"
	"github.com/wooinsight/wooinsight-go/internal/service"

	"go.uber.org/zap"
)

// --- Mocks ---

type mockStore struct {
	mu     sync.Mutex
	called []string

	orders      []domain.Order
	ordersErr   error
	products    []domain.Product
	salesReport *domain.SalesReport
	topSellers  []domain.TopSeller

	revenueStats    *domain.RevenueStats
	revenueStatsErr error
}

func (m *mockStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called = append(m.called, name)
}

func (m *mockStore) wasCalled(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.called {
		if c == name {
			return true
		}
	}
	return false
}

func (m *mockStore) Orders(_ context.Context, _ map[string]string) ([]domain.Order, error) {
	m.record("orders")
	return m.orders, m.ordersErr
}

func (m *mockStore) Products(_ context.Context, _ map[string]string) ([]domain.Product, error) {
	m.record("products")
	return m.products, nil
}

func (m *mockStore) SalesReport(_ context.Context, _ map[string]string) (*domain.SalesReport, error) {
	m.record("sales_report")
	return m.salesReport, nil
}

func (m *mockStore) TopSellers(_ context.Context, _ map[string]string) ([]domain.TopSeller, error) {
	m.record("top_sellers")
	return m.topSellers, nil
}

func (m *mockStore) OrdersTotals(_ context.Context) (json.RawMessage, error) {
	m.record("orders_totals")
	return json.RawMessage(`[{"slug":"completed","total":40}]`), nil
}

func (m *mockStore) ProductsTotals(_ context.Context) (json.RawMessage, error) {
	m.record("products_totals")
	return json.RawMessage(`[{"slug":"simple","total":12}]`), nil
}

func (m *mockStore) CustomersTotals(_ context.Context) (json.RawMessage, error) {
	m.record("customers_totals")
	return json.RawMessage(`[{"slug":"paying","total":9}]`), nil
}

func (m *mockStore) CouponsTotals(_ context.Context) (json.RawMessage, error) {
	m.record("coupons_totals")
	return json.RawMessage(`[{"slug":"percent","total":2}]`), nil
}

func (m *mockStore) RevenueStats(_ context.Context, _ map[string]string) (*domain.RevenueStats, error) {
	m.record("revenue_stats")
	return m.revenueStats, m.revenueStatsErr
}

func (m *mockStore) OrdersStats(_ context.Context, _ map[string]string) (json.RawMessage, error) {
	m.record("orders_stats")
	return json.RawMessage(`{"totals":{"orders_count":40}}`), nil
}

func (m *mockStore) CouponsStats(_ context.Context, _ map[string]string) (json.RawMessage, error) {
	m.record("coupons_stats")
	return json.RawMessage(`{"totals":{"amount":"10.00"}}`), nil
}

type mockModel struct {
	tokens []string
	usage  *domain.TokenUsage
	err    error

	mu     sync.Mutex
	system string
}

func (m *mockModel) StreamChat(_ context.Context, system string, _ []domain.ChatMessage, onToken func(string) error) (*domain.TokenUsage, error) {
	m.mu.Lock()
	m.system = system
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, tok := range m.tokens {
		if err := onToken(tok); err != nil {
			return nil, nil
		}
	}
	return m.usage, nil
}

func (m *mockModel) lastSystem() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.system
}

func money(s string) domain.Money {
	var v domain.Money
	if err := v.UnmarshalJSON([]byte(`"` + s + `"`)); err != nil {
		panic(err)
	}
	return v
}

func newAssistant(store *mockStore, model *mockModel) *service.Assistant {
	return service.NewAssistant(store, model, observability.NewMetrics(), zap.NewNop())
}

func userTurn(content string) []domain.ChatMessage {
	return []domain.ChatMessage{{Role: "user", Content: content}}
}

// --- Tests ---

func TestStreamInsight_ForwardsTokensInOrder(t *testing.T) {
	model := &mockModel{
		tokens: []string{"{\"narrative\":", "\"ok\"}"},
		usage:  &domain.TokenUsage{PromptTokens: 100, CompletionTokens: 20, TotalTokens: 120},
	}
	svc := newAssistant(&mockStore{}, model)

	var got []string
	usage, err := svc.StreamInsight(context.Background(), userTurn("hello"), func(tok string) error {
		got = append(got, tok)
		return nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.Join(got, "|") != "{\"narrative\":|\"ok\"}" {
		t.Errorf("unexpected token sequence: %v", got)
	}
	if usage == nil || usage.TotalTokens != 120 {
		t.Errorf("unexpected usage: %+v", usage)
	}
}

func TestStreamInsight_EmptyMessages(t *testing.T) {
	svc := newAssistant(&mockStore{}, &mockModel{})

	_, err := svc.StreamInsight(context.Background(), nil, func(string) error { return nil })

	var vErr *domain.ErrValidation
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStreamInsight_SalesQueryFetchesSalesData(t *testing.T) {
	store := &mockStore{}
	svc := newAssistant(store, &mockModel{tokens: []string{"ok"}})

	_, err := svc.StreamInsight(context.Background(), userTurn("show my revenue"), func(string) error { return nil })
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, want := range []string{"orders", "sales_report", "orders_totals", "customers_totals", "coupons_totals"} {
		if !store.wasCalled(want) {
			t.Errorf("expected %s fetch", want)
		}
	}
	for _, not := range []string{"products", "top_sellers", "revenue_stats"} {
		if store.wasCalled(not) {
			t.Errorf("did not expect %s fetch", not)
		}
	}
}

func TestStreamInsight_DateRangeForcesAnalytics(t *testing.T) {
	store := &mockStore{}
	svc := newAssistant(store, &mockModel{tokens: []string{"ok"}})

	_, err := svc.StreamInsight(context.Background(),
		userTurn("how did 2025-01-01 to 2025-01-31 go?"),
		func(string) error { return nil })
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, want := range []string{"orders", "revenue_stats", "orders_stats", "coupons_stats"} {
		if !store.wasCalled(want) {
			t.Errorf("expected %s fetch", want)
		}
	}
}

func TestStreamInsight_ContextUsesStoreTotals(t *testing.T) {
	gross := money("1234.50")
	net := money("1100.00")
	store := &mockStore{
		revenueStats: &domain.RevenueStats{
			Totals: &domain.RevenueTotals{GrossSales: &gross, NetRevenue: &net},
		},
	}
	model := &mockModel{tokens: []string{"ok"}}
	svc := newAssistant(store, model)

	_, err := svc.StreamInsight(context.Background(), userTurn("revenue stats please"), func(string) error { return nil })
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	system := model.lastSystem()
	if !strings.Contains(system, "TOTAL_SALES: 1234.5") {
		t.Errorf("system prompt missing gross total:\n%s", system)
	}
	if !strings.Contains(system, "NET_SALES: 1100") {
		t.Errorf("system prompt missing net total:\n%s", system)
	}
	if !strings.Contains(system, "NEVER calculate total sales") {
		t.Error("system prompt missing recomputation guard")
	}
}

func TestStreamInsight_FallsBackToSalesReportTotals(t *testing.T) {
	total := money("980.00")
	store := &mockStore{salesReport: &domain.SalesReport{TotalSales: &total}}
	model := &mockModel{tokens: []string{"ok"}}
	svc := newAssistant(store, model)

	_, err := svc.StreamInsight(context.Background(), userTurn("total sales?"), func(string) error { return nil })
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(model.lastSystem(), "TOTAL_SALES: 980") {
		t.Errorf("expected sales report fallback:\n%s", model.lastSystem())
	}
}

func TestStreamInsight_UnavailableTotals(t *testing.T) {
	model := &mockModel{tokens: []string{"ok"}}
	svc := newAssistant(&mockStore{}, model)

	_, err := svc.StreamInsight(context.Background(), userTurn("revenue?"), func(string) error { return nil })
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(model.lastSystem(), "TOTAL_SALES: unavailable") {
		t.Errorf("expected unavailable marker:\n%s", model.lastSystem())
	}
}

func TestStreamInsight_FailedFetchDegrades(t *testing.T) {
	store := &mockStore{
		ordersErr:       errors.New("connection refused"),
		revenueStatsErr: errors.New("upstream 500"),
	}
	model := &mockModel{tokens: []string{"ok"}}
	svc := newAssistant(store, model)

	_, err := svc.StreamInsight(context.Background(),
		userTurn("revenue analytics please"),
		func(string) error { return nil })
	if err != nil {
		t.Fatalf("fetch failure must degrade, not abort: %v", err)
	}

	if !strings.Contains(model.lastSystem(), "TOTAL_SALES: unavailable") {
		t.Error("degraded context should mark totals unavailable")
	}
}

func TestStreamInsight_ModelError(t *testing.T) {
	model := &mockModel{err: &domain.ErrModelProvider{Err: errors.New("status 429")}}
	svc := newAssistant(&mockStore{}, model)

	_, err := svc.StreamInsight(context.Background(), userTurn("hi"), func(string) error { return nil })

	var mErr *domain.ErrModelProvider
	if !errors.As(err, &mErr) {
		t.Fatalf("expected model provider error, got %v", err)
	}
}

func TestStreamInsight_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newAssistant(&mockStore{}, &mockModel{tokens: []string{"ok"}})

	_, err := svc.StreamInsight(ctx, userTurn("hi"), func(string) error { return nil })
	if err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}

func TestInsight_AssemblesReply(t *testing.T) {
	model := &mockModel{
		tokens: []string{`{"narrative":`, `"steady growth"}`},
		usage:  &domain.TokenUsage{PromptTokens: 50, CompletionTokens: 10, TotalTokens: 60},
	}
	svc := newAssistant(&mockStore{}, model)

	content, usage, err := svc.Insight(context.Background(), userTurn("how are sales?"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if content != `{"narrative":"steady growth"}` {
		t.Errorf("unexpected content %q", content)
	}
	if usage == nil || usage.TotalTokens != 60 {
		t.Errorf("unexpected usage: %+v", usage)
	}
}

func TestBuildSummary_Success(t *testing.T) {
	store := &mockStore{
		orders: []domain.Order{
			{ID: 1, Status: domain.OrderStatusCompleted, Total: money("50.00"),
				LineItems: []domain.LineItem{{ProductID: 7, Name: "Mug", Quantity: 2, Total: money("50.00")}},
				Billing:   domain.Billing{Email: "a@example.com"}},
		},
		products: []domain.Product{
			{ID: 7, Name: "Mug", StockStatus: domain.StockStatusInStock},
		},
	}
	svc := newAssistant(store, &mockModel{})

	summary, err := svc.BuildSummary(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.Orders.TotalOrders != 1 {
		t.Errorf("expected 1 order, got %d", summary.Orders.TotalOrders)
	}
	if summary.Stock.InStock != 1 {
		t.Errorf("expected 1 in-stock product, got %d", summary.Stock.InStock)
	}
	if len(summary.Products.TopProducts) != 1 || summary.Products.TopProducts[0].Quantity != 2 {
		t.Errorf("unexpected top products: %+v", summary.Products.TopProducts)
	}
}

func TestBuildSummary_FetchError(t *testing.T) {
	store := &mockStore{ordersErr: errors.New("store down")}
	svc := newAssistant(store, &mockModel{})

	if _, err := svc.BuildSummary(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}
