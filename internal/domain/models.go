package domain

import "encoding/json"

// ============================================================
// WooCommerce store entities (wc/v3 wire shapes)
// ============================================================
//
// All entities are request-scoped snapshots decoded from the store API.
// Optional numeric fields are pointers so downstream code can distinguish
// "absent" from zero instead of relying on dynamic shapes.

// Order statuses that count towards gross revenue.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusOnHold     = "on-hold"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
	OrderStatusFailed     = "failed"
)

// Product stock statuses.
const (
	StockStatusInStock     = "instock"
	StockStatusOutOfStock  = "outofstock"
	StockStatusOnBackorder = "onbackorder"
)

// Order is a store order as returned by GET /wp-json/wc/v3/orders.
type Order struct {
	ID            int64         `json:"id"`
	Status        string        `json:"status"`
	Currency      string        `json:"currency,omitempty"`
	DateCreated   string        `json:"date_created,omitempty"`
	Total         Money         `json:"total"`
	TotalTax      Money         `json:"total_tax"`
	ShippingTotal Money         `json:"shipping_total"`
	DiscountTotal Money         `json:"discount_total"`
	LineItems     []LineItem    `json:"line_items,omitempty"`
	CouponLines   []CouponLine  `json:"coupon_lines,omitempty"`
	Refunds       []OrderRefund `json:"refunds,omitempty"`
	Billing       Billing       `json:"billing"`
}

// LineItem is one product position inside an order.
type LineItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Total     Money  `json:"total"`
}

// CouponLine records a coupon applied to an order.
type CouponLine struct {
	Code     string `json:"code"`
	Discount Money  `json:"discount"`
}

// OrderRefund is a refund attached to an order.
type OrderRefund struct {
	ID     int64  `json:"id,omitempty"`
	Amount Money  `json:"amount"`
	Reason string `json:"reason,omitempty"`
}

// Billing carries the customer-facing billing block of an order.
type Billing struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Product is a catalog item as returned by GET /wp-json/wc/v3/products.
type Product struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Price          Money  `json:"price"`
	StockStatus    string `json:"stock_status"`
	StockQuantity  *int   `json:"stock_quantity"`
	LowStockAmount *int   `json:"low_stock_amount"`
}

// TopSeller is one row of the reports/top_sellers endpoint.
type TopSeller struct {
	Name      string `json:"name"`
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Total     Money  `json:"total,omitempty"`
}

// SalesReport is the classic wc/v3 reports/sales row.
type SalesReport struct {
	TotalSales   *Money `json:"total_sales"`
	NetSales     *Money `json:"net_sales"`
	TotalOrders  int    `json:"total_orders"`
	TotalItems   int    `json:"total_items"`
	TotalTax     *Money `json:"total_tax,omitempty"`
	TotalRefunds *Money `json:"total_refunds,omitempty"`
}

// RevenueStats is the wc-analytics reports/revenue/stats payload. Only the
// totals block is interpreted; intervals are passed through verbatim.
type RevenueStats struct {
	Totals    *RevenueTotals  `json:"totals"`
	Intervals json.RawMessage `json:"intervals,omitempty"`
}

// RevenueTotals carries the authoritative store-computed totals.
type RevenueTotals struct {
	GrossSales  *Money `json:"gross_sales"`
	NetRevenue  *Money `json:"net_revenue"`
	Refunds     *Money `json:"refunds,omitempty"`
	Taxes       *Money `json:"taxes,omitempty"`
	Shipping    *Money `json:"shipping,omitempty"`
	OrdersCount *int   `json:"orders_count,omitempty"`
}

// ============================================================
// Fetch planning
// ============================================================

// DateRange is an optional literal ISO date interval extracted from a query.
type DateRange struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// IsZero reports whether no complete range was extracted.
func (r DateRange) IsZero() bool {
	return r.From == "" || r.To == ""
}

// FetchPlan is the ephemeral decision record produced by the intent
// classifier: which data categories to fetch for one user query.
type FetchPlan struct {
	WantsSales     bool      `json:"wantsSales"`
	WantsProducts  bool      `json:"wantsProducts"`
	WantsAnalytics bool      `json:"wantsAnalytics"`
	Range          DateRange `json:"dateRange"`
}

// ============================================================
// Chat transport
// ============================================================

// ChatMessage is one turn of the conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the inbound body of POST /v1/chat.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse is the non-streamed reply of POST /v1/chat?stream=false.
type ChatResponse struct {
	ConversationID string      `json:"conversationId"`
	Message        *ChatReply  `json:"message"`
	Insight        *Insight    `json:"insight,omitempty"`
	TokenUsage     *TokenUsage `json:"tokenUsage,omitempty"`
}

// ChatReply is the assistant message envelope.
type ChatReply struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// TokenUsage reports model token consumption for one turn.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// ============================================================
// Structured insight (model output contract)
// ============================================================

// Insight is the structured JSON shape the model is instructed to emit.
// All fields are optional; a reply that is not parseable as Insight is
// rendered as plain text.
type Insight struct {
	Narrative      string           `json:"narrative,omitempty"`
	Chart          *Chart           `json:"chart,omitempty"`
	Table          []map[string]any `json:"table,omitempty"`
	Recommendation string           `json:"recommendation,omitempty"`
}

// Chart describes a renderable chart (bar or line).
type Chart struct {
	Type string    `json:"type"`
	Data ChartData `json:"data"`
}

// ChartData mirrors the chart.js data shape the UI renders.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one series of a chart.
type Dataset struct {
	Label string    `json:"label,omitempty"`
	Data  []float64 `json:"data"`
}
