package domain

// ============================================================
// Store Analytics Summary
// ============================================================
//
// Derived, recomputed from scratch on every call. Sub-summaries are
// independent; the only arithmetic invariant is inside RevenueSummary
// (NetRevenue = GrossRevenue - RefundTotal).

// Summary is the full analytics summary built from orders and products.
type Summary struct {
	Revenue   RevenueSummary   `json:"revenue"`
	Orders    OrdersSummary    `json:"orders"`
	Products  ProductsSummary  `json:"products"`
	Stock     StockSummary     `json:"stock"`
	Customers CustomersSummary `json:"customers"`
	Coupons   CouponsSummary   `json:"coupons"`
}

// RevenueSummary aggregates paid-order amounts and refunds.
type RevenueSummary struct {
	GrossRevenue      Money `json:"grossRevenue"`
	RefundTotal       Money `json:"refundTotal"`
	NetRevenue        Money `json:"netRevenue"`
	TaxCollected      Money `json:"taxCollected"`
	ShippingCollected Money `json:"shippingCollected"`
	DiscountTotal     Money `json:"discountTotal"`
}

// OrdersSummary is the order-status histogram.
type OrdersSummary struct {
	TotalOrders int            `json:"totalOrders"`
	ByStatus    map[string]int `json:"byStatus"`
}

// ProductSales is per-product quantity and revenue accumulated from order
// line items (not the catalog).
type ProductSales struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Revenue   Money  `json:"revenue"`
}

// ProductsSummary ranks products by units sold.
type ProductsSummary struct {
	TopProducts []ProductSales `json:"topProducts"`
	AllProducts []ProductSales `json:"allProducts"`
}

// StockSummary counts catalog items by availability.
type StockSummary struct {
	TotalProducts int `json:"totalProducts"`
	InStock       int `json:"inStock"`
	OutOfStock    int `json:"outOfStock"`
	LowStock      int `json:"lowStock"`
}

// CustomerSpend is total spend per billing email.
type CustomerSpend struct {
	Email      string `json:"email"`
	TotalSpent Money  `json:"totalSpent"`
}

// CustomersSummary ranks customers by spend.
type CustomersSummary struct {
	TotalCustomers int             `json:"totalCustomers"`
	TopCustomers   []CustomerSpend `json:"topCustomers"`
}

// CouponsSummary maps coupon code to accumulated discount amount.
type CouponsSummary struct {
	CouponUsage map[string]Money `json:"couponUsage"`
}
