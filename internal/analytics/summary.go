package analytics

import "github.com/wooinsight/wooinsight-go/internal/domain"

// BuildSummary composes all sub-summaries from one snapshot of orders and
// products. It is recomputed from scratch on every call; nothing is cached
// or versioned.
func BuildSummary(orders []domain.Order, products []domain.Product) *domain.Summary {
	return &domain.Summary{
		Revenue:   Revenue(orders),
		Orders:    Orders(orders),
		Products:  Products(orders),
		Stock:     Stock(products),
		Customers: Customers(orders),
		Coupons:   Coupons(orders),
	}
}
