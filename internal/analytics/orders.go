package analytics

import "github.com/wooinsight/wooinsight-go/internal/domain"

// Orders builds the order-status histogram.
func Orders(orders []domain.Order) domain.OrdersSummary {
	byStatus := make(map[string]int)

	for _, o := range orders {
		byStatus[o.Status]++
	}

	return domain.OrdersSummary{
		TotalOrders: len(orders),
		ByStatus:    byStatus,
	}
}
