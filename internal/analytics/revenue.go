// Package analytics reduces raw store records into summary metrics.
// Every aggregation is a total, pure function: missing fields count as
// zero, no input produces an error, and output depends only on input
// (sorting/top-N is stable, ties keep encounter order).
package analytics

import "github.com/wooinsight/wooinsight-go/internal/domain"

// paidStatuses are the order statuses that contribute to gross revenue.
var paidStatuses = map[string]bool{
	domain.OrderStatusProcessing: true,
	domain.OrderStatusCompleted:  true,
}

// Revenue sums totals, tax, shipping and discounts over paid orders.
// Refund amounts are summed across ALL orders regardless of status, so an
// order outside the paid set contributes zero gross but still counts its
// refunds. NetRevenue is exactly GrossRevenue - RefundTotal.
func Revenue(orders []domain.Order) domain.RevenueSummary {
	var gross, refunds, tax, shipping, discount domain.Money

	for _, o := range orders {
		if paidStatuses[o.Status] {
			gross = gross.AddMoney(o.Total)
			tax = tax.AddMoney(o.TotalTax)
			shipping = shipping.AddMoney(o.ShippingTotal)
			discount = discount.AddMoney(o.DiscountTotal)
		}

		for _, r := range o.Refunds {
			refunds = refunds.AddMoney(r.Amount)
		}
	}

	return domain.RevenueSummary{
		GrossRevenue:      gross,
		RefundTotal:       refunds,
		NetRevenue:        gross.SubMoney(refunds),
		TaxCollected:      tax,
		ShippingCollected: shipping,
		DiscountTotal:     discount,
	}
}
