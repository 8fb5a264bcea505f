package analytics

import "github.com/wooinsight/wooinsight-go/internal/domain"

// Coupons sums the discount amount per coupon code across all orders'
// coupon lines, regardless of order status.
func Coupons(orders []domain.Order) domain.CouponsSummary {
	usage := make(map[string]domain.Money)

	for _, o := range orders {
		for _, c := range o.CouponLines {
			usage[c.Code] = usage[c.Code].AddMoney(c.Discount)
		}
	}

	return domain.CouponsSummary{CouponUsage: usage}
}
