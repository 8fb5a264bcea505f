package analytics

import (
	"sort"

	"github.com/wooinsight/wooinsight-go/internal/domain"
)

const topN = 5

// Products groups order line items by product id, accumulating quantity and
// line revenue. The full list is sorted descending by quantity (stable, so
// ties keep first-encounter order); TopProducts is the first five entries.
// This is derived from orders, not the product catalog.
func Products(orders []domain.Order) domain.ProductsSummary {
	byID := make(map[int64]*domain.ProductSales)
	var encounter []int64

	for _, o := range orders {
		for _, item := range o.LineItems {
			ps, ok := byID[item.ProductID]
			if !ok {
				ps = &domain.ProductSales{
					ProductID: item.ProductID,
					Name:      item.Name,
				}
				byID[item.ProductID] = ps
				encounter = append(encounter, item.ProductID)
			}
			ps.Quantity += item.Quantity
			ps.Revenue = ps.Revenue.AddMoney(item.Total)
		}
	}

	all := make([]domain.ProductSales, 0, len(encounter))
	for _, id := range encounter {
		all = append(all, *byID[id])
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Quantity > all[j].Quantity
	})

	top := all
	if len(top) > topN {
		top = top[:topN]
	}

	return domain.ProductsSummary{
		TopProducts: top,
		AllProducts: all,
	}
}
