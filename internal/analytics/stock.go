package analytics

import "github.com/wooinsight/wooinsight-go/internal/domain"

// Stock counts catalog items by availability. Backordered products fall in
// neither the in-stock nor the out-of-stock bucket. A product is low stock
// when both stock_quantity and low_stock_amount are present and the
// quantity is at or below the threshold.
func Stock(products []domain.Product) domain.StockSummary {
	var inStock, outOfStock, lowStock int

	for _, p := range products {
		switch p.StockStatus {
		case domain.StockStatusInStock:
			inStock++
		case domain.StockStatusOutOfStock:
			outOfStock++
		}

		if p.StockQuantity != nil && p.LowStockAmount != nil && *p.StockQuantity <= *p.LowStockAmount {
			lowStock++
		}
	}

	return domain.StockSummary{
		TotalProducts: len(products),
		InStock:       inStock,
		OutOfStock:    outOfStock,
		LowStock:      lowStock,
	}
}
