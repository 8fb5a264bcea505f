package analytics

import (
	"sort"

	"github.com/wooinsight/wooinsight-go/internal/domain"
)

// Customers groups orders by billing email, summing order totals per email.
// Orders without a billing email are skipped. TopCustomers is the five
// highest spenders, descending, stable on ties.
func Customers(orders []domain.Order) domain.CustomersSummary {
	byEmail := make(map[string]*domain.CustomerSpend)
	var encounter []string

	for _, o := range orders {
		email := o.Billing.Email
		if email == "" {
			continue
		}
		cs, ok := byEmail[email]
		if !ok {
			cs = &domain.CustomerSpend{Email: email}
			byEmail[email] = cs
			encounter = append(encounter, email)
		}
		cs.TotalSpent = cs.TotalSpent.AddMoney(o.Total)
	}

	customers := make([]domain.CustomerSpend, 0, len(encounter))
	for _, email := range encounter {
		customers = append(customers, *byEmail[email])
	}

	sort.SliceStable(customers, func(i, j int) bool {
		return customers[i].TotalSpent.GreaterThan(customers[j].TotalSpent.Decimal)
	})

	top := customers
	if len(top) > topN {
		top = top[:topN]
	}

	return domain.CustomersSummary{
		TotalCustomers: len(customers),
		TopCustomers:   top,
	}
}
