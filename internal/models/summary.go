package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type DailyOrders struct {
	Date       time.Time       `json:"order_approved_at"`
	OrderCount int             `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type CategoryQuantity struct {
	CategoryName  string `json:"category_name"`
	TotalQuantity int    `json:"total_quantity"`
}

type StateCustomers struct {
	State         string `json:"customer_state"`
	CustomerCount int    `json:"customer_count"`
}

type CityCustomers struct {
	City          string `json:"customer_city"`
	CustomerCount int    `json:"customer_count"`
}

type StatusCustomers struct {
	Status        string `json:"order_status"`
	CustomerCount int    `json:"customer_count"`
}

type CustomerSpend struct {
	CustomerID string          `json:"customer_id"`
	Price      decimal.Decimal `json:"price"`
}

type ReviewCustomers struct {
	ReviewScore   int `json:"review_score"`
	CustomerCount int `json:"customer_count"`
}

// ProductRanking holds categories ordered by descending line-item count.
type ProductRanking []CategoryQuantity

// Best returns the first n categories.
func (p ProductRanking) Best(n int) []CategoryQuantity {
	return head(p, n)
}

// Worst re-sorts the ranking ascending and returns the first n. Ties keep
// the order they have in the descending ranking.
func (p ProductRanking) Worst(n int) []CategoryQuantity {
	asc := slices.Clone(p)
	slices.SortStableFunc(asc, func(a, b CategoryQuantity) int {
		return a.TotalQuantity - b.TotalQuantity
	})
	return head(asc, n)
}

func head[T any](rows []T, n int) []T {
	if n < 0 || len(rows) <= n {
		return slices.Clone(rows)
	}
	return slices.Clone(rows[:n])
}

type Totals struct {
	Orders  int             `json:"total_orders"`
	Revenue decimal.Decimal `json:"total_revenue"`
}

// Report gathers every summary table computed for one date range.
type Report struct {
	Range    DateRange         `json:"range"`
	Rows     int               `json:"rows"`
	Totals   Totals            `json:"totals"`
	Daily    []DailyOrders     `json:"daily_orders"`
	Products ProductRanking    `json:"products"`
	States   []StateCustomers  `json:"customers_by_state"`
	Cities   []CityCustomers   `json:"customers_by_city"`
	Statuses []StatusCustomers `json:"order_status"`
	Spend    []CustomerSpend   `json:"customer_spend"`
	Reviews  []ReviewCustomers `json:"review_scores"`
}

// TotalsOf sums the daily table into the headline metrics.
func TotalsOf(daily []DailyOrders) Totals {
	t := Totals{Revenue: decimal.Zero}
	for _, d := range daily {
		t.Orders += d.OrderCount
		t.Revenue = t.Revenue.Add(d.Revenue)
	}
	return t
}
