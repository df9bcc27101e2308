package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ecommerce-dashboard/internal/dataset"
	"ecommerce-dashboard/internal/models"
)

// Aggregator computes the dashboard's summary tables over one filtered
// transaction table. It never modifies the table and every call recomputes
// from it, so repeated calls return equal results. An empty table yields
// empty (non-nil) summaries.
type Aggregator struct {
	table *dataset.Table
}

func NewAggregator(table *dataset.Table) *Aggregator {
	return &Aggregator{table: table}
}

func orderID(tx *models.Transaction) string { return tx.OrderID }

func customerID(tx *models.Transaction) string { return tx.CustomerID }

func payment(tx *models.Transaction) decimal.Decimal { return tx.PaymentValue }

func price(tx *models.Transaction) decimal.Decimal { return tx.Price }

// DailyOrdersAndRevenue resamples rows into calendar days of the approval
// timestamp, counting distinct orders and summing payments. Every day between
// the first and last approved row appears, with zeros when nothing was
// approved that day.
func (a *Aggregator) DailyOrdersAndRevenue() ([]models.DailyOrders, error) {
	if err := a.table.Require(dataset.ColOrderApprovedAt, dataset.ColOrderID, dataset.ColPaymentValue); err != nil {
		return nil, err
	}

	approved := func(tx *models.Transaction) bool { return !tx.OrderApprovedAt.IsZero() }
	day := func(tx *models.Transaction) time.Time { return models.Day(tx.OrderApprovedAt) }
	groups := groupWhere(a.table, approved, day, both(distinctCount(orderID), sum(payment)))

	out := []models.DailyOrders{}
	if len(groups) == 0 {
		return out, nil
	}

	byDay := make(map[time.Time]pair[int, decimal.Decimal], len(groups))
	first, last := groups[0].key, groups[0].key
	for _, g := range groups {
		byDay[g.key] = g.value
		if g.key.Before(first) {
			first = g.key
		}
		if g.key.After(last) {
			last = g.key
		}
	}

	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		row := models.DailyOrders{Date: d, Revenue: decimal.Zero}
		if v, ok := byDay[d]; ok {
			row.OrderCount = v.first
			row.Revenue = v.second
		}
		out = append(out, row)
	}
	return out, nil
}

// ProductPerformance counts line items per product category, most sold
// first. Underscores in category names become spaces.
func (a *Aggregator) ProductPerformance() (models.ProductRanking, error) {
	if err := a.table.Require(dataset.ColProductCategory, dataset.ColProductID); err != nil {
		return nil, err
	}

	groups := groupBy(a.table, func(tx *models.Transaction) string { return tx.ProductCategory }, rowCount())
	sortDesc(groups, cmpInt)

	out := make(models.ProductRanking, len(groups))
	for i, g := range groups {
		out[i] = models.CategoryQuantity{
			CategoryName:  strings.ReplaceAll(g.key, "_", " "),
			TotalQuantity: g.value,
		}
	}
	return out, nil
}

// customersBy counts distinct customers per key column, largest first.
func customersBy[K comparable](t *dataset.Table, column string, key func(*models.Transaction) K) ([]group[K, int], error) {
	if err := t.Require(column, dataset.ColCustomerID); err != nil {
		return nil, err
	}
	groups := groupBy(t, key, distinctCount(customerID))
	sortDesc(groups, cmpInt)
	return groups, nil
}

func (a *Aggregator) CustomersByState() ([]models.StateCustomers, error) {
	groups, err := customersBy(a.table, dataset.ColCustomerState, func(tx *models.Transaction) string { return tx.CustomerState })
	if err != nil {
		return nil, err
	}
	out := make([]models.StateCustomers, len(groups))
	for i, g := range groups {
		out[i] = models.StateCustomers{State: g.key, CustomerCount: g.value}
	}
	return out, nil
}

func (a *Aggregator) CustomersByCity() ([]models.CityCustomers, error) {
	groups, err := customersBy(a.table, dataset.ColCustomerCity, func(tx *models.Transaction) string { return tx.CustomerCity })
	if err != nil {
		return nil, err
	}
	out := make([]models.CityCustomers, len(groups))
	for i, g := range groups {
		out[i] = models.CityCustomers{City: g.key, CustomerCount: g.value}
	}
	return out, nil
}

func (a *Aggregator) OrderStatusDistribution() ([]models.StatusCustomers, error) {
	groups, err := customersBy(a.table, dataset.ColOrderStatus, func(tx *models.Transaction) string { return tx.OrderStatus })
	if err != nil {
		return nil, err
	}
	out := make([]models.StatusCustomers, len(groups))
	for i, g := range groups {
		out[i] = models.StatusCustomers{Status: g.key, CustomerCount: g.value}
	}
	return out, nil
}

// ReviewScoreDistribution counts distinct customers per review score.
func (a *Aggregator) ReviewScoreDistribution() ([]models.ReviewCustomers, error) {
	groups, err := customersBy(a.table, dataset.ColReviewScore, func(tx *models.Transaction) int { return tx.ReviewScore })
	if err != nil {
		return nil, err
	}
	out := make([]models.ReviewCustomers, len(groups))
	for i, g := range groups {
		out[i] = models.ReviewCustomers{ReviewScore: g.key, CustomerCount: g.value}
	}
	return out, nil
}

// CustomerSpend sums line-item prices per customer, biggest spender first.
func (a *Aggregator) CustomerSpend() ([]models.CustomerSpend, error) {
	if err := a.table.Require(dataset.ColCustomerID, dataset.ColPrice); err != nil {
		return nil, err
	}

	groups := groupBy(a.table, customerID, sum(price))
	sortDesc(groups, cmpDecimal)

	out := make([]models.CustomerSpend, len(groups))
	for i, g := range groups {
		out[i] = models.CustomerSpend{CustomerID: g.key, Price: g.value}
	}
	return out, nil
}
