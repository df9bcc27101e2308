package services

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ecommerce-dashboard/internal/dataset"
	"ecommerce-dashboard/internal/models"
)

func day(d, hour int) time.Time {
	return time.Date(2017, 1, d, hour, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDailyOrdersAndRevenue(t *testing.T) {
	agg := NewAggregator(dataset.NewTable([]models.Transaction{
		{OrderID: "1", OrderApprovedAt: day(1, 9), PaymentValue: dec("100")},
		{OrderID: "1", OrderApprovedAt: day(1, 9), PaymentValue: dec("100")},
		{OrderID: "2", OrderApprovedAt: day(2, 14), PaymentValue: dec("50")},
	}))

	got, err := agg.DailyOrdersAndRevenue()
	if err != nil {
		t.Fatalf("DailyOrdersAndRevenue() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d days, want 2", len(got))
	}

	want := []struct {
		date    time.Time
		orders  int
		revenue string
	}{
		{day(1, 0), 1, "200"},
		{day(2, 0), 1, "50"},
	}
	for i, w := range want {
		if !got[i].Date.Equal(w.date) || got[i].OrderCount != w.orders || !got[i].Revenue.Equal(dec(w.revenue)) {
			t.Errorf("day %d = %+v, want %s orders=%d revenue=%s", i, got[i], w.date.Format(models.DateLayout), w.orders, w.revenue)
		}
	}
}

func TestDailyOrdersAndRevenue_FillsGaps(t *testing.T) {
	agg := NewAggregator(dataset.NewTable([]models.Transaction{
		{OrderID: "3", OrderApprovedAt: day(4, 8), PaymentValue: dec("30")},
		{OrderID: "1", OrderApprovedAt: day(1, 8), PaymentValue: dec("10")},
		{OrderID: "9"},
	}))

	got, err := agg.DailyOrdersAndRevenue()
	if err != nil {
		t.Fatalf("DailyOrdersAndRevenue() error = %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d days, want 4 from Jan 1 through Jan 4", len(got))
	}
	for i, d := range got {
		if !d.Date.Equal(day(i+1, 0)) {
			t.Errorf("row %d date = %v, want ascending consecutive days", i, d.Date)
		}
	}
	for _, i := range []int{1, 2} {
		if got[i].OrderCount != 0 || !got[i].Revenue.IsZero() {
			t.Errorf("gap day %d = %+v, want zero orders and revenue", i, got[i])
		}
	}
}

func TestProductPerformance(t *testing.T) {
	agg := NewAggregator(dataset.NewTable([]models.Transaction{
		{ProductID: "p1", ProductCategory: "health_beauty"},
		{ProductID: "p2", ProductCategory: "toys"},
		{ProductID: "p3", ProductCategory: "bed_bath_table"},
		{ProductID: "p4", ProductCategory: "bed_bath_table"},
		{ProductID: "p5", ProductCategory: "toys"},
		{ProductID: "p6", ProductCategory: "bed_bath_table"},
	}))

	got, err := agg.ProductPerformance()
	if err != nil {
		t.Fatalf("ProductPerformance() error = %v", err)
	}
	want := models.ProductRanking{
		{CategoryName: "bed bath table", TotalQuantity: 3},
		{CategoryName: "toys", TotalQuantity: 2},
		{CategoryName: "health beauty", TotalQuantity: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ProductPerformance() = %v, want %v", got, want)
	}

	worst := got.Worst(2)
	if worst[0].CategoryName != "health beauty" || worst[1].CategoryName != "toys" {
		t.Errorf("Worst(2) = %v, want health beauty then toys", worst)
	}
}

func TestCustomersByState(t *testing.T) {
	agg := NewAggregator(dataset.NewTable([]models.Transaction{
		{CustomerID: "c1", CustomerState: "SP"},
		{CustomerID: "c2", CustomerState: "SP"},
		{CustomerID: "c3", CustomerState: "RJ"},
	}))

	got, err := agg.CustomersByState()
	if err != nil {
		t.Fatalf("CustomersByState() error = %v", err)
	}
	want := []models.StateCustomers{{State: "SP", CustomerCount: 2}, {State: "RJ", CustomerCount: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CustomersByState() = %v, want %v", got, want)
	}
}

func TestCustomersByCity_CountsDistinctCustomers(t *testing.T) {
	agg := NewAggregator(dataset.NewTable([]models.Transaction{
		{CustomerID: "c1", CustomerCity: "campinas"},
		{CustomerID: "c1", CustomerCity: "campinas"},
		{CustomerID: "c1", CustomerCity: "campinas"},
		{CustomerID: "c2", CustomerCity: "santos"},
		{CustomerID: "c3", CustomerCity: "santos"},
	}))

	got, err := agg.CustomersByCity()
	if err != nil {
		t.Fatalf("CustomersByCity() error = %v", err)
	}
	want := []models.CityCustomers{{City: "santos", CustomerCount: 2}, {City: "campinas", CustomerCount: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CustomersByCity() = %v, want %v", got, want)
	}
}

func TestOrderStatusDistribution_TiesKeepInputOrder(t *testing.T) {
	agg := NewAggregator(dataset.NewTable([]models.Transaction{
		{CustomerID: "c1", OrderStatus: "shipped"},
		{CustomerID: "c2", OrderStatus: "canceled"},
		{CustomerID: "c3", OrderStatus: "delivered"},
		{CustomerID: "c4", OrderStatus: "delivered"},
	}))

	got, err := agg.OrderStatusDistribution()
	if err != nil {
		t.Fatalf("OrderStatusDistribution() error = %v", err)
	}
	want := []models.StatusCustomers{
		{Status: "delivered", CustomerCount: 2},
		{Status: "shipped", CustomerCount: 1},
		{Status: "canceled", CustomerCount: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("OrderStatusDistribution() = %v, want %v", got, want)
	}
}

func TestCustomerSpend(t *testing.T) {
	agg := NewAggregator(dataset.NewTable([]models.Transaction{
		{CustomerID: "c1", Price: dec("10.50")},
		{CustomerID: "c2", Price: dec("99.90")},
		{CustomerID: "c1", Price: dec("100.00")},
		{CustomerID: "c3", Price: dec("99.90")},
	}))

	got, err := agg.CustomerSpend()
	if err != nil {
		t.Fatalf("CustomerSpend() error = %v", err)
	}
	wantIDs := []string{"c1", "c2", "c3"}
	wantSums := []string{"110.50", "99.90", "99.90"}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d rows, want %d", len(got), len(wantIDs))
	}
	for i := range wantIDs {
		if got[i].CustomerID != wantIDs[i] || !got[i].Price.Equal(dec(wantSums[i])) {
			t.Errorf("row %d = %s %s, want %s %s", i, got[i].CustomerID, got[i].Price, wantIDs[i], wantSums[i])
		}
	}
}

func TestReviewScoreDistribution(t *testing.T) {
	agg := NewAggregator(dataset.NewTable([]models.Transaction{
		{CustomerID: "c1", ReviewScore: 5},
		{CustomerID: "c2", ReviewScore: 1},
		{CustomerID: "c3", ReviewScore: 5},
		{CustomerID: "c3", ReviewScore: 5},
		{CustomerID: "c4"},
	}))

	got, err := agg.ReviewScoreDistribution()
	if err != nil {
		t.Fatalf("ReviewScoreDistribution() error = %v", err)
	}
	want := []models.ReviewCustomers{
		{ReviewScore: 5, CustomerCount: 2},
		{ReviewScore: 1, CustomerCount: 1},
		{ReviewScore: 0, CustomerCount: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReviewScoreDistribution() = %v, want %v", got, want)
	}
}

func TestAggregator_EmptyInput(t *testing.T) {
	agg := NewAggregator(dataset.NewTable(nil))

	daily, err := agg.DailyOrdersAndRevenue()
	if err != nil || daily == nil || len(daily) != 0 {
		t.Errorf("DailyOrdersAndRevenue() = %v, %v; want empty non-nil table", daily, err)
	}
	products, err := agg.ProductPerformance()
	if err != nil || products == nil || len(products) != 0 {
		t.Errorf("ProductPerformance() = %v, %v; want empty non-nil table", products, err)
	}
	states, err := agg.CustomersByState()
	if err != nil || states == nil || len(states) != 0 {
		t.Errorf("CustomersByState() = %v, %v; want empty non-nil table", states, err)
	}
	cities, err := agg.CustomersByCity()
	if err != nil || cities == nil || len(cities) != 0 {
		t.Errorf("CustomersByCity() = %v, %v; want empty non-nil table", cities, err)
	}
	statuses, err := agg.OrderStatusDistribution()
	if err != nil || statuses == nil || len(statuses) != 0 {
		t.Errorf("OrderStatusDistribution() = %v, %v; want empty non-nil table", statuses, err)
	}
	spend, err := agg.CustomerSpend()
	if err != nil || spend == nil || len(spend) != 0 {
		t.Errorf("CustomerSpend() = %v, %v; want empty non-nil table", spend, err)
	}
	reviews, err := agg.ReviewScoreDistribution()
	if err != nil || reviews == nil || len(reviews) != 0 {
		t.Errorf("ReviewScoreDistribution() = %v, %v; want empty non-nil table", reviews, err)
	}
}

func TestAggregator_MissingColumns(t *testing.T) {
	rows := []models.Transaction{{OrderID: "1", CustomerID: "c1"}}
	agg := NewAggregator(dataset.NewTable(rows, dataset.ColOrderID, dataset.ColCustomerID, dataset.ColOrderApprovedAt))

	tests := []struct {
		name   string
		run    func() error
		column string
	}{
		{"daily", func() error { _, err := agg.DailyOrdersAndRevenue(); return err }, dataset.ColPaymentValue},
		{"products", func() error { _, err := agg.ProductPerformance(); return err }, dataset.ColProductCategory},
		{"state", func() error { _, err := agg.CustomersByState(); return err }, dataset.ColCustomerState},
		{"city", func() error { _, err := agg.CustomersByCity(); return err }, dataset.ColCustomerCity},
		{"status", func() error { _, err := agg.OrderStatusDistribution(); return err }, dataset.ColOrderStatus},
		{"spend", func() error { _, err := agg.CustomerSpend(); return err }, dataset.ColPrice},
		{"reviews", func() error { _, err := agg.ReviewScoreDistribution(); return err }, dataset.ColReviewScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var missing *dataset.MissingColumnError
			err := tt.run()
			if !errors.As(err, &missing) {
				t.Fatalf("error = %v, want *MissingColumnError", err)
			}
			if missing.Column != tt.column {
				t.Errorf("missing column = %q, want %q", missing.Column, tt.column)
			}
		})
	}
}
