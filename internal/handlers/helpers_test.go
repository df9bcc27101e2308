package handlers

import (
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"ecommerce-dashboard/internal/display"
	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func approved(day int) time.Time {
	return time.Date(2017, 1, day, 10, 0, 0, 0, time.UTC)
}

// createTestAnalytics holds two orders on Jan 1 and Jan 3 2017 plus one
// unapproved order.
func createTestAnalytics() *services.Analytics {
	a := services.NewAnalytics(8)
	a.SetData([]models.Transaction{
		{OrderID: "1", CustomerID: "c1", CustomerState: "SP", CustomerCity: "sao paulo", OrderStatus: "delivered",
			OrderApprovedAt: approved(1), ProductID: "p1", ProductCategory: "bed_bath_table",
			Price: decimal.RequireFromString("100"), PaymentValue: decimal.RequireFromString("100"), ReviewScore: 5},
		{OrderID: "1", CustomerID: "c1", CustomerState: "SP", CustomerCity: "sao paulo", OrderStatus: "delivered",
			OrderApprovedAt: approved(1), ProductID: "p2", ProductCategory: "toys",
			Price: decimal.RequireFromString("100"), PaymentValue: decimal.RequireFromString("100"), ReviewScore: 5},
		{OrderID: "2", CustomerID: "c2", CustomerState: "RJ", CustomerCity: "rio de janeiro", OrderStatus: "shipped",
			OrderApprovedAt: approved(3), ProductID: "p3", ProductCategory: "bed_bath_table",
			Price: decimal.RequireFromString("50"), PaymentValue: decimal.RequireFromString("50"), ReviewScore: 3},
		{OrderID: "3", CustomerID: "c3", CustomerState: "MG", OrderStatus: "canceled", ProductID: "p4",
			ProductCategory: "toys", Price: decimal.RequireFromString("10"), PaymentValue: decimal.RequireFromString("10")},
	}, []models.Geolocation{
		{CustomerUniqueID: "u1", Latitude: -23.5, Longitude: -46.6},
		{CustomerUniqueID: "u2", Latitude: -22.9, Longitude: -43.2},
	})
	return a
}

func testFormatter() display.Formatter {
	return display.NewFormatter("BRL")
}
