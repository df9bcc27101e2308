package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one order line item joined with its customer, payment and
// review. Missing timestamps are the zero time, a missing review score is 0.
type Transaction struct {
	OrderID          string
	CustomerID       string
	CustomerUniqueID string
	CustomerState    string
	CustomerCity     string
	OrderStatus      string

	OrderApprovedAt            time.Time
	OrderPurchaseTimestamp     time.Time
	OrderDeliveredCarrierDate  time.Time
	OrderDeliveredCustomerDate time.Time
	OrderEstimatedDeliveryDate time.Time
	ShippingLimitDate          time.Time

	ProductID       string
	ProductCategory string

	Price        decimal.Decimal
	PaymentValue decimal.Decimal
	ReviewScore  int
}

type Geolocation struct {
	CustomerUniqueID string  `json:"customer_unique_id"`
	Latitude         float64 `json:"lat"`
	Longitude        float64 `json:"lng"`
}

// DateRange is a closed interval of calendar dates.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

const DateLayout = "2006-01-02"

func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: Day(start), End: Day(end)}
}

// Day truncates t to midnight UTC of its own calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls on a date within the range.
func (r DateRange) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	day := Day(t)
	return !day.Before(r.Start) && !day.After(r.End)
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}
