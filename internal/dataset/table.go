// Package dataset holds the transaction table the dashboard aggregates over
// and the CSV ingestion that builds it.
package dataset

import (
	"fmt"
	"slices"
	"time"

	"ecommerce-dashboard/internal/models"
)

const (
	ColOrderID                    = "order_id"
	ColCustomerID                 = "customer_id"
	ColCustomerUniqueID           = "customer_unique_id"
	ColCustomerState              = "customer_state"
	ColCustomerCity               = "customer_city"
	ColOrderStatus                = "order_status"
	ColOrderApprovedAt            = "order_approved_at"
	ColOrderPurchaseTimestamp     = "order_purchase_timestamp"
	ColOrderDeliveredCarrierDate  = "order_delivered_carrier_date"
	ColOrderDeliveredCustomerDate = "order_delivered_customer_date"
	ColOrderEstimatedDeliveryDate = "order_estimated_delivery_date"
	ColShippingLimitDate          = "shipping_limit_date"
	ColProductID                  = "product_id"
	ColProductCategory            = "product_category_name_english"
	ColPrice                      = "price"
	ColPaymentValue               = "payment_value"
	ColReviewScore                = "review_score"
)

// Columns is the full transaction schema.
var Columns = []string{
	ColOrderID, ColCustomerID, ColCustomerUniqueID, ColCustomerState, ColCustomerCity,
	ColOrderStatus, ColOrderApprovedAt, ColOrderPurchaseTimestamp, ColOrderDeliveredCarrierDate,
	ColOrderDeliveredCustomerDate, ColOrderEstimatedDeliveryDate, ColShippingLimitDate,
	ColProductID, ColProductCategory, ColPrice, ColPaymentValue, ColReviewScore,
}

// MissingColumnError reports a column an operation needs but the table lacks.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q", e.Column)
}

// Table is an immutable set of transaction rows together with the columns
// its source provided.
type Table struct {
	rows    []models.Transaction
	columns map[string]struct{}
}

// NewTable copies rows into a table. Without columns the full schema is
// assumed present.
func NewTable(rows []models.Transaction, columns ...string) *Table {
	if len(columns) == 0 {
		columns = Columns
	}
	set := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		set[c] = struct{}{}
	}
	return &Table{rows: slices.Clone(rows), columns: set}
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the rows in table order.
func (t *Table) Rows() []models.Transaction {
	return slices.Clone(t.rows)
}

// Each calls fn with a pointer to every row. fn must not modify the row.
func (t *Table) Each(fn func(*models.Transaction)) {
	for i := range t.rows {
		fn(&t.rows[i])
	}
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Columns lists the present columns in schema order.
func (t *Table) Columns() []string {
	out := make([]string, 0, len(t.columns))
	for _, c := range Columns {
		if t.HasColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

// Require returns a *MissingColumnError for the first absent column.
func (t *Table) Require(columns ...string) error {
	for _, c := range columns {
		if !t.HasColumn(c) {
			return &MissingColumnError{Column: c}
		}
	}
	return nil
}

// Filter keeps the rows approved on a date inside r, both ends inclusive.
// Rows without an approval timestamp never match.
func (t *Table) Filter(r models.DateRange) (*Table, error) {
	if err := t.Require(ColOrderApprovedAt); err != nil {
		return nil, err
	}
	out := &Table{columns: t.columns}
	for _, tx := range t.rows {
		if r.Contains(tx.OrderApprovedAt) {
			out.rows = append(out.rows, tx)
		}
	}
	return out, nil
}

// Bounds returns the first and last approval dates in the table; ok is false
// when no row carries an approval timestamp.
func (t *Table) Bounds() (r models.DateRange, ok bool) {
	var lo, hi time.Time
	for _, tx := range t.rows {
		at := tx.OrderApprovedAt
		if at.IsZero() {
			continue
		}
		if lo.IsZero() || at.Before(lo) {
			lo = at
		}
		if hi.IsZero() || at.After(hi) {
			hi = at
		}
	}
	if lo.IsZero() {
		return models.DateRange{}, false
	}
	return models.NewDateRange(lo, hi), true
}
