package dataset

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// csvOf renders rows as CSV with the given header; missing values are empty.
func csvOf(columns []string, rows ...map[string]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(columns, ","))
	b.WriteString("\n")
	for _, r := range rows {
		vals := make([]string, len(columns))
		for i, c := range columns {
			vals[i] = r[c]
		}
		b.WriteString(strings.Join(vals, ","))
		b.WriteString("\n")
	}
	return b.String()
}

func TestReadTransactions(t *testing.T) {
	src := csvOf(Columns,
		map[string]string{
			ColOrderID: "o2", ColCustomerID: "c2", ColCustomerState: "RJ", ColCustomerCity: "rio de janeiro",
			ColOrderStatus: "delivered", ColOrderApprovedAt: "2017-01-02 10:00:00", ColProductID: "p2",
			ColProductCategory: "garden_tools", ColPrice: "50.00", ColPaymentValue: "50.00", ColReviewScore: "4.0",
		},
		map[string]string{
			ColOrderID: "o3", ColCustomerID: "c3", ColOrderStatus: "canceled", ColProductID: "p3",
			ColPrice: "10.00", ColPaymentValue: "10.00",
		},
		map[string]string{
			ColOrderID: "o1", ColCustomerID: "c1", ColCustomerState: "SP", ColCustomerCity: "sao paulo",
			ColOrderStatus: "delivered", ColOrderApprovedAt: "2017-01-01", ColProductID: "p1",
			ColProductCategory: "toys", ColPrice: "200.00", ColPaymentValue: "200.00", ColReviewScore: "5",
		},
	)

	table, err := ReadTransactions(context.Background(), strings.NewReader(src), discardLogger())
	if err != nil {
		t.Fatalf("ReadTransactions() error = %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", table.Len())
	}
	if got := table.Columns(); len(got) != len(Columns) {
		t.Errorf("Columns() = %v, want the full schema", got)
	}

	rows := table.Rows()
	wantOrder := []string{"o1", "o2", "o3"}
	for i, id := range wantOrder {
		if rows[i].OrderID != id {
			t.Errorf("row %d OrderID = %q, want %q", i, rows[i].OrderID, id)
		}
	}

	first := rows[0]
	if !first.OrderApprovedAt.Equal(time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date-only timestamp parsed as %v", first.OrderApprovedAt)
	}
	if !first.Price.Equal(decimal.RequireFromString("200")) {
		t.Errorf("Price = %s, want 200", first.Price)
	}
	if rows[1].ReviewScore != 4 {
		t.Errorf("ReviewScore = %d, want 4 from \"4.0\"", rows[1].ReviewScore)
	}
	if !rows[2].OrderApprovedAt.IsZero() || rows[2].ReviewScore != 0 {
		t.Errorf("missing values should be zero, got approved=%v score=%d", rows[2].OrderApprovedAt, rows[2].ReviewScore)
	}
}

func TestReadTransactions_SkipsMalformedRecords(t *testing.T) {
	columns := []string{ColOrderID, ColCustomerID, ColOrderApprovedAt, ColPrice, ColReviewScore}
	src := csvOf(columns,
		map[string]string{ColOrderID: "o1", ColCustomerID: "c1", ColOrderApprovedAt: "2017-01-01 10:00:00", ColPrice: "1.00"},
		map[string]string{ColOrderID: "o2", ColCustomerID: "c2", ColOrderApprovedAt: "not a date", ColPrice: "1.00"},
		map[string]string{ColOrderID: "o3", ColCustomerID: "c3", ColOrderApprovedAt: "2017-01-01 10:00:00", ColPrice: "abc"},
		map[string]string{ColOrderID: "o4", ColCustomerID: "c4", ColOrderApprovedAt: "2017-01-01 10:00:00", ColReviewScore: "4.5"},
	)

	table, err := ReadTransactions(context.Background(), strings.NewReader(src), discardLogger())
	if err != nil {
		t.Fatalf("ReadTransactions() error = %v", err)
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
}

func TestReadTransactions_PartialSchema(t *testing.T) {
	columns := []string{"\ufeff" + ColOrderID, ColCustomerID, ColCustomerState}
	src := csvOf(columns,
		map[string]string{"\ufeff" + ColOrderID: "o1", ColCustomerID: "c1", ColCustomerState: "SP"},
	)

	table, err := ReadTransactions(context.Background(), strings.NewReader(src), discardLogger())
	if err != nil {
		t.Fatalf("ReadTransactions() error = %v", err)
	}
	if !table.HasColumn(ColOrderID) {
		t.Error("byte order mark should be stripped from the first header")
	}
	if rows := table.Rows(); rows[0].OrderID != "o1" {
		t.Errorf("OrderID = %q, want o1", rows[0].OrderID)
	}

	err = table.Require(ColCustomerState, ColPrice)
	var missing *MissingColumnError
	if !errors.As(err, &missing) || missing.Column != ColPrice {
		t.Errorf("Require() error = %v, want missing %q", err, ColPrice)
	}
}

func TestReadTransactions_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"empty file", "", "empty file"},
		{"header only", strings.Join(Columns, ",") + "\n", "no valid records found"},
		{"nothing parses", ColOrderID + "," + ColPrice + "\no1,abc\n", "no valid records found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTransactions(context.Background(), strings.NewReader(tt.src), discardLogger())
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ReadTransactions() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestReadTransactions_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := csvOf([]string{ColOrderID}, map[string]string{ColOrderID: "o1"})
	if _, err := ReadTransactions(ctx, strings.NewReader(src), discardLogger()); !errors.Is(err, context.Canceled) {
		t.Errorf("ReadTransactions() error = %v, want context.Canceled", err)
	}
}

func TestLoadTransactions_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "all_data.csv")
	src := csvOf([]string{ColOrderID, ColOrderApprovedAt}, map[string]string{ColOrderID: "o1", ColOrderApprovedAt: "2017-01-01 10:00:00"})
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadTransactions(context.Background(), path, discardLogger())
	if err != nil {
		t.Fatalf("LoadTransactions() error = %v", err)
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}

	if _, err := LoadTransactions(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), discardLogger()); err == nil {
		t.Error("LoadTransactions() on a missing file should fail")
	}
}

func TestReadGeolocations(t *testing.T) {
	src := "customer_unique_id,geolocation_lat,geolocation_lng\n" +
		"u1,-23.5,-46.6\n" +
		"u2,-22.9,-43.2\n" +
		"u1,-10.0,-10.0\n" +
		"u3,bad,-43.2\n"

	points, err := ReadGeolocations(context.Background(), strings.NewReader(src), discardLogger())
	if err != nil {
		t.Fatalf("ReadGeolocations() error = %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[0].CustomerUniqueID != "u1" || points[0].Latitude != -23.5 || points[0].Longitude != -46.6 {
		t.Errorf("first point = %+v, want the first u1 row", points[0])
	}
	if points[1].CustomerUniqueID != "u2" {
		t.Errorf("second point = %+v, want u2", points[1])
	}
}

func TestReadGeolocations_MissingColumn(t *testing.T) {
	src := "customer_unique_id,geolocation_lat\nu1,-23.5\n"

	_, err := ReadGeolocations(context.Background(), strings.NewReader(src), discardLogger())
	var missing *MissingColumnError
	if !errors.As(err, &missing) || missing.Column != "geolocation_lng" {
		t.Errorf("ReadGeolocations() error = %v, want missing geolocation_lng", err)
	}
}
