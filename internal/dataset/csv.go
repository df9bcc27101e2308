package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"ecommerce-dashboard/internal/models"
)

const (
	batchSize  = 10000
	maxWorkers = 10
)

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	models.DateLayout,
}

// header maps column names to record positions.
type header map[string]int

func readHeader(r *csv.Reader) (header, error) {
	names, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h := make(header, len(names))
	for i, name := range names {
		h[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	return h, nil
}

func (h header) get(record []string, column string) string {
	i, ok := h[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// LoadTransactions reads a transaction CSV. The table's column set is the
// recognised header names, so operations needing an absent column fail with
// a MissingColumnError. Rows come back stably sorted by approval time.
func LoadTransactions(ctx context.Context, filename string, logger *slog.Logger) (*Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return ReadTransactions(ctx, file, logger)
}

func ReadTransactions(ctx context.Context, src io.Reader, logger *slog.Logger) (*Table, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	var present []string
	for _, c := range Columns {
		if _, ok := h[c]; ok {
			present = append(present, c)
		}
	}

	var (
		rows    []models.Transaction
		skipped int
		batch   = make([][]string, 0, batchSize)
	)

	flush := func() error {
		parsed, bad, err := parseBatch(ctx, batch, func(rec []string) (models.Transaction, error) {
			return parseTransaction(h, rec)
		})
		if err != nil {
			return err
		}
		rows = append(rows, parsed...)
		skipped += bad
		batch = batch[:0]
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				skipped++
				continue
			}
			return nil, fmt.Errorf("read record: %w", err)
		}

		batch = append(batch, record)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return nil, err
		}
	}

	if skipped > 0 {
		logger.Warn("skipped malformed transaction records", "count", skipped)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no valid records found")
	}

	slices.SortStableFunc(rows, func(a, b models.Transaction) int {
		switch {
		case a.OrderApprovedAt.IsZero() && b.OrderApprovedAt.IsZero():
			return 0
		case a.OrderApprovedAt.IsZero():
			return 1
		case b.OrderApprovedAt.IsZero():
			return -1
		}
		return a.OrderApprovedAt.Compare(b.OrderApprovedAt)
	})

	t := NewTable(nil, present...)
	t.rows = rows
	return t, nil
}

// parseBatch parses records concurrently. Output keeps input order; records
// that fail to parse are dropped and counted.
func parseBatch[T any](ctx context.Context, batch [][]string, parse func([]string) (T, error)) ([]T, int, error) {
	type slot struct {
		v  T
		ok bool
	}
	slots := make([]slot, len(batch))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	chunk := (len(batch) + maxWorkers - 1) / maxWorkers
	for start := 0; start < len(batch); start += chunk {
		end := min(start+chunk, len(batch))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				v, err := parse(batch[i])
				if err != nil {
					continue
				}
				slots[i] = slot{v: v, ok: true}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	out := make([]T, 0, len(batch))
	for _, s := range slots {
		if s.ok {
			out = append(out, s.v)
		}
	}
	return out, len(batch) - len(out), nil
}

func parseTransaction(h header, record []string) (models.Transaction, error) {
	tx := models.Transaction{
		OrderID:          h.get(record, ColOrderID),
		CustomerID:       h.get(record, ColCustomerID),
		CustomerUniqueID: h.get(record, ColCustomerUniqueID),
		CustomerState:    h.get(record, ColCustomerState),
		CustomerCity:     h.get(record, ColCustomerCity),
		OrderStatus:      h.get(record, ColOrderStatus),
		ProductID:        h.get(record, ColProductID),
		ProductCategory:  h.get(record, ColProductCategory),
	}

	var err error
	timestamps := []struct {
		column string
		dst    *time.Time
	}{
		{ColOrderApprovedAt, &tx.OrderApprovedAt},
		{ColOrderPurchaseTimestamp, &tx.OrderPurchaseTimestamp},
		{ColOrderDeliveredCarrierDate, &tx.OrderDeliveredCarrierDate},
		{ColOrderDeliveredCustomerDate, &tx.OrderDeliveredCustomerDate},
		{ColOrderEstimatedDeliveryDate, &tx.OrderEstimatedDeliveryDate},
		{ColShippingLimitDate, &tx.ShippingLimitDate},
	}
	for _, ts := range timestamps {
		if *ts.dst, err = parseTimestamp(h.get(record, ts.column)); err != nil {
			return models.Transaction{}, fmt.Errorf("%s: %w", ts.column, err)
		}
	}

	if tx.Price, err = parseDecimal(h.get(record, ColPrice)); err != nil {
		return models.Transaction{}, fmt.Errorf("%s: %w", ColPrice, err)
	}
	if tx.PaymentValue, err = parseDecimal(h.get(record, ColPaymentValue)); err != nil {
		return models.Transaction{}, fmt.Errorf("%s: %w", ColPaymentValue, err)
	}
	if tx.ReviewScore, err = parseScore(h.get(record, ColReviewScore)); err != nil {
		return models.Transaction{}, fmt.Errorf("%s: %w", ColReviewScore, err)
	}
	return tx, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// parseScore accepts integral scores written as "4" or "4.0".
func parseScore(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("score %q is not integral", s)
	}
	return int(f), nil
}

const (
	colGeoLat = "geolocation_lat"
	colGeoLng = "geolocation_lng"
)

// LoadGeolocations reads customer coordinates, keeping the first row for
// each customer_unique_id.
func LoadGeolocations(ctx context.Context, filename string, logger *slog.Logger) ([]models.Geolocation, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return ReadGeolocations(ctx, file, logger)
}

func ReadGeolocations(ctx context.Context, src io.Reader, logger *slog.Logger) ([]models.Geolocation, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	for _, c := range []string{ColCustomerUniqueID, colGeoLat, colGeoLng} {
		if _, ok := h[c]; !ok {
			return nil, &MissingColumnError{Column: c}
		}
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	points, skipped, err := parseBatch(ctx, records, func(rec []string) (models.Geolocation, error) {
		lat, err := strconv.ParseFloat(h.get(rec, colGeoLat), 64)
		if err != nil {
			return models.Geolocation{}, err
		}
		lng, err := strconv.ParseFloat(h.get(rec, colGeoLng), 64)
		if err != nil {
			return models.Geolocation{}, err
		}
		return models.Geolocation{
			CustomerUniqueID: h.get(rec, ColCustomerUniqueID),
			Latitude:         lat,
			Longitude:        lng,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		logger.Warn("skipped malformed geolocation records", "count", skipped)
	}

	return DedupeGeolocations(points), nil
}

// DedupeGeolocations keeps the first point seen for each customer.
func DedupeGeolocations(points []models.Geolocation) []models.Geolocation {
	seen := make(map[string]struct{}, len(points))
	out := make([]models.Geolocation, 0, len(points))
	for _, p := range points {
		if _, dup := seen[p.CustomerUniqueID]; dup {
			continue
		}
		seen[p.CustomerUniqueID] = struct{}{}
		out = append(out, p)
	}
	return out
}
