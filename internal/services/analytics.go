package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
	"golang.org/x/sync/errgroup"

	"ecommerce-dashboard/internal/dataset"
	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/observability"
)

const DefaultCacheSize = 64

// Analytics owns the loaded transaction and geolocation data and produces
// reports for date ranges over it.
type Analytics struct {
	mu       sync.RWMutex
	table    *dataset.Table
	geo      []models.Geolocation
	loadedAt time.Time

	cacheMu sync.Mutex
	cache   *lru.Cache

	logger *slog.Logger
}

func NewAnalytics(cacheSize int) *Analytics {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	return &Analytics{
		table:  dataset.NewTable(nil),
		cache:  lru.New(cacheSize),
		logger: slog.Default(),
	}
}

// SetData replaces the held data with in-memory rows carrying the full
// schema.
func (a *Analytics) SetData(rows []models.Transaction, geo []models.Geolocation) {
	a.install(dataset.NewTable(rows), dataset.DedupeGeolocations(geo))
}

func (a *Analytics) install(table *dataset.Table, geo []models.Geolocation) {
	a.mu.Lock()
	a.table = table
	a.geo = geo
	a.loadedAt = time.Now()
	a.mu.Unlock()

	a.cacheMu.Lock()
	a.cache.Clear()
	a.cacheMu.Unlock()

	observability.SetLoadedRows("transactions", table.Len())
	observability.SetLoadedRows("geolocations", len(geo))
}

// Load reads both CSV files concurrently. An empty geolocation path skips
// the map data.
func (a *Analytics) Load(ctx context.Context, transactionsPath, geolocationPath string) error {
	start := time.Now()
	a.logger.Info("loading datasets", "transactions", transactionsPath, "geolocations", geolocationPath)

	var (
		table *dataset.Table
		geo   []models.Geolocation
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := dataset.LoadTransactions(ctx, transactionsPath, a.logger)
		if err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}
		table = t
		return nil
	})
	if geolocationPath != "" {
		g.Go(func() error {
			points, err := dataset.LoadGeolocations(ctx, geolocationPath, a.logger)
			if err != nil {
				return fmt.Errorf("load geolocations: %w", err)
			}
			geo = points
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	a.install(table, geo)

	duration := time.Since(start)
	a.logger.Info("datasets loaded",
		"transactions", table.Len(),
		"geolocations", len(geo),
		"columns", len(table.Columns()),
		"duration", duration,
		"rate", fmt.Sprintf("%.0f records/sec", float64(table.Len())/duration.Seconds()))
	return nil
}

// Ready reports whether data has been installed.
func (a *Analytics) Ready() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return !a.loadedAt.IsZero()
}

// Bounds is the date range covering every approved transaction.
func (a *Analytics) Bounds() (models.DateRange, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.table.Bounds()
}

func (a *Analytics) Geolocations() []models.Geolocation {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.geo
}

// Report filters the data to r and computes every summary table. Results
// are memoised per range until new data is installed.
func (a *Analytics) Report(ctx context.Context, r models.DateRange) (*models.Report, error) {
	key := r.String()

	a.cacheMu.Lock()
	cached, ok := a.cache.Get(key)
	a.cacheMu.Unlock()
	observability.CountReportCache(ok)
	if ok {
		return cached.(*models.Report), nil
	}

	a.mu.RLock()
	table := a.table
	a.mu.RUnlock()

	ctx, span := observability.StartSpan(ctx, "analytics.report")
	defer span.Finish()
	span.SetTag("range", key)

	filtered, err := table.Filter(r)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("filter %s: %w", key, err)
	}

	report, err := buildReport(NewAggregator(filtered))
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	report.Range = r
	report.Rows = filtered.Len()

	a.cacheMu.Lock()
	a.cache.Add(key, report)
	a.cacheMu.Unlock()

	a.logger.Debug("report computed", "range", key, "rows", report.Rows, "request_id", observability.GetRequestID(ctx))
	return report, nil
}

// buildReport runs the seven aggregations in parallel; they share only the
// read-only table.
func buildReport(agg *Aggregator) (*models.Report, error) {
	report := &models.Report{}
	var g errgroup.Group

	run := func(name string, fn func() error) {
		g.Go(func() error {
			start := time.Now()
			err := fn()
			observability.ObserveAggregation(name, time.Since(start))
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}

	run("daily_orders", func() (err error) { report.Daily, err = agg.DailyOrdersAndRevenue(); return })
	run("product_performance", func() (err error) { report.Products, err = agg.ProductPerformance(); return })
	run("customers_by_state", func() (err error) { report.States, err = agg.CustomersByState(); return })
	run("customers_by_city", func() (err error) { report.Cities, err = agg.CustomersByCity(); return })
	run("order_status", func() (err error) { report.Statuses, err = agg.OrderStatusDistribution(); return })
	run("customer_spend", func() (err error) { report.Spend, err = agg.CustomerSpend(); return })
	run("review_scores", func() (err error) { report.Reviews, err = agg.ReviewScoreDistribution(); return })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	report.Totals = models.TotalsOf(report.Daily)
	return report, nil
}

// Stats summarises the held data for the admin endpoint.
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := map[string]any{
		"record_count":      a.table.Len(),
		"geolocation_count": len(a.geo),
		"columns":           a.table.Columns(),
		"last_loaded":       a.loadedAt,
	}
	if bounds, ok := a.table.Bounds(); ok {
		stats["first_approved"] = bounds.Start.Format(models.DateLayout)
		stats["last_approved"] = bounds.End.Format(models.DateLayout)
	}

	a.cacheMu.Lock()
	stats["cached_reports"] = a.cache.Len()
	a.cacheMu.Unlock()
	return stats
}
