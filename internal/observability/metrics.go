package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	aggregationLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_aggregation_duration_seconds",
		Help:    "Time spent computing one summary table.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"operation"})

	reportCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_report_cache_total",
		Help: "Report lookups by cache result.",
	}, []string{"result"})

	loadedRows = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dashboard_loaded_rows",
		Help: "Rows held in memory per dataset.",
	}, []string{"dataset"})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_http_requests_total",
		Help: "HTTP requests by method and status code.",
	}, []string{"method", "code"})

	httpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_http_request_duration_seconds",
		Help:    "HTTP request latency distribution.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

func init() {
	prometheus.MustRegister(aggregationLatency, reportCache, loadedRows, httpRequests, httpLatency)
}

func ObserveAggregation(operation string, d time.Duration) {
	aggregationLatency.WithLabelValues(operation).Observe(d.Seconds())
}

func CountReportCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	reportCache.WithLabelValues(result).Inc()
}

func SetLoadedRows(dataset string, n int) {
	loadedRows.WithLabelValues(dataset).Set(float64(n))
}

func ObserveHTTPRequest(method string, code int, d time.Duration) {
	httpRequests.WithLabelValues(method, httpCode(code)).Inc()
	httpLatency.WithLabelValues(method).Observe(d.Seconds())
}

func httpCode(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
