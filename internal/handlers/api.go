package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"ecommerce-dashboard/internal/display"
	"ecommerce-dashboard/internal/errors"
	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/observability"
	"ecommerce-dashboard/internal/services"
)

const (
	cacheControl = "public, max-age=300"

	defaultRankingLimit = 5
)

type APIHandlers struct {
	analytics *services.Analytics
	format    display.Formatter
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, format display.Formatter, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		format:    format,
		logger:    logger,
	}
}

// serveReport computes the report for the requested range and writes the
// part of it pick selects.
func (h *APIHandlers) serveReport(w http.ResponseWriter, r *http.Request, pick func(*models.Report) (any, error)) {
	requestID := observability.GetRequestID(r.Context())
	bounds, _ := h.analytics.Bounds()

	dr, err := rangeFromQuery(r, bounds)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	report, err := h.analytics.Report(r.Context(), dr)
	if err != nil {
		errors.WriteError(w, h.logger, errors.FromData(err), requestID)
		return
	}

	data, err := pick(report)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleDailyOrders(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, func(rep *models.Report) (any, error) {
		return rep.Daily, nil
	})
}

func (h *APIHandlers) HandleProducts(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, func(rep *models.Report) (any, error) {
		return rep.Products, nil
	})
}

func (h *APIHandlers) HandleBestProducts(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, func(rep *models.Report) (any, error) {
		n, err := limitFromQuery(r, defaultRankingLimit)
		if err != nil {
			return nil, err
		}
		return rep.Products.Best(n), nil
	})
}

func (h *APIHandlers) HandleWorstProducts(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, func(rep *models.Report) (any, error) {
		n, err := limitFromQuery(r, defaultRankingLimit)
		if err != nil {
			return nil, err
		}
		return rep.Products.Worst(n), nil
	})
}

func (h *APIHandlers) HandleCustomersByState(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, func(rep *models.Report) (any, error) {
		n, err := limitFromQuery(r, -1)
		if err != nil {
			return nil, err
		}
		return limit(rep.States, n), nil
	})
}

func (h *APIHandlers) HandleCustomersByCity(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, func(rep *models.Report) (any, error) {
		n, err := limitFromQuery(r, -1)
		if err != nil {
			return nil, err
		}
		return limit(rep.Cities, n), nil
	})
}

func (h *APIHandlers) HandleOrderStatus(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, func(rep *models.Report) (any, error) {
		return rep.Statuses, nil
	})
}

func (h *APIHandlers) HandleCustomerSpend(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, func(rep *models.Report) (any, error) {
		n, err := limitFromQuery(r, -1)
		if err != nil {
			return nil, err
		}
		return limit(rep.Spend, n), nil
	})
}

func (h *APIHandlers) HandleReviewScores(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, func(rep *models.Report) (any, error) {
		return rep.Reviews, nil
	})
}

type summary struct {
	Range          models.DateRange `json:"range"`
	Rows           int              `json:"rows"`
	TotalOrders    int              `json:"total_orders"`
	TotalRevenue   string           `json:"total_revenue"`
	FormattedTotal string           `json:"total_revenue_display"`
}

func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, func(rep *models.Report) (any, error) {
		return summary{
			Range:          rep.Range,
			Rows:           rep.Rows,
			TotalOrders:    rep.Totals.Orders,
			TotalRevenue:   rep.Totals.Revenue.String(),
			FormattedTotal: h.format.Money(rep.Totals.Revenue),
		}, nil
	})
}

func (h *APIHandlers) HandleGeolocations(w http.ResponseWriter, r *http.Request) {
	data := h.analytics.Geolocations()
	if data == nil {
		data = []models.Geolocation{}
	}
	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

// HandleReady fails until a dataset has been installed.
func (h *APIHandlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	if !h.analytics.Ready() {
		errors.WriteError(w, h.logger, errors.ServiceUnavailable("Data is not loaded yet"), observability.GetRequestID(r.Context()))
		return
	}
	errors.WriteSuccess(w, map[string]string{"status": "ready"})
}

func (h *APIHandlers) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	errors.WriteError(w, h.logger, errors.NotFound("No such endpoint: "+r.URL.Path), observability.GetRequestID(r.Context()))
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}
