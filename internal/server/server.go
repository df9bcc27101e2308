package server

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ecommerce-dashboard/internal/display"
	"ecommerce-dashboard/internal/handlers"
	"ecommerce-dashboard/internal/services"
)

type Server struct {
	analytics   *services.Analytics
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analytics *services.Analytics, format display.Formatter, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		analytics:   analytics,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(analytics, format, logger),
		sseHandlers: handlers.NewSSEHandlers(analytics, format, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	if templateHandlers != nil && templateHandlers.Dashboard != nil {
		s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	}
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /ready", s.apiHandlers.HandleReady)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	// REST API
	s.mux.HandleFunc("GET /api/summary", s.apiHandlers.HandleSummary)
	s.mux.HandleFunc("GET /api/daily-orders", s.apiHandlers.HandleDailyOrders)
	s.mux.HandleFunc("GET /api/products", s.apiHandlers.HandleProducts)
	s.mux.HandleFunc("GET /api/products/best", s.apiHandlers.HandleBestProducts)
	s.mux.HandleFunc("GET /api/products/worst", s.apiHandlers.HandleWorstProducts)
	s.mux.HandleFunc("GET /api/customers/state", s.apiHandlers.HandleCustomersByState)
	s.mux.HandleFunc("GET /api/customers/city", s.apiHandlers.HandleCustomersByCity)
	s.mux.HandleFunc("GET /api/order-status", s.apiHandlers.HandleOrderStatus)
	s.mux.HandleFunc("GET /api/customer-spend", s.apiHandlers.HandleCustomerSpend)
	s.mux.HandleFunc("GET /api/review-scores", s.apiHandlers.HandleReviewScores)
	s.mux.HandleFunc("GET /api/geolocations", s.apiHandlers.HandleGeolocations)
	s.mux.HandleFunc("GET /api/", s.apiHandlers.HandleNotFound)

	// Datastar SSE
	s.mux.HandleFunc("GET /sse/daily-orders", s.sseHandlers.HandleDailyOrders)
	s.mux.HandleFunc("GET /sse/products", s.sseHandlers.HandleProducts)
	s.mux.HandleFunc("GET /sse/demographics", s.sseHandlers.HandleDemographics)
	s.mux.HandleFunc("GET /sse/customer-spend", s.sseHandlers.HandleCustomerSpend)
	s.mux.HandleFunc("GET /sse/satisfaction", s.sseHandlers.HandleSatisfaction)
	s.mux.HandleFunc("GET /sse/geolocations", s.sseHandlers.HandleGeolocations)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
