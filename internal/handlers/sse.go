package handlers

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"ecommerce-dashboard/internal/display"
	"ecommerce-dashboard/internal/errors"
	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/observability"
	"ecommerce-dashboard/internal/services"
)

// Row limits the dashboard charts show.
const (
	maxRankedProducts = 5
	maxCities         = 5
	maxSpenders       = 5
)

var metricsTemplate = template.Must(template.New("metrics").Parse(`
<div id="daily-metrics" class="metrics">
<div class="metric"><span class="metric-label">Total Orders</span><span class="metric-value">{{.Orders}}</span></div>
<div class="metric"><span class="metric-label">Total Revenue</span><span class="metric-value">{{.Revenue}}</span></div>
</div>`))

var spendTableTemplate = template.Must(template.New("spendTable").Parse(`
<div id="spend-content">
<table class="modern-table">
<thead><tr><th>Customer</th><th>Total Spend</th></tr></thead>
<tbody>
{{range .}}<tr>
<td><code>{{.CustomerID}}</code></td>
<td><strong>{{.Amount}}</strong></td>
</tr>{{else}}<tr><td colspan="2">No data for this period</td></tr>{{end}}
</tbody>
</table>
</div>`))

type metricsView struct {
	Orders  int
	Revenue string
}

type spendRow struct {
	CustomerID string
	Amount     string
}

// rangeSignals are the date-range control's datastar signals.
type rangeSignals struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type SSEHandlers struct {
	analytics *services.Analytics
	format    display.Formatter
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, format display.Formatter, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		format:    format,
		logger:    logger,
	}
}

func (h *SSEHandlers) renderMetrics(totals models.Totals) (string, error) {
	var buf strings.Builder
	err := metricsTemplate.Execute(&buf, metricsView{
		Orders:  totals.Orders,
		Revenue: h.format.Money(totals.Revenue),
	})
	return buf.String(), err
}

func (h *SSEHandlers) renderSpendTable(spend []models.CustomerSpend) (string, error) {
	rows := make([]spendRow, 0, len(spend))
	for _, s := range limit(spend, maxSpenders) {
		rows = append(rows, spendRow{CustomerID: s.CustomerID, Amount: h.format.Money(s.Price)})
	}
	var buf strings.Builder
	err := spendTableTemplate.Execute(&buf, rows)
	return buf.String(), err
}

// report resolves the range from datastar signals, falling back to query
// parameters, and computes its report. Failures are written as JSON errors
// before any event is streamed.
func (h *SSEHandlers) report(w http.ResponseWriter, r *http.Request) (*models.Report, bool) {
	requestID := observability.GetRequestID(r.Context())

	var sig rangeSignals
	if r.URL.Query().Has("datastar") {
		if err := datastar.ReadSignals(r, &sig); err != nil {
			errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "invalid datastar signals"), requestID)
			return nil, false
		}
	}
	if sig.Start == "" {
		sig.Start = r.URL.Query().Get("start")
	}
	if sig.End == "" {
		sig.End = r.URL.Query().Get("end")
	}

	bounds, _ := h.analytics.Bounds()
	dr, err := parseRange(sig.Start, sig.End, bounds)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return nil, false
	}

	rep, err := h.analytics.Report(r.Context(), dr)
	if err != nil {
		errors.WriteError(w, h.logger, errors.FromData(err), requestID)
		return nil, false
	}
	return rep, true
}

// stream sends the signals, then each element patch, and flushes.
func (h *SSEHandlers) stream(w http.ResponseWriter, r *http.Request, signals map[string]any, elements ...string) {
	sse := datastar.NewSSE(w, r)

	if len(signals) > 0 {
		if err := sse.MarshalAndPatchSignals(signals); err != nil {
			h.logger.Error("patch signals", "error", err, "request_id", observability.GetRequestID(r.Context()))
			return
		}
	}
	for _, el := range elements {
		if err := sse.PatchElements(el); err != nil {
			h.logger.Error("patch elements", "error", err, "request_id", observability.GetRequestID(r.Context()))
			return
		}
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleDailyOrders(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.report(w, r)
	if !ok {
		return
	}
	metrics, err := h.renderMetrics(rep.Totals)
	if err != nil {
		h.logger.Error("render metrics", "error", err)
		return
	}
	h.stream(w, r, map[string]any{"dailyData": rep.Daily}, metrics)
}

func (h *SSEHandlers) HandleProducts(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.report(w, r)
	if !ok {
		return
	}
	h.stream(w, r, map[string]any{
		"bestProducts":  rep.Products.Best(maxRankedProducts),
		"worstProducts": rep.Products.Worst(maxRankedProducts),
	}, `<div id="products-content">Product ranking loaded</div>`)
}

func (h *SSEHandlers) HandleDemographics(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.report(w, r)
	if !ok {
		return
	}
	h.stream(w, r, map[string]any{
		"stateData": rep.States,
		"cityData":  limit(rep.Cities, maxCities),
	}, `<div id="demographics-content">Customer demographics loaded</div>`)
}

func (h *SSEHandlers) HandleCustomerSpend(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.report(w, r)
	if !ok {
		return
	}
	table, err := h.renderSpendTable(rep.Spend)
	if err != nil {
		h.logger.Error("render spend table", "error", err)
		return
	}
	h.stream(w, r, map[string]any{"spendData": limit(rep.Spend, maxSpenders)}, table)
}

func (h *SSEHandlers) HandleSatisfaction(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.report(w, r)
	if !ok {
		return
	}
	h.stream(w, r, map[string]any{
		"reviewData": rep.Reviews,
		"statusData": rep.Statuses,
	}, `<div id="satisfaction-content">Review scores and order status loaded</div>`)
}

func (h *SSEHandlers) HandleGeolocations(w http.ResponseWriter, r *http.Request) {
	geo := h.analytics.Geolocations()
	if geo == nil {
		geo = []models.Geolocation{}
	}
	h.stream(w, r, map[string]any{"geoData": geo}, `<div id="geo-content">Customer locations loaded</div>`)
}

// HandleRefreshAll pushes every chart's data for the selected range in one
// stream.
func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.report(w, r)
	if !ok {
		return
	}
	metrics, err := h.renderMetrics(rep.Totals)
	if err != nil {
		h.logger.Error("render metrics", "error", err)
		return
	}
	table, err := h.renderSpendTable(rep.Spend)
	if err != nil {
		h.logger.Error("render spend table", "error", err)
		return
	}

	h.stream(w, r, map[string]any{
		"dailyData":     rep.Daily,
		"bestProducts":  rep.Products.Best(maxRankedProducts),
		"worstProducts": rep.Products.Worst(maxRankedProducts),
		"stateData":     rep.States,
		"cityData":      limit(rep.Cities, maxCities),
		"spendData":     limit(rep.Spend, maxSpenders),
		"reviewData":    rep.Reviews,
		"statusData":    rep.Statuses,
	}, metrics, table)
}
