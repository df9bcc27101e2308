package templates

import (
	"encoding/json"

	"ecommerce-dashboard/internal/models"
)

// DashboardProps seeds the page with the loaded data's date bounds.
type DashboardProps struct {
	Title string
	Range models.DateRange
}

func (p DashboardProps) MinDate() string { return p.Range.Start.Format(models.DateLayout) }
func (p DashboardProps) MaxDate() string { return p.Range.End.Format(models.DateLayout) }

// Signals is the initial datastar signal set: the selected range plus an
// empty slot for every chart.
func (p DashboardProps) Signals() string {
	empty := []any{}
	b, _ := json.Marshal(map[string]any{
		"start":         p.MinDate(),
		"end":           p.MaxDate(),
		"dailyData":     empty,
		"bestProducts":  empty,
		"worstProducts": empty,
		"stateData":     empty,
		"cityData":      empty,
		"spendData":     empty,
		"reviewData":    empty,
		"statusData":    empty,
		"geoData":       empty,
	})
	return string(b)
}
