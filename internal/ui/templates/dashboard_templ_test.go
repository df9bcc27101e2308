package templates

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"ecommerce-dashboard/internal/models"
)

func testProps() DashboardProps {
	return DashboardProps{
		Title: "Olist <Sales>",
		Range: models.NewDateRange(
			time.Date(2016, 9, 15, 12, 0, 0, 0, time.UTC),
			time.Date(2018, 9, 3, 17, 40, 0, 0, time.UTC),
		),
	}
}

func TestDashboardProps_Signals(t *testing.T) {
	var signals map[string]any
	if err := json.Unmarshal([]byte(testProps().Signals()), &signals); err != nil {
		t.Fatalf("Signals() is not JSON: %v", err)
	}
	if signals["start"] != "2016-09-15" || signals["end"] != "2018-09-03" {
		t.Errorf("range signals = %v, %v", signals["start"], signals["end"])
	}
	for _, name := range []string{"dailyData", "bestProducts", "worstProducts", "stateData", "cityData", "spendData", "reviewData", "statusData", "geoData"} {
		v, ok := signals[name].([]any)
		if !ok || len(v) != 0 {
			t.Errorf("%s = %v, want empty array", name, signals[name])
		}
	}
}

func TestDashboard_Render(t *testing.T) {
	var buf bytes.Buffer
	if err := Dashboard(testProps()).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	page := buf.String()

	for _, want := range []string{
		"<title>Olist &lt;Sales&gt;</title>",
		`min="2016-09-15"`,
		`max="2018-09-03"`,
		"data-bind-start",
		"data-bind-end",
		"/sse/refresh-all",
		"/sse/geolocations",
		`id="daily-metrics"`,
		`id="spend-content"`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page lacks %q", want)
		}
	}
	if strings.Contains(page, "<Sales>") {
		t.Error("title was not escaped")
	}
}
