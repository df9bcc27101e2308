package handlers

import (
	"net/http"
	"strconv"
	"time"

	"ecommerce-dashboard/internal/errors"
	"ecommerce-dashboard/internal/models"
)

// parseRange resolves the requested date range. Either end may be omitted,
// in which case the corresponding data bound is used.
func parseRange(start, end string, bounds models.DateRange) (models.DateRange, error) {
	r := bounds
	if start != "" {
		t, err := time.Parse(models.DateLayout, start)
		if err != nil {
			return models.DateRange{}, errors.BadRequestWrap(err, "start must be a date in YYYY-MM-DD form")
		}
		r.Start = t
	}
	if end != "" {
		t, err := time.Parse(models.DateLayout, end)
		if err != nil {
			return models.DateRange{}, errors.BadRequestWrap(err, "end must be a date in YYYY-MM-DD form")
		}
		r.End = t
	}
	if r.Start.After(r.End) {
		return models.DateRange{}, errors.Validation("start must not be after end")
	}
	return models.NewDateRange(r.Start, r.End), nil
}

func rangeFromQuery(r *http.Request, bounds models.DateRange) (models.DateRange, error) {
	q := r.URL.Query()
	return parseRange(q.Get("start"), q.Get("end"), bounds)
}

// limitFromQuery reads the optional limit parameter; a negative limit means
// no limit.
func limitFromQuery(r *http.Request, def int) (int, error) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.BadRequestWrap(err, "limit must be an integer")
	}
	return n, nil
}

func limit[T any](rows []T, n int) []T {
	if n < 0 || len(rows) <= n {
		return rows
	}
	return rows[:n]
}
