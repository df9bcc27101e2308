package models

import (
	"testing"
	"time"
)

func TestDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"midnight", time.Date(2017, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2017, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"late evening", time.Date(2017, 3, 1, 23, 59, 59, 0, time.UTC), time.Date(2017, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"keeps own calendar date", time.Date(2017, 3, 1, 22, 0, 0, 0, loc), time.Date(2017, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Day(tt.in); !got.Equal(tt.want) {
				t.Errorf("Day(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDateRange_Contains(t *testing.T) {
	r := NewDateRange(time.Date(2017, 1, 1, 15, 0, 0, 0, time.UTC), time.Date(2017, 1, 31, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"first day before the start hour", time.Date(2017, 1, 1, 8, 0, 0, 0, time.UTC), true},
		{"last day late", time.Date(2017, 1, 31, 23, 59, 59, 0, time.UTC), true},
		{"middle", time.Date(2017, 1, 15, 12, 0, 0, 0, time.UTC), true},
		{"day before", time.Date(2016, 12, 31, 23, 59, 59, 0, time.UTC), false},
		{"day after", time.Date(2017, 2, 1, 0, 0, 0, 0, time.UTC), false},
		{"zero time", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.at); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestDateRange_String(t *testing.T) {
	r := NewDateRange(time.Date(2017, 1, 1, 10, 0, 0, 0, time.UTC), time.Date(2017, 1, 31, 0, 0, 0, 0, time.UTC))
	if got, want := r.String(), "2017-01-01..2017-01-31"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
