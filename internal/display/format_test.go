package display

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatter_Money(t *testing.T) {
	tests := []struct {
		name     string
		currency string
		amount   string
		contains []string
	}{
		{"reais", "BRL", "200", []string{"R$", "200,00"}},
		{"rounds to cents", "BRL", "10.005", []string{"10,01"}},
		{"thousands", "BRL", "1234.5", []string{"1.234,50"}},
		{"dollars", "USD", "99.9", []string{"$", "99.90"}},
		{"unknown falls back to reais", "XXX-NOT-A-CODE", "1", []string{"R$", "1,00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewFormatter(tt.currency).Money(decimal.RequireFromString(tt.amount))
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Money(%s) = %q, want it to contain %q", tt.amount, got, want)
				}
			}
		})
	}
}
