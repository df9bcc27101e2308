package display

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Formatter renders amounts in the display currency.
type Formatter struct {
	code     string
	fraction int32
}

// NewFormatter falls back to BRL for unknown currency codes.
func NewFormatter(code string) Formatter {
	cur := money.GetCurrency(code)
	if cur == nil {
		code = money.BRL
		cur = money.GetCurrency(code)
	}
	return Formatter{code: code, fraction: int32(cur.Fraction)}
}

func (f Formatter) Money(amount decimal.Decimal) string {
	minor := amount.Shift(f.fraction).Round(0).IntPart()
	return money.New(minor, f.code).Display()
}
