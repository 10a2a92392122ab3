package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// FormatMoney formatea un total con dos decimales y "+" solo si es
// estrictamente positivo: 60 → "+60.00", 0 → "0.00", -40 → "-40.00".
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if s == "-0.00" {
		s = "0.00"
	}
	if d.Round(2).IsPositive() {
		return "+" + s
	}
	return s
}

// FormatPL es FormatMoney para float64; NaN e ±Inf dan "0.00".
func FormatPL(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.00"
	}
	return FormatMoney(decimal.NewFromFloat(v))
}

// FormatAmount formatea un importe sin prefijo "+" (promedios) con dos decimales.
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}
