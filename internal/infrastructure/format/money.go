// Package format renders monetary amounts for display. Rounding to two
// decimal places happens only here, never during aggregation.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyFormatter renders amounts with a currency symbol and decimal
// separator. The zero configuration is not useful; use NewMoneyFormatter
// or BRL.
type MoneyFormatter struct {
	Symbol     string
	DecimalSep string
}

// NewMoneyFormatter creates a formatter for the given currency symbol and
// decimal separator.
func NewMoneyFormatter(symbol, decimalSep string) MoneyFormatter {
	return MoneyFormatter{Symbol: symbol, DecimalSep: decimalSep}
}

// BRL returns the pt-BR default: "R$ 1234,56".
func BRL() MoneyFormatter {
	return NewMoneyFormatter("R$", ",")
}

// Format renders the amount rounded half-up to two decimal places.
// Negative amounts render as "R$ -25,50".
func (f MoneyFormatter) Format(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	if f.DecimalSep != "." {
		fixed = strings.Replace(fixed, ".", f.DecimalSep, 1)
	}
	if f.Symbol == "" {
		return fixed
	}
	return f.Symbol + " " + fixed
}
