// Package money holds the display rule for amounts: currency symbol followed by
// the value rounded to two decimal places.
package money

import "github.com/shopspring/decimal"

const DefaultSymbol = "₹"

type Formatter struct {
	Symbol string
}

func NewFormatter(symbol string) Formatter {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	return Formatter{Symbol: symbol}
}

// Format renders amount as Symbol + fixed two decimals, e.g. "₹1250.50".
func (f Formatter) Format(amount float64) string {
	return f.Symbol + decimal.NewFromFloat(amount).StringFixed(2)
}
