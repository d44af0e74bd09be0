// Package currency renders decimal amounts as US dollars.
package currency

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const fraction = 2

var (
	plain   = money.NewFormatter(fraction, ".", "", "$", "$1")
	grouped = money.NewFormatter(fraction, ".", ",", "$", "$1")
)

func minorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(fraction).Round(0).IntPart()
}

// Format renders amount as "$1234.50", the form used in exports.
func Format(amount decimal.Decimal) string {
	return plain.Format(minorUnits(amount))
}

// Display renders amount with thousands separators, "$1,234.50".
func Display(amount decimal.Decimal) string {
	return grouped.Format(minorUnits(amount))
}
