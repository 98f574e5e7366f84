// utils/money.go
package utils

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyUnit tells whether an amount is a flat price or an hourly rate.
type MoneyUnit string

const (
	UnitFlat   MoneyUnit = "flat"
	UnitHourly MoneyUnit = "hourly"
)

var moneyRe = regexp.MustCompile(`-?\d+(\.\d+)?`)

// ParseMoney extracts the first signed decimal number from free-form price
// text ("$380", "1,200.50", "$120/hr") and returns it as integer cents plus
// the detected unit. Text without a number parses to 0 cents.
func ParseMoney(text string) (int64, MoneyUnit) {
	unit := UnitFlat
	if strings.Contains(strings.ToLower(text), "/hr") {
		unit = UnitHourly
	}

	cleaned := strings.ReplaceAll(text, ",", "")
	m := moneyRe.FindString(cleaned)
	if m == "" {
		return 0, unit
	}

	d, err := decimal.NewFromString(m)
	if err != nil {
		return 0, unit
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), unit
}

// FormatUSD renders cents as a dollar string with two decimals, e.g. "$380.00".
func FormatUSD(cents int64) string {
	return "$" + decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// PriceText renders cents the way contract line items display them: whole
// dollars when the amount is even ("$380"), two decimals otherwise, with an
// "/hr" suffix for hourly rates.
func PriceText(cents int64, unit MoneyUnit) string {
	d := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
	var s string
	if cents%100 == 0 {
		s = "$" + d.StringFixed(0)
	} else {
		s = "$" + d.StringFixed(2)
	}
	if unit == UnitHourly {
		s += "/hr"
	}
	return s
}
