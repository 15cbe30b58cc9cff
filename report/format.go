package report

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency every amount is displayed in.
const Currency = money.USD

// Money formats a float amount with the currency symbol and grouping,
// rounded to the currency's minor unit: 1234.5 => "$1,234.50".
func Money(v float64) string {
	cur := money.GetCurrency(Currency)
	minor := decimal.NewFromFloat(v).Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), Currency).Display()
}

// SignedMoney is Money with an explicit sign; zero prints as "-".
func SignedMoney(v float64) string {
	s := Money(v)
	switch {
	case s == Money(0):
		return "-"
	case v > 0:
		return "+" + s
	}
	return s
}

// Percent formats a percentage with two decimals: 12.345 => "12.35%".
func Percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

// SignedPercent is Percent with an explicit sign; zero prints as "-".
func SignedPercent(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsZero() {
		return "-"
	}
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}

// Units trims a quantity to at most six decimals without trailing zeros.
func Units(v float64) string {
	return decimal.NewFromFloat(v).Round(6).String()
}

// Price keeps more precision for sub-dollar assets.
func Price(v float64) string {
	places := int32(2)
	if v != 0 && v < 1 && v > -1 {
		places = 4
	}
	return "$" + decimal.NewFromFloat(v).StringFixed(places)
}

// cell escapes text for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
