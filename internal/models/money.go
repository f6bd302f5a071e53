package models

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var (
	million  = decimal.NewFromInt(1_000_000)
	thousand = decimal.NewFromInt(1_000)
)

// ParseMoney accepts "$25M", "2.5m", "500K", "$1,250,000" and plain numbers.
func ParseMoney(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "$")
	raw = strings.ReplaceAll(raw, ",", "")
	if raw == "" {
		return decimal.Zero, Validationf("empty amount")
	}

	multiplier := decimal.NewFromInt(1)
	switch strings.ToUpper(raw[len(raw)-1:]) {
	case "M":
		multiplier = million
		raw = raw[:len(raw)-1]
	case "K":
		multiplier = thousand
		raw = raw[:len(raw)-1]
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, Validationf("invalid amount %q", s)
	}
	return value.Mul(multiplier), nil
}

// FormatMoney renders whole dollars with separators, e.g. "$10,000,000" or "-$4,000,000".
func FormatMoney(d decimal.Decimal) string {
	whole := d.Round(0)
	if whole.IsNegative() {
		return "-$" + humanize.Comma(whole.Neg().IntPart())
	}
	return "$" + humanize.Comma(whole.IntPart())
}

// FormatMoneyShort renders the compact dashboard form, e.g. "$32.5M" or "$750K".
func FormatMoneyShort(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	switch {
	case d.GreaterThanOrEqual(million):
		return fmt.Sprintf("%s$%sM", sign, d.Div(million).StringFixed(1))
	case d.GreaterThanOrEqual(thousand):
		return fmt.Sprintf("%s$%sK", sign, d.Div(thousand).StringFixed(0))
	default:
		return fmt.Sprintf("%s$%s", sign, d.StringFixed(0))
	}
}
