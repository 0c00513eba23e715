package decimal

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// Tolerance is the largest difference still treated as equal money (one cent)
var Tolerance = decimal.New(1, -2)

var hundred = decimal.NewFromInt(100)

// FromInt creates decimal from int
func FromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// FromFloat creates decimal from float rounded to cents
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// ParseMoney converts a Brazilian formatted amount ("1.234,56") into a
// decimal rounded to cents. Dots are thousand separators and the comma is
// the decimal separator. Blank or unparseable input yields zero; the whole
// string must be numeric, so "100,00 reais" is zero too.
func ParseMoney(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero
	}
	return d.Round(2)
}

// ParseMoneyValue accepts the loosely typed amounts found in JSON payloads:
// strings go through ParseMoney, numbers are rounded to cents, anything
// else is zero.
func ParseMoneyValue(v interface{}) decimal.Decimal {
	switch x := v.(type) {
	case string:
		return ParseMoney(x)
	case float64:
		return FromFloat(x)
	case float32:
		return FromFloat(float64(x))
	case int:
		return FromInt(int64(x))
	case int64:
		return FromInt(x)
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return Zero
		}
		return d.Round(2)
	case decimal.Decimal:
		return x.Round(2)
	case *decimal.Decimal:
		return Value(x).Round(2)
	default:
		return Zero
	}
}

// Value dereferences an optional decimal, nil is zero
func Value(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return Zero
	}
	return *d
}

// IsPositive returns true if decimal is greater than zero
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}

// IsNonNegative returns true if decimal is >= zero
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}

// InRange reports whether lo <= d <= hi
func InRange(d, lo, hi decimal.Decimal) bool {
	return d.GreaterThanOrEqual(lo) && d.LessThanOrEqual(hi)
}

// IsPercentage reports whether d lies within [0, 100]
func IsPercentage(d decimal.Decimal) bool {
	return InRange(d, Zero, hundred)
}

// WithinTolerance reports whether a and b differ by less than one cent
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(Tolerance)
}
