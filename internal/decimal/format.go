package decimal

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Fixed formats d with exactly places decimals, as written in fiscal XML
func Fixed(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}

// FormatBRL formats d for display using pt-BR separators ("1.234,56")
func FormatBRL(d decimal.Decimal) string {
	p := message.NewPrinter(language.BrazilianPortuguese)
	return p.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

// FormatCurrency formats d as a real amount ("R$ 1.234,56")
func FormatCurrency(d decimal.Decimal) string {
	return "R$ " + FormatBRL(d)
}
