package decimal

import "github.com/shopspring/decimal"

// CalculatePercentage computes base * rate / 100 rounded to cents
func CalculatePercentage(base, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).Div(hundred).Round(2)
}

// ComputeICMS returns the ICMS amount for a base and rate. Missing values count as zero.
func ComputeICMS(vBC, pICMS *decimal.Decimal) decimal.Decimal {
	return CalculatePercentage(Value(vBC), Value(pICMS))
}

// ComputeIPI returns the IPI amount for a base and rate
func ComputeIPI(vBC, pIPI *decimal.Decimal) decimal.Decimal {
	return CalculatePercentage(Value(vBC), Value(pIPI))
}

// ComputeISS returns the ISS amount for a base and aliquota
func ComputeISS(base, aliquota *decimal.Decimal) decimal.Decimal {
	return CalculatePercentage(Value(base), Value(aliquota))
}
