// Package validator implements the Brazilian fiscal field rules: identifier
// checksums, manual-entry validation, totals consistency and the
// party/transport/tax validators. Validators never return errors; every
// outcome is reported in the returned result.
package validator

import "strings"

const (
	cnpjLength      = 14
	cpfLength       = 11
	accessKeyLength = 44
)

var (
	cnpjFirstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjSecondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// OnlyDigits strips every non-digit character
func OnlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidCNPJ checks a company identifier against its two modulo-11 check digits.
// Punctuation is ignored.
func IsValidCNPJ(value string) bool {
	digits := OnlyDigits(value)
	if len(digits) != cnpjLength || allSame(digits) {
		return false
	}
	d := toInts(digits)
	if checkDigit(d[:12], cnpjFirstWeights) != d[12] {
		return false
	}
	return checkDigit(d[:13], cnpjSecondWeights) == d[13]
}

// IsValidCPF checks an individual's identifier against its two modulo-11 check digits
func IsValidCPF(value string) bool {
	digits := OnlyDigits(value)
	if len(digits) != cpfLength || allSame(digits) {
		return false
	}
	d := toInts(digits)
	if checkDigit(d[:9], descending(10, 9)) != d[9] {
		return false
	}
	return checkDigit(d[:10], descending(11, 10)) == d[10]
}

// IsValidAccessKey only checks that the key has 44 digits
func IsValidAccessKey(value string) bool {
	return len(OnlyDigits(value)) == accessKeyLength
}

// IsValidCNPJOrCPF routes by length: 14 digits is a CNPJ, 11 a CPF
func IsValidCNPJOrCPF(value string) bool {
	switch len(OnlyDigits(value)) {
	case cnpjLength:
		return IsValidCNPJ(value)
	case cpfLength:
		return IsValidCPF(value)
	default:
		return false
	}
}

// FormatAccessKey groups a key in blocks of four digits separated by spaces
func FormatAccessKey(key string) string {
	digits := OnlyDigits(key)
	if digits == "" {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(digits); i += 4 {
		if i > 0 {
			b.WriteByte(' ')
		}
		end := i + 4
		if end > len(digits) {
			end = len(digits)
		}
		b.WriteString(digits[i:end])
	}
	return b.String()
}

func checkDigit(digits, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += digits[i] * w
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

func descending(from, n int) []int {
	w := make([]int, n)
	for i := range w {
		w[i] = from - i
	}
	return w
}

func toInts(digits string) []int {
	d := make([]int, len(digits))
	for i := range digits {
		d[i] = int(digits[i] - '0')
	}
	return d
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
