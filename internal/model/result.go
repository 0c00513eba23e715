package model

import "github.com/shopspring/decimal"

// ValidationResult is the uniform outcome of every field validator.
// Errors is keyed by field name and is empty iff IsValid.
type ValidationResult struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}

// NewValidationResult derives IsValid from the collected errors
func NewValidationResult(errs map[string]string) ValidationResult {
	if errs == nil {
		errs = map[string]string{}
	}
	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// ItemError is a violation on one line item. Index is -1 for list-wide errors.
type ItemError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// ItemsValidationResult is the outcome of line item validation
type ItemsValidationResult struct {
	IsValid bool        `json:"isValid"`
	Errors  []ItemError `json:"errors"`
}

// TotalConsistency compares a typed total against the sum of the items
type TotalConsistency struct {
	IsValid  bool            `json:"isValid"`
	Expected decimal.Decimal `json:"expected"`
	Provided decimal.Decimal `json:"provided"`
}

// ManualEntryResult aggregates header, items and total checks
type ManualEntryResult struct {
	IsValid     bool                  `json:"isValid"`
	Header      ValidationResult      `json:"header"`
	Items       ItemsValidationResult `json:"items"`
	Consistency *TotalConsistency     `json:"consistency,omitempty"`
}
