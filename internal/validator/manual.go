package validator

import (
	"strings"

	"github.com/shopspring/decimal"

	fiscaldecimal "github.com/rezonia/fiscal-processor/internal/decimal"
	"github.com/rezonia/fiscal-processor/internal/model"
)

// Field keys of a manual header
const (
	FieldNumber      = "number"
	FieldSeries      = "series"
	FieldAccessKey   = "accessKey"
	FieldIssueDate   = "issueDate"
	FieldEmitterCNPJ = "emitterCnpj"
	FieldTotal       = "total"
	FieldKind        = "kind"
)

// ValidateManualHeader checks a hand-typed header. Rules are independent and
// all violations are reported together.
func ValidateManualHeader(h model.ManualHeader) model.ValidationResult {
	errs := map[string]string{}

	if blank(h.Number) {
		errs[FieldNumber] = "number is required"
	}
	if blank(h.IssueDate) {
		errs[FieldIssueDate] = "issue date is required"
	}

	// A blank total also parses to zero, so the second message wins.
	if blank(string(h.Total)) {
		errs[FieldTotal] = "total is required"
	}
	if !fiscaldecimal.IsPositive(fiscaldecimal.ParseMoney(string(h.Total))) {
		errs[FieldTotal] = "total must be greater than zero"
	}

	if !h.Kind.Valid() {
		errs[FieldKind] = "kind must be one of produto, servico, avulso"
	}

	if h.Kind.RequiresEmitter() {
		if blank(h.Series) {
			errs[FieldSeries] = "series is required"
		}
		switch {
		case blank(h.EmitterCNPJ):
			errs[FieldEmitterCNPJ] = "emitter CNPJ is required"
		case !IsValidCNPJ(h.EmitterCNPJ):
			errs[FieldEmitterCNPJ] = "invalid emitter CNPJ"
		}
	}

	if h.Kind.RequiresAccessKey() {
		switch {
		case blank(h.AccessKey):
			errs[FieldAccessKey] = "access key is required"
		case !IsValidAccessKey(h.AccessKey):
			errs[FieldAccessKey] = "access key must have 44 digits"
		}
	}

	return model.NewValidationResult(errs)
}

// ValidateManualItems checks the items list matching the kind's shape.
// An empty list yields a single error with index -1.
func ValidateManualItems(kind model.FiscalKind, items model.ManualItems) model.ItemsValidationResult {
	shape := kind.ItemShape()
	if items.Len(shape) == 0 {
		return model.ItemsValidationResult{
			IsValid: false,
			Errors:  []model.ItemError{{Index: -1, Message: "include at least one item"}},
		}
	}

	errs := []model.ItemError{}
	switch shape {
	case model.ShapeService:
		for i, item := range items.Services {
			errs = append(errs, serviceItemErrors(i, item)...)
		}
	case model.ShapeProduct:
		for i, item := range items.Products {
			errs = append(errs, productItemErrors(i, item)...)
		}
	}

	return model.ItemsValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

func productItemErrors(i int, item model.ManualProductItem) []model.ItemError {
	var errs []model.ItemError
	if blank(item.Description) {
		errs = append(errs, model.ItemError{Index: i, Message: "description is required"})
	}
	if !fiscaldecimal.IsPositive(item.Quantity) {
		errs = append(errs, model.ItemError{Index: i, Message: "quantity must be greater than zero"})
	}
	if !fiscaldecimal.IsNonNegative(item.UnitPrice) {
		errs = append(errs, model.ItemError{Index: i, Message: "unit price cannot be negative"})
	}
	return errs
}

func serviceItemErrors(i int, item model.ManualServiceItem) []model.ItemError {
	var errs []model.ItemError
	if blank(item.Description) {
		errs = append(errs, model.ItemError{Index: i, Message: "description is required"})
	}
	if !fiscaldecimal.IsPositive(item.NetValue) {
		errs = append(errs, model.ItemError{Index: i, Message: "net value must be greater than zero"})
	}
	if item.ISSValue != nil && !fiscaldecimal.IsNonNegative(*item.ISSValue) {
		errs = append(errs, model.ItemError{Index: i, Message: "ISS value cannot be negative"})
	}
	return errs
}

// ComputeItemsTotal returns the expected document total: quantity times unit
// price for goods, net values for services. Rounded once, at the end.
func ComputeItemsTotal(kind model.FiscalKind, items model.ManualItems) decimal.Decimal {
	sum := decimal.Zero
	switch kind.ItemShape() {
	case model.ShapeService:
		for _, item := range items.Services {
			sum = sum.Add(item.NetValue)
		}
	case model.ShapeProduct:
		for _, item := range items.Products {
			sum = sum.Add(item.Quantity.Mul(item.UnitPrice))
		}
	}
	return sum.Round(2)
}

// ValidateTotalConsistency compares a typed total with the items sum.
// They match when they differ by less than one cent.
func ValidateTotalConsistency(total model.Amount, kind model.FiscalKind, items model.ManualItems) model.TotalConsistency {
	provided := fiscaldecimal.ParseMoney(string(total))
	expected := ComputeItemsTotal(kind, items)
	return model.TotalConsistency{
		IsValid:  fiscaldecimal.WithinTolerance(provided, expected),
		Expected: expected,
		Provided: provided,
	}
}

// ValidateManualEntry runs header, items and total checks together. The
// totals are only compared once the header total and every item are valid.
func ValidateManualEntry(entry model.ManualEntry) model.ManualEntryResult {
	res := model.ManualEntryResult{
		Header: ValidateManualHeader(entry.Header),
		Items:  ValidateManualItems(entry.Header.Kind, entry.Items),
	}

	_, totalErr := res.Header.Errors[FieldTotal]
	if !totalErr && res.Items.IsValid {
		c := ValidateTotalConsistency(entry.Header.Total, entry.Header.Kind, entry.Items)
		res.Consistency = &c
	}

	res.IsValid = res.Header.IsValid && res.Items.IsValid &&
		(res.Consistency == nil || res.Consistency.IsValid)
	return res
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
