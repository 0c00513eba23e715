package fiscallib

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/fiscal-processor/internal/builder"
	fiscaldecimal "github.com/rezonia/fiscal-processor/internal/decimal"
	"github.com/rezonia/fiscal-processor/internal/model"
	xmlparser "github.com/rezonia/fiscal-processor/internal/parser/xml"
	"github.com/rezonia/fiscal-processor/internal/validator"
)

// BuildOption configures XML rendering
type BuildOption = builder.Option

// WithIndent indents nested XML elements by n spaces
func WithIndent(n int) BuildOption { return builder.WithIndent(n) }

// IsValidCNPJ checks the two CNPJ check digits, ignoring punctuation
func IsValidCNPJ(value string) bool { return validator.IsValidCNPJ(value) }

// IsValidCPF checks the two CPF check digits, ignoring punctuation
func IsValidCPF(value string) bool { return validator.IsValidCPF(value) }

// IsValidAccessKey reports whether value has exactly 44 digits
func IsValidAccessKey(value string) bool { return validator.IsValidAccessKey(value) }

// OnlyDigits strips every non-digit character
func OnlyDigits(value string) string { return validator.OnlyDigits(value) }

// ParseMoney reads a pt-BR or plain decimal string, yielding zero when it
// cannot be read
func ParseMoney(value string) decimal.Decimal { return fiscaldecimal.ParseMoney(value) }

// FormatBRL renders an amount the Brazilian way ("1.234,56")
func FormatBRL(d decimal.Decimal) string { return fiscaldecimal.FormatBRL(d) }

// Manual entry checks. See the validator package for the rules.

// ValidateManualHeader checks the header fields of a manual entry
func ValidateManualHeader(h ManualHeader) ValidationResult {
	return validator.ValidateManualHeader(h)
}

// ValidateManualItems checks each line against the kind's item shape
func ValidateManualItems(kind FiscalKind, items ManualItems) ItemsValidationResult {
	return validator.ValidateManualItems(kind, items)
}

// ComputeItemsTotal returns the document total implied by the items
func ComputeItemsTotal(kind FiscalKind, items ManualItems) decimal.Decimal {
	return validator.ComputeItemsTotal(kind, items)
}

// ValidateTotalConsistency compares a typed total with the items sum
func ValidateTotalConsistency(total Amount, kind FiscalKind, items ManualItems) TotalConsistency {
	return validator.ValidateTotalConsistency(total, kind, items)
}

// ValidateManualEntry runs header, items and total checks together
func ValidateManualEntry(entry ManualEntry) ManualEntryResult {
	return validator.ValidateManualEntry(entry)
}

// Document section checks, used before building

// ValidateEmitter checks the emit block
func ValidateEmitter(e Emitter) ValidationResult { return validator.ValidateEmitter(e) }

// ValidateRecipient checks the dest block
func ValidateRecipient(r Recipient) ValidationResult { return validator.ValidateRecipient(r) }

// ValidateTransport checks the transp block
func ValidateTransport(t Transport) ValidationResult { return validator.ValidateTransport(t) }

// ValidateProductTaxes checks the amounts and rates of an item's taxes
func ValidateProductTaxes(t Taxes) ValidationResult { return validator.ValidateProductTaxes(t) }

// ValidateServiceData checks the NFS-e Servico block
func ValidateServiceData(s NFSeService) ValidationResult { return validator.ValidateServiceData(s) }

// BuildNFeXML renders an authorized NF-e (nfeProc). It never fails.
func BuildNFeXML(in NFeInput, opts ...BuildOption) string {
	return builder.BuildNFeXML(in, opts...)
}

// BuildNFSeXML renders an NFS-e (CompNfse). It never fails.
func BuildNFSeXML(in NFSeInput, opts ...BuildOption) string {
	return builder.BuildNFSeXML(in, opts...)
}

// ParseNFe reads a received NF-e, returning nil when it cannot be parsed
func ParseNFe(data []byte) *NFEData { return xmlparser.ParseNFe(data) }

// ParseNFSe reads a received NFS-e, returning nil when it cannot be parsed
func ParseNFSe(data []byte) *NFSEData { return xmlparser.ParseNFSe(data) }

// ParseFiscalKind converts "produto", "servico" or "avulso" to a FiscalKind
func ParseFiscalKind(s string) (FiscalKind, error) { return model.ParseFiscalKind(s) }
