package validator

import (
	"fmt"

	"github.com/shopspring/decimal"

	fiscaldecimal "github.com/rezonia/fiscal-processor/internal/decimal"
	"github.com/rezonia/fiscal-processor/internal/model"
)

// ValidateEmitter checks the issuing company
func ValidateEmitter(e model.Emitter) model.ValidationResult {
	errs := map[string]string{}
	switch {
	case blank(e.CNPJ):
		errs["cnpj"] = "CNPJ is required"
	case !IsValidCNPJ(e.CNPJ):
		errs["cnpj"] = "invalid CNPJ"
	}
	if blank(e.Name) {
		errs["name"] = "name is required"
	}
	addressErrors(errs, e.Address)
	return model.NewValidationResult(errs)
}

// ValidateRecipient checks the receiving party. 14 digits are checked as a
// CNPJ, 11 digits as a CPF, any other length is rejected.
func ValidateRecipient(r model.Recipient) model.ValidationResult {
	errs := map[string]string{}
	switch digits := OnlyDigits(r.CNPJCPF); {
	case blank(r.CNPJCPF):
		errs["cnpjCpf"] = "CNPJ or CPF is required"
	case len(digits) == cnpjLength:
		if !IsValidCNPJ(digits) {
			errs["cnpjCpf"] = "invalid CNPJ"
		}
	case len(digits) == cpfLength:
		if !IsValidCPF(digits) {
			errs["cnpjCpf"] = "invalid CPF"
		}
	default:
		errs["cnpjCpf"] = "CNPJ must have 14 digits or CPF 11 digits"
	}
	if blank(r.Name) {
		errs["name"] = "name is required"
	}
	addressErrors(errs, r.Address)
	return model.NewValidationResult(errs)
}

func addressErrors(errs map[string]string, a model.Address) {
	if blank(a.City) {
		errs["city"] = "city is required"
	}
	if blank(a.UF) {
		errs["uf"] = "UF is required"
	}
	if blank(a.CEP) {
		errs["cep"] = "CEP is required"
	}
}

// ValidateTransport checks the transp block
func ValidateTransport(t model.Transport) model.ValidationResult {
	errs := map[string]string{}
	if blank(t.ModFrete) {
		errs["modFrete"] = "freight modality is required"
	}
	if t.Transporter != nil && !blank(t.Transporter.CNPJ) && !IsValidCNPJ(t.Transporter.CNPJ) {
		errs["transporter.cnpj"] = "invalid transporter CNPJ"
	}
	if t.Volume != nil {
		nonNegative(errs, "volume.quantity", "volume quantity", t.Volume.Quantity)
	}
	return model.NewValidationResult(errs)
}

// ValidateProductTaxes checks the amounts and rates of an item's tax blocks
func ValidateProductTaxes(t model.Taxes) model.ValidationResult {
	errs := map[string]string{}
	if t.ICMS != nil {
		nonNegative(errs, "icms.vBC", "ICMS base", t.ICMS.VBC)
		nonNegative(errs, "icms.vICMS", "ICMS value", t.ICMS.VICMS)
		percentage(errs, "icms.pICMS", "ICMS rate", t.ICMS.PICMS)
	}
	if t.IPI != nil {
		nonNegative(errs, "ipi.vBC", "IPI base", t.IPI.VBC)
		nonNegative(errs, "ipi.vIPI", "IPI value", t.IPI.VIPI)
		percentage(errs, "ipi.pIPI", "IPI rate", t.IPI.PIPI)
	}
	return model.NewValidationResult(errs)
}

// ValidateServiceData checks the Servico block of an NFS-e
func ValidateServiceData(s model.NFSeService) model.ValidationResult {
	errs := map[string]string{}
	required := []struct{ key, value, label string }{
		{"itemListaServico", s.ItemListaServico, "service list item"},
		{"codigoTributacaoMunicipio", s.CodigoTributacaoMunicipio, "municipal tax code"},
		{"discriminacao", s.Discriminacao, "service description"},
		{"codigoMunicipio", s.CodigoMunicipio, "municipality code"},
	}
	for _, r := range required {
		if blank(r.value) {
			errs[r.key] = r.label + " is required"
		}
	}

	v := s.Valores
	if v.ValorServicos == nil || !fiscaldecimal.IsPositive(*v.ValorServicos) {
		errs["valorServicos"] = "service value must be greater than zero"
	}
	percentage(errs, "aliquota", "aliquota", v.Aliquota)
	nonNegative(errs, "valorIss", "ISS value", v.ValorIss)
	nonNegative(errs, "valorLiquidoNfse", "net value", v.ValorLiquidoNfse)
	return model.NewValidationResult(errs)
}

func nonNegative(errs map[string]string, key, label string, v *decimal.Decimal) {
	if v != nil && !fiscaldecimal.IsNonNegative(*v) {
		errs[key] = label + " cannot be negative"
	}
}

func percentage(errs map[string]string, key, label string, v *decimal.Decimal) {
	if v != nil && !fiscaldecimal.IsPercentage(*v) {
		errs[key] = fmt.Sprintf("%s must be between 0 and 100", label)
	}
}
