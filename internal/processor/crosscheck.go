package processor

import (
	"fmt"

	fiscaldecimal "github.com/rezonia/fiscal-processor/internal/decimal"
	"github.com/rezonia/fiscal-processor/internal/model"
	"github.com/rezonia/fiscal-processor/internal/signature"
	"github.com/rezonia/fiscal-processor/internal/validator"
)

// CrossCheck re-runs the identifier and totals rules over a parsed document
// and reports every mismatch as a warning
func CrossCheck(doc *model.Document, sig *signature.Info) []string {
	if doc == nil {
		return nil
	}
	switch doc.Type {
	case model.DocumentNFe:
		return checkNFe(doc.NFe, sig)
	case model.DocumentNFSe:
		return checkNFSe(doc.NFSe)
	default:
		return nil
	}
}

func checkNFe(nfe *model.NFEData, sig *signature.Info) []string {
	if nfe == nil {
		return nil
	}
	var warnings []string

	if !validator.IsValidCNPJOrCPF(nfe.Emitter.Document) {
		warnings = append(warnings, fmt.Sprintf("emitter %s fails checksum: %s", nfe.Emitter.DocumentType, nfe.Emitter.Document))
	}
	if r := nfe.Recipient; r != nil && r.Document != "" && !validator.IsValidCNPJOrCPF(r.Document) {
		warnings = append(warnings, fmt.Sprintf("recipient %s fails checksum: %s", r.DocumentType, r.Document))
	}

	switch {
	case nfe.AccessKeyDigits == "":
		warnings = append(warnings, "access key missing")
	case !validator.IsValidAccessKey(nfe.AccessKeyDigits):
		warnings = append(warnings, fmt.Sprintf("access key has %d digits, expected 44", len(nfe.AccessKeyDigits)))
	}

	if len(nfe.Items) == 0 {
		warnings = append(warnings, "document has no items")
	} else if sum := nfe.ItemsTotal(); !fiscaldecimal.WithinTolerance(sum, nfe.Totals.VProd) {
		warnings = append(warnings, fmt.Sprintf("items total %s differs from vProd %s",
			sum.StringFixed(2), nfe.Totals.VProd.StringFixed(2)))
	}

	if !fiscaldecimal.IsPositive(nfe.Totals.VNF) {
		warnings = append(warnings, "vNF must be greater than zero")
	}

	if sig != nil && sig.Present {
		if want := "#NFe" + nfe.AccessKeyDigits; nfe.AccessKeyDigits != "" && sig.ReferenceURI != want {
			warnings = append(warnings, fmt.Sprintf("signature references %q, expected %q", sig.ReferenceURI, want))
		}
		if s := sig.Signer; s != nil && s.CNPJ != "" && nfe.Emitter.DocumentType == "CNPJ" &&
			cnpjRoot(s.CNPJ) != cnpjRoot(nfe.Emitter.Document) {
			warnings = append(warnings, fmt.Sprintf("signer CNPJ %s does not belong to emitter %s", s.CNPJ, nfe.Emitter.Document))
		}
	}

	return warnings
}

// cnpjRoot returns the 8-digit company root of a CNPJ
func cnpjRoot(cnpj string) string {
	digits := validator.OnlyDigits(cnpj)
	if len(digits) < 8 {
		return digits
	}
	return digits[:8]
}

func checkNFSe(nfse *model.NFSEData) []string {
	if nfse == nil {
		return nil
	}
	var warnings []string

	if !validator.IsValidCNPJ(nfse.Prestador.Cnpj) {
		warnings = append(warnings, fmt.Sprintf("provider CNPJ fails checksum: %s", nfse.Prestador.Cnpj))
	}
	if t := nfse.Tomador; t != nil && t.CpfCnpj != "" && !validator.IsValidCNPJOrCPF(t.CpfCnpj) {
		warnings = append(warnings, fmt.Sprintf("taker CPF/CNPJ fails checksum: %s", t.CpfCnpj))
	}

	v := nfse.Servico.Valores
	if v.ValorServicos == nil || !fiscaldecimal.IsPositive(*v.ValorServicos) {
		warnings = append(warnings, "ValorServicos must be greater than zero")
	}
	if v.BaseCalculo != nil && v.Aliquota != nil && v.ValorIss != nil {
		expected := fiscaldecimal.ComputeISS(v.BaseCalculo, v.Aliquota)
		if !fiscaldecimal.WithinTolerance(expected, *v.ValorIss) {
			warnings = append(warnings, fmt.Sprintf("ValorIss %s differs from BaseCalculo x Aliquota = %s",
				v.ValorIss.StringFixed(2), expected.StringFixed(2)))
		}
	}

	return warnings
}
