package validator

import (
	"fmt"

	"github.com/rezonia/fiscal-processor/internal/model"
)

// ValidateNFeInput runs the party, transport and tax validators over a
// whole NF-e graph. Keys are prefixed with the block they belong to
// ("emit.cnpj", "items[0].icms.vBC").
func ValidateNFeInput(in model.NFeInput) model.ValidationResult {
	errs := map[string]string{}
	merge(errs, "emit.", ValidateEmitter(in.Emitter))
	if in.Recipient != nil {
		merge(errs, "dest.", ValidateRecipient(*in.Recipient))
	}
	if len(in.Items) == 0 {
		errs["items"] = "include at least one item"
	}
	for i, item := range in.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		if blank(item.Description) {
			errs[prefix+"description"] = "description is required"
		}
		merge(errs, prefix, ValidateProductTaxes(item.Taxes))
	}
	if in.Transport != nil {
		merge(errs, "transport.", ValidateTransport(*in.Transport))
	}
	if !blank(in.AccessKey) && !IsValidAccessKey(in.AccessKey) {
		errs["accessKey"] = "access key must have 44 digits"
	}
	return model.NewValidationResult(errs)
}

// ValidateNFSeInput checks the service block and the parties of an NFS-e
func ValidateNFSeInput(in model.NFSeInput) model.ValidationResult {
	errs := map[string]string{}
	merge(errs, "servico.", ValidateServiceData(in.Servico))

	switch {
	case blank(in.Prestador.Cnpj):
		errs["prestador.cnpj"] = "CNPJ is required"
	case !IsValidCNPJ(in.Prestador.Cnpj):
		errs["prestador.cnpj"] = "invalid CNPJ"
	}
	if blank(in.Prestador.RazaoSocial) {
		errs["prestador.razaoSocial"] = "name is required"
	}
	if t := in.Tomador; t != nil {
		if !blank(t.CpfCnpj) && !IsValidCNPJOrCPF(t.CpfCnpj) {
			errs["tomador.cpfCnpj"] = "invalid CNPJ or CPF"
		}
		if blank(t.RazaoSocial) {
			errs["tomador.razaoSocial"] = "name is required"
		}
	}
	return model.NewValidationResult(errs)
}

func merge(dst map[string]string, prefix string, res model.ValidationResult) {
	for k, v := range res.Errors {
		dst[prefix+k] = v
	}
}
