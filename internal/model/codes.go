package model

// freightModes describes transp/modFrete codes
var freightModes = map[string]string{
	"0": "Contratação do frete por conta do remetente (CIF)",
	"1": "Contratação do frete por conta do destinatário (FOB)",
	"2": "Contratação do frete por conta de terceiros",
	"3": "Transporte próprio por conta do remetente",
	"4": "Transporte próprio por conta do destinatário",
	"9": "Sem ocorrência de transporte",
}

// paymentTypes describes detPag/tPag codes
var paymentTypes = map[string]string{
	"01": "Dinheiro",
	"02": "Cheque",
	"03": "Cartão de Crédito",
	"04": "Cartão de Débito",
	"05": "Crédito Loja",
	"10": "Vale Alimentação",
	"11": "Vale Refeição",
	"12": "Vale Presente",
	"13": "Vale Combustível",
	"15": "Boleto Bancário",
	"16": "Depósito Bancário",
	"17": "PIX",
	"18": "Transferência bancária, Carteira Digital",
	"19": "Programa de fidelidade",
	"90": "Sem pagamento",
	"99": "Outros",
}

// FreightModeName returns the description of a modFrete code, or the
// code itself when unknown.
func FreightModeName(code string) string {
	if name, ok := freightModes[code]; ok {
		return name
	}
	return code
}

// PaymentTypeName returns the description of a tPag code, or the code
// itself when unknown.
func PaymentTypeName(code string) string {
	if name, ok := paymentTypes[code]; ok {
		return name
	}
	return code
}
