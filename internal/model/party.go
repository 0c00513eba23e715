package model

// Address is a postal address as used by NF-e parties
type Address struct {
	Street       string `json:"street,omitempty"`
	Number       string `json:"number,omitempty"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	UF           string `json:"uf,omitempty"`
	CEP          string `json:"cep,omitempty"`
	Country      string `json:"country,omitempty"`
}

// Emitter is the company issuing an NF-e
type Emitter struct {
	CNPJ      string  `json:"cnpj"`
	Name      string  `json:"name"`
	TradeName string  `json:"tradeName,omitempty"`
	Address   Address `json:"address"`
	IE        string  `json:"ie,omitempty"`
	IM        string  `json:"im,omitempty"`
	CNAE      string  `json:"cnae,omitempty"`
	CRT       string  `json:"crt,omitempty"`
	Phone     string  `json:"phone,omitempty"`
	Email     string  `json:"email,omitempty"`
}

// Recipient is the company or person receiving an NF-e.
// CNPJCPF holds either a 14-digit CNPJ or an 11-digit CPF.
type Recipient struct {
	CNPJCPF string  `json:"cnpjCpf"`
	Name    string  `json:"name"`
	Address Address `json:"address"`
	IE      string  `json:"ie,omitempty"`
	Phone   string  `json:"phone,omitempty"`
	Email   string  `json:"email,omitempty"`
}
