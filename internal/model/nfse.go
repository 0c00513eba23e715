package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// NFSeInput is the object graph of an ABRASF-style services invoice
type NFSeInput struct {
	Numero            string            `json:"numero,omitempty"`
	CodigoVerificacao string            `json:"codigoVerificacao,omitempty"`
	DataEmissao       time.Time         `json:"dataEmissao"`
	Rps               Rps               `json:"rps"`
	Competencia       time.Time         `json:"competencia"`
	Servico           NFSeService       `json:"servico"`
	Prestador         ServiceProvider   `json:"prestador"`
	Tomador           *ServiceTaker     `json:"tomador,omitempty"`
	OrgaoGerador      *IssuingAuthority `json:"orgaoGerador,omitempty"`
}

// Rps identifies the provisional receipt the NFS-e was converted from
type Rps struct {
	Numero string `json:"numero"`
	Serie  string `json:"serie"`
	Tipo   string `json:"tipo"`
}

// NFSeService is the Servico block
type NFSeService struct {
	Valores                   NFSeValues `json:"valores"`
	ItemListaServico          string     `json:"itemListaServico"`
	CodigoCnae                string     `json:"codigoCnae,omitempty"`
	CodigoTributacaoMunicipio string     `json:"codigoTributacaoMunicipio"`
	Discriminacao             string     `json:"discriminacao"`
	CodigoMunicipio           string     `json:"codigoMunicipio"`
}

// NFSeValues holds the thirteen optional Servico/Valores fields.
// Aliquota is a percentage with 4 places; IssRetido is an integer flag
// (1 retained, 2 not retained).
type NFSeValues struct {
	ValorServicos    *decimal.Decimal `json:"valorServicos,omitempty"`
	ValorDeducoes    *decimal.Decimal `json:"valorDeducoes,omitempty"`
	ValorPis         *decimal.Decimal `json:"valorPis,omitempty"`
	ValorCofins      *decimal.Decimal `json:"valorCofins,omitempty"`
	ValorInss        *decimal.Decimal `json:"valorInss,omitempty"`
	ValorIr          *decimal.Decimal `json:"valorIr,omitempty"`
	ValorCsll        *decimal.Decimal `json:"valorCsll,omitempty"`
	IssRetido        *decimal.Decimal `json:"issRetido,omitempty"`
	ValorIss         *decimal.Decimal `json:"valorIss,omitempty"`
	OutrasRetencoes  *decimal.Decimal `json:"outrasRetencoes,omitempty"`
	BaseCalculo      *decimal.Decimal `json:"baseCalculo,omitempty"`
	Aliquota         *decimal.Decimal `json:"aliquota,omitempty"`
	ValorLiquidoNfse *decimal.Decimal `json:"valorLiquidoNfse,omitempty"`
}

// ServiceProvider is the PrestadorServico block
type ServiceProvider struct {
	Cnpj               string       `json:"cnpj"`
	InscricaoMunicipal string       `json:"inscricaoMunicipal,omitempty"`
	RazaoSocial        string       `json:"razaoSocial"`
	NomeFantasia       string       `json:"nomeFantasia,omitempty"`
	Endereco           *NFSeAddress `json:"endereco,omitempty"`
	Contato            *Contact     `json:"contato,omitempty"`
}

// ServiceTaker is the TomadorServico block. CpfCnpj selects the Cpf tag
// when it has 11 digits.
type ServiceTaker struct {
	CpfCnpj            string       `json:"cpfCnpj,omitempty"`
	InscricaoMunicipal string       `json:"inscricaoMunicipal,omitempty"`
	RazaoSocial        string       `json:"razaoSocial"`
	Endereco           *NFSeAddress `json:"endereco,omitempty"`
	Contato            *Contact     `json:"contato,omitempty"`
}

// NFSeAddress is the Endereco block of a provider or taker
type NFSeAddress struct {
	Endereco        string `json:"endereco,omitempty"`
	Numero          string `json:"numero,omitempty"`
	Complemento     string `json:"complemento,omitempty"`
	Bairro          string `json:"bairro,omitempty"`
	CodigoMunicipio string `json:"codigoMunicipio,omitempty"`
	Uf              string `json:"uf,omitempty"`
	Cep             string `json:"cep,omitempty"`
}

// Contact is the Contato block
type Contact struct {
	Telefone string `json:"telefone,omitempty"`
	Email    string `json:"email,omitempty"`
}

// IssuingAuthority is the OrgaoGerador block
type IssuingAuthority struct {
	CodigoMunicipio string `json:"codigoMunicipio"`
	Uf              string `json:"uf"`
}
