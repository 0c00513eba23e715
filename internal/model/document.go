package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document is the result of parsing a received XML. Exactly one of NFe
// and NFSe is set, according to Type.
type Document struct {
	Type DocumentType `json:"type"`
	NFe  *NFEData     `json:"nfe,omitempty"`
	NFSe *NFSEData    `json:"nfse,omitempty"`
}

// NFEData is the display model of a parsed NF-e
type NFEData struct {
	Number            string     `json:"number"`
	Series            string     `json:"series"`
	Model             string     `json:"model,omitempty"`
	NatureOfOperation string     `json:"natureOfOperation,omitempty"`
	IssuedAt          *time.Time `json:"issuedAt,omitempty"`
	EntryExitAt       *time.Time `json:"entryExitAt,omitempty"`

	// AccessKey is grouped in blocks of four digits for display;
	// AccessKeyDigits keeps the raw value.
	AccessKey       string `json:"accessKey,omitempty"`
	AccessKeyDigits string `json:"accessKeyDigits,omitempty"`

	Protocol     string     `json:"protocol,omitempty"`
	StatusCode   string     `json:"statusCode,omitempty"`
	Status       string     `json:"status,omitempty"`
	AuthorizedAt *time.Time `json:"authorizedAt,omitempty"`

	Emitter    Empresa    `json:"emitter"`
	Recipient  *Empresa   `json:"recipient,omitempty"`
	Items      []NFEItem  `json:"items"`
	Totals     NFETotals  `json:"totals"`
	Transport  *Transport `json:"transport,omitempty"`
	Payments   []Payment  `json:"payments,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	FiscoNotes string     `json:"fiscoNotes,omitempty"`
}

// Empresa is a party of a parsed NF-e. DocumentType is "CNPJ" or "CPF".
type Empresa struct {
	Document     string  `json:"document"`
	DocumentType string  `json:"documentType"`
	Name         string  `json:"name"`
	TradeName    string  `json:"tradeName,omitempty"`
	IE           string  `json:"ie,omitempty"`
	IM           string  `json:"im,omitempty"`
	CRT          string  `json:"crt,omitempty"`
	Address      Address `json:"address"`
	Phone        string  `json:"phone,omitempty"`
	Email        string  `json:"email,omitempty"`
}

// NFEItem is one parsed det element with its tax amounts
type NFEItem struct {
	Number      int             `json:"number"`
	Code        string          `json:"code,omitempty"`
	Description string          `json:"description"`
	NCM         string          `json:"ncm,omitempty"`
	CEST        string          `json:"cest,omitempty"`
	CFOP        string          `json:"cfop,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
	Taxes       ItemTaxes       `json:"taxes"`
}

// ItemTaxes are the tax amounts of one item. Total is their sum.
type ItemTaxes struct {
	ICMS   decimal.Decimal `json:"icms"`
	IPI    decimal.Decimal `json:"ipi"`
	PIS    decimal.Decimal `json:"pis"`
	COFINS decimal.Decimal `json:"cofins"`
	Total  decimal.Decimal `json:"total"`
}

// NFETotals is the parsed ICMSTot block. Absent fields are zero.
type NFETotals struct {
	VBC      decimal.Decimal `json:"vBC"`
	VICMS    decimal.Decimal `json:"vICMS"`
	VProd    decimal.Decimal `json:"vProd"`
	VFrete   decimal.Decimal `json:"vFrete"`
	VSeg     decimal.Decimal `json:"vSeg"`
	VDesc    decimal.Decimal `json:"vDesc"`
	VIPI     decimal.Decimal `json:"vIPI"`
	VPIS     decimal.Decimal `json:"vPIS"`
	VCOFINS  decimal.Decimal `json:"vCOFINS"`
	VOutro   decimal.Decimal `json:"vOutro"`
	VNF      decimal.Decimal `json:"vNF"`
	VTotTrib decimal.Decimal `json:"vTotTrib"`
}

// NFSEData is the display model of a parsed NFS-e
type NFSEData struct {
	Numero            string            `json:"numero"`
	CodigoVerificacao string            `json:"codigoVerificacao,omitempty"`
	DataEmissao       *time.Time        `json:"dataEmissao,omitempty"`
	Competencia       *time.Time        `json:"competencia,omitempty"`
	Rps               *Rps              `json:"rps,omitempty"`
	Servico           NFSeService       `json:"servico"`
	Prestador         ServiceProvider   `json:"prestador"`
	Tomador           *ServiceTaker     `json:"tomador,omitempty"`
	OrgaoGerador      *IssuingAuthority `json:"orgaoGerador,omitempty"`
}

// ItemsTotal sums the parsed item totals
func (d *NFEData) ItemsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range d.Items {
		sum = sum.Add(item.Total)
	}
	return sum
}

// TaxTotal sums the per-item tax totals
func (d *NFEData) TaxTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range d.Items {
		sum = sum.Add(item.Taxes.Total)
	}
	return sum
}
