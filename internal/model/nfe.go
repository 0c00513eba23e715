package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// NFeInput is the full object graph of a goods invoice (NF-e 4.00).
// Pointer fields are optional and are omitted from the XML when nil.
type NFeInput struct {
	AccessKey      string     `json:"accessKey,omitempty"`
	Ide            Ide        `json:"ide"`
	Emitter        Emitter    `json:"emit"`
	Recipient      *Recipient `json:"dest,omitempty"`
	Items          []LineItem `json:"items"`
	Totals         Totals     `json:"totals"`
	Transport      *Transport `json:"transport,omitempty"`
	Payment        *Payment   `json:"payment,omitempty"`
	AdditionalInfo string     `json:"additionalInfo,omitempty"`
	Protocol       *Protocol  `json:"protocol,omitempty"`
}

// Ide identifies the document
type Ide struct {
	NatureOfOperation string     `json:"natOp,omitempty"`
	Model             string     `json:"mod,omitempty"`
	Series            string     `json:"series"`
	Number            string     `json:"number"`
	IssuedAt          time.Time  `json:"dhEmi"`
	EntryExitAt       *time.Time `json:"dhSaiEnt,omitempty"`
}

// LineItem is one det element. LineNumber is emitted as given; callers
// keep it 1-based and sequential. TotalPrice is never recomputed.
type LineItem struct {
	LineNumber  int             `json:"lineNumber"`
	Code        string          `json:"code,omitempty"`
	Description string          `json:"description"`
	NCM         string          `json:"ncm,omitempty"`
	CEST        string          `json:"cest,omitempty"`
	CFOP        string          `json:"cfop,omitempty"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Taxes       Taxes           `json:"taxes"`
}

// Taxes groups the per-item tax blocks
type Taxes struct {
	ICMS   *ICMS   `json:"icms,omitempty"`
	IPI    *IPI    `json:"ipi,omitempty"`
	PIS    *PIS    `json:"pis,omitempty"`
	COFINS *COFINS `json:"cofins,omitempty"`
}

// ICMS is the simple CST 00 shape
type ICMS struct {
	Orig  string           `json:"orig,omitempty"`
	CST   string           `json:"cst,omitempty"`
	ModBC string           `json:"modBC,omitempty"`
	VBC   *decimal.Decimal `json:"vBC,omitempty"`
	PICMS *decimal.Decimal `json:"pICMS,omitempty"`
	VICMS *decimal.Decimal `json:"vICMS,omitempty"`
}

// IPI is the imposto/IPI block, written as IPITrib
type IPI struct {
	CEnq string           `json:"cEnq,omitempty"`
	CST  string           `json:"cst,omitempty"`
	VBC  *decimal.Decimal `json:"vBC,omitempty"`
	PIPI *decimal.Decimal `json:"pIPI,omitempty"`
	VIPI *decimal.Decimal `json:"vIPI,omitempty"`
}

// PIS carries only the CST of the PISNT group
type PIS struct {
	CST string `json:"cst,omitempty"`
}

// COFINS carries only the CST of the COFINSNT group
type COFINS struct {
	CST string `json:"cst,omitempty"`
}

// Default CST codes applied when a tax block carries none
const (
	DefaultICMSCST   = "00"
	DefaultIPICST    = "99"
	DefaultPISCST    = "08"
	DefaultCOFINSCST = "08"
)

// Totals maps to total/ICMSTot. VNF is always emitted.
type Totals struct {
	VBC      *decimal.Decimal `json:"vBC,omitempty"`
	VICMS    *decimal.Decimal `json:"vICMS,omitempty"`
	VProd    *decimal.Decimal `json:"vProd,omitempty"`
	VFrete   *decimal.Decimal `json:"vFrete,omitempty"`
	VDesc    *decimal.Decimal `json:"vDesc,omitempty"`
	VIPI     *decimal.Decimal `json:"vIPI,omitempty"`
	VNF      decimal.Decimal  `json:"vNF"`
	VTotTrib *decimal.Decimal `json:"vTotTrib,omitempty"`
}

// Transport maps to transp. ModFrete is required.
type Transport struct {
	ModFrete    string       `json:"modFrete"`
	Transporter *Transporter `json:"transporter,omitempty"`
	Volume      *Volume      `json:"volume,omitempty"`
}

// Transporter maps to transp/transporta
type Transporter struct {
	CNPJ    string `json:"cnpj,omitempty"`
	Name    string `json:"name,omitempty"`
	IE      string `json:"ie,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	UF      string `json:"uf,omitempty"`
}

// Volume maps to transp/vol
type Volume struct {
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	Specie   string           `json:"specie,omitempty"`
}

// Payment maps to pag/detPag
type Payment struct {
	IndPag string          `json:"indPag,omitempty"`
	TPag   string          `json:"tPag"`
	VPag   decimal.Decimal `json:"vPag"`
}

// Protocol is the authorization protocol attached by the tax authority
// (protNFe/infProt).
type Protocol struct {
	Number     string     `json:"nProt"`
	StatusCode string     `json:"cStat,omitempty"`
	Reason     string     `json:"xMotivo,omitempty"`
	ReceivedAt *time.Time `json:"dhRecbto,omitempty"`
}
