package server

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/fiscal-processor/internal/model"
	"github.com/rezonia/fiscal-processor/internal/signature"
)

// ItemsRequest is the body of /validate/items
type ItemsRequest struct {
	Kind  model.FiscalKind  `json:"kind" binding:"required,oneof=produto servico avulso"`
	Items model.ManualItems `json:"items"`
}

// TotalsRequest is the body of /validate/totals
type TotalsRequest struct {
	Kind  model.FiscalKind  `json:"kind" binding:"required,oneof=produto servico avulso"`
	Total model.Amount      `json:"total" binding:"required"`
	Items model.ManualItems `json:"items"`
}

// TaxComputeRequest is the body of /taxes/compute
type TaxComputeRequest struct {
	Tax  string           `json:"tax" binding:"required,oneof=icms ipi iss"`
	Base *decimal.Decimal `json:"base" binding:"required"`
	Rate *decimal.Decimal `json:"rate" binding:"required"`
}

// TaxComputeResponse is the computed tax amount
type TaxComputeResponse struct {
	Tax    string          `json:"tax"`
	Amount decimal.Decimal `json:"amount"`
}

// ParseResponse is the response for /parse
type ParseResponse struct {
	Type      model.DocumentType `json:"type"`
	NFe       *model.NFEData     `json:"nfe,omitempty"`
	NFSe      *model.NFSEData    `json:"nfse,omitempty"`
	Signature *signature.Info    `json:"signature,omitempty"`
	Warnings  []string           `json:"warnings,omitempty"`
}

// InfoResponse is the response for /info
type InfoResponse struct {
	Format       string             `json:"format"`
	DocumentType model.DocumentType `json:"documentType,omitempty"`
	Signed       bool               `json:"signed"`
	Size         int                `json:"size"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error    string       `json:"error"`
	Details  string       `json:"details,omitempty"`
	Fields   []FieldError `json:"fields,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

// FieldError is one request binding failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
