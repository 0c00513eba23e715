// Package fiscallib provides a public API for Brazilian fiscal documents.
//
// It validates manually typed NF-e/NFS-e data, builds NF-e and NFS-e XML
// from structured input and parses received XML back into display data.
//
// Example usage:
//
//	res := fiscallib.ValidateManualHeader(header)
//	if !res.IsValid {
//	    fmt.Println(res.Errors)
//	}
//	xml := fiscallib.BuildNFeXML(input)
//	data := fiscallib.ParseNFe([]byte(xml))
package fiscallib

import "github.com/rezonia/fiscal-processor/internal/model"

// Re-export core types for public API
type (
	FiscalKind   = model.FiscalKind
	DocumentType = model.DocumentType

	ManualHeader      = model.ManualHeader
	Amount            = model.Amount
	ManualProductItem = model.ManualProductItem
	ManualServiceItem = model.ManualServiceItem
	ManualItems       = model.ManualItems
	ManualEntry       = model.ManualEntry

	Address   = model.Address
	Emitter   = model.Emitter
	Recipient = model.Recipient

	NFeInput    = model.NFeInput
	Ide         = model.Ide
	LineItem    = model.LineItem
	Taxes       = model.Taxes
	ICMS        = model.ICMS
	IPI         = model.IPI
	PIS         = model.PIS
	COFINS      = model.COFINS
	Totals      = model.Totals
	Transport   = model.Transport
	Transporter = model.Transporter
	Volume      = model.Volume
	Payment     = model.Payment
	Protocol    = model.Protocol

	NFSeInput        = model.NFSeInput
	Rps              = model.Rps
	NFSeService      = model.NFSeService
	NFSeValues       = model.NFSeValues
	ServiceProvider  = model.ServiceProvider
	ServiceTaker     = model.ServiceTaker
	NFSeAddress      = model.NFSeAddress
	Contact          = model.Contact
	IssuingAuthority = model.IssuingAuthority

	Document = model.Document
	NFEData  = model.NFEData
	NFEItem  = model.NFEItem
	Empresa  = model.Empresa
	NFSEData = model.NFSEData

	ValidationResult      = model.ValidationResult
	ItemError             = model.ItemError
	ItemsValidationResult = model.ItemsValidationResult
	TotalConsistency      = model.TotalConsistency
	ManualEntryResult     = model.ManualEntryResult
)

// Re-export fiscal kinds
const (
	KindProduct    = model.KindProduct
	KindService    = model.KindService
	KindStandalone = model.KindStandalone
)

// Re-export document types
const (
	DocumentNFe     = model.DocumentNFe
	DocumentNFSe    = model.DocumentNFSe
	DocumentUnknown = model.DocumentUnknown
)

// Re-export error types
type (
	ParseError      = model.ParseError
	ValidationError = model.ValidationError
)
