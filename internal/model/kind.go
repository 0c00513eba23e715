package model

import "fmt"

// FiscalKind is the closed set of manually entered document kinds
type FiscalKind string

const (
	KindProduct    FiscalKind = "produto"
	KindService    FiscalKind = "servico"
	KindStandalone FiscalKind = "avulso"
)

// ParseFiscalKind converts user input into a FiscalKind
func ParseFiscalKind(s string) (FiscalKind, error) {
	k := FiscalKind(s)
	if !k.Valid() {
		return "", NewValidationError("kind", s, "oneof", "kind must be one of produto, servico, avulso")
	}
	return k, nil
}

// Valid reports whether k is one of the known kinds
func (k FiscalKind) Valid() bool {
	switch k {
	case KindProduct, KindService, KindStandalone:
		return true
	default:
		return false
	}
}

// ItemShape tells which line-item shape a kind is entered with.
// Standalone receipts list goods, so they share the product shape.
func (k FiscalKind) ItemShape() ItemShape {
	switch k {
	case KindService:
		return ShapeService
	default:
		return ShapeProduct
	}
}

// RequiresAccessKey reports whether the 44-digit access key is mandatory
func (k FiscalKind) RequiresAccessKey() bool {
	return k == KindProduct
}

// RequiresEmitter reports whether series and emitter CNPJ are mandatory
func (k FiscalKind) RequiresEmitter() bool {
	return k != KindStandalone
}

func (k FiscalKind) String() string {
	return string(k)
}

// ItemShape distinguishes product-shaped from service-shaped line items
type ItemShape int

const (
	ShapeProduct ItemShape = iota
	ShapeService
)

func (s ItemShape) String() string {
	switch s {
	case ShapeService:
		return "service"
	case ShapeProduct:
		return "product"
	default:
		return fmt.Sprintf("ItemShape(%d)", int(s))
	}
}

// DocumentType identifies a fiscal XML document family
type DocumentType string

const (
	DocumentNFe     DocumentType = "NFe"
	DocumentNFSe    DocumentType = "NFSe"
	DocumentUnknown DocumentType = "Unknown"
)
