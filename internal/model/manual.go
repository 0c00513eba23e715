package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	fiscaldecimal "github.com/rezonia/fiscal-processor/internal/decimal"
)

// ManualHeader is a fiscal document header typed by hand.
// Values are kept as typed so validation can tell blank from zero.
type ManualHeader struct {
	Number      string     `json:"number"`
	Series      string     `json:"series"`
	AccessKey   string     `json:"accessKey,omitempty"`
	IssueDate   string     `json:"issueDate"`
	EmitterCNPJ string     `json:"emitterCnpj"`
	Total       Amount     `json:"total"`
	Kind        FiscalKind `json:"kind"`
}

// Amount is a money value as typed in a form, in pt-BR notation
// ("1.234,56"). JSON numbers are accepted too: they are rounded to cents
// and kept with a decimal comma, so ParseMoney reads them back unchanged.
type Amount string

// UnmarshalJSON accepts a string, a number or null
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a string or a number: %w", err)
	}
	d := fiscaldecimal.ParseMoneyValue(n)
	*a = Amount(strings.Replace(d.String(), ".", ",", 1))
	return nil
}

// ManualProductItem is a goods line entered by hand
type ManualProductItem struct {
	Code        string          `json:"code,omitempty"`
	Description string          `json:"description"`
	NCM         string          `json:"ncm,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit,omitempty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// ManualServiceItem is a services line entered by hand
type ManualServiceItem struct {
	ServiceCode string           `json:"serviceCode,omitempty"`
	Description string           `json:"description"`
	NetValue    decimal.Decimal  `json:"netValue"`
	ISSValue    *decimal.Decimal `json:"issValue,omitempty"`
}

// ManualItems carries the line items of a manual entry. Only the list
// matching the kind's ItemShape is considered.
type ManualItems struct {
	Products []ManualProductItem `json:"products,omitempty"`
	Services []ManualServiceItem `json:"services,omitempty"`
}

// Len returns the number of items of the given shape
func (m ManualItems) Len(shape ItemShape) int {
	if shape == ShapeService {
		return len(m.Services)
	}
	return len(m.Products)
}

// ManualEntry is a complete manual document: header plus items
type ManualEntry struct {
	Header ManualHeader `json:"header"`
	Items  ManualItems  `json:"items"`
}
