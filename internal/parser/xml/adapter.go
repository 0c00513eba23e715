package xml

import (
	"bytes"
	"context"
	"io"

	"github.com/rezonia/fiscal-processor/internal/model"
)

// Adapter parses one fiscal XML family into a Document
type Adapter interface {
	// Parse parses XML content into a Document
	Parse(ctx context.Context, r io.Reader) (*model.Document, error)

	// CanParse returns true if adapter can handle this content
	CanParse(content []byte) bool

	// DocumentType returns the document family handled
	DocumentType() model.DocumentType
}

// Registry holds all registered adapters
type Registry struct {
	adapters []Adapter
}

// NewRegistry creates registry with all adapters
func NewRegistry() *Registry {
	return &Registry{
		adapters: []Adapter{
			NewNFeAdapter(),  // <nfeProc>, <NFe>
			NewNFSeAdapter(), // <CompNfse>, <Nfse>
		},
	}
}

// Detect identifies the document family from XML content
func (r *Registry) Detect(content []byte) (Adapter, error) {
	for _, a := range r.adapters {
		if a.CanParse(content) {
			return a, nil
		}
	}
	return nil, model.NewParseError(model.DocumentUnknown, "root", "unknown XML format, no matching adapter found", nil)
}

// Parse parses XML using appropriate adapter
func (r *Registry) Parse(ctx context.Context, content []byte) (*model.Document, error) {
	adapter, err := r.Detect(content)
	if err != nil {
		return nil, err
	}
	return adapter.Parse(ctx, bytes.NewReader(content))
}

// RegisterAdapter adds a custom adapter to the registry
func (r *Registry) RegisterAdapter(a Adapter) {
	// Add at the beginning so custom adapters take priority
	r.adapters = append([]Adapter{a}, r.adapters...)
}

// GetAdapter returns adapter for a specific document type
func (r *Registry) GetAdapter(docType model.DocumentType) Adapter {
	for _, a := range r.adapters {
		if a.DocumentType() == docType {
			return a
		}
	}
	return nil
}
