package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/rezonia/fiscal-processor/internal/model"
	xmlparser "github.com/rezonia/fiscal-processor/internal/parser/xml"
	"github.com/rezonia/fiscal-processor/internal/signature"
	"github.com/rezonia/fiscal-processor/internal/validator"
)

// ErrUnsupportedFormat is returned for inputs that are neither fiscal XML
// nor a JSON manual entry
var ErrUnsupportedFormat = errors.New("unsupported input format")

// Result is the outcome of processing one input
type Result struct {
	Format    Format                   `json:"-"`
	Document  *model.Document          `json:"document,omitempty"`
	Manual    *model.ManualEntryResult `json:"manual,omitempty"`
	Signature *signature.Info          `json:"signature,omitempty"`
	Warnings  []string                 `json:"warnings,omitempty"`
	Error     error                    `json:"-"`
}

// Valid reports whether the input was processed without error and, for
// manual entries, passed validation
func (r *Result) Valid() bool {
	if r.Error != nil {
		return false
	}
	if r.Manual != nil {
		return r.Manual.IsValid
	}
	return r.Document != nil
}

// Pipeline parses received documents and checks manual entries
type Pipeline struct {
	registry *xmlparser.Registry
	logger   *zap.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithRegistry replaces the default adapter registry
func WithRegistry(r *xmlparser.Registry) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.registry = r
		}
	}
}

// WithLogger sets the logger used for per-document debug output
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPipeline creates a pipeline with the NF-e and NFS-e adapters
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		registry: xmlparser.NewRegistry(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process detects the format of data and dispatches to the matching step
func (p *Pipeline) Process(ctx context.Context, data []byte) *Result {
	switch format := DetectFormat(data); format {
	case FormatXML:
		return p.ProcessXMLBytes(ctx, data)
	case FormatJSON:
		return p.ProcessManualJSON(ctx, data)
	default:
		return &Result{Format: format, Error: fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)}
	}
}

// ProcessXML parses a received fiscal XML from r
func (p *Pipeline) ProcessXML(ctx context.Context, r io.Reader) *Result {
	data, err := io.ReadAll(r)
	if err != nil {
		return &Result{Format: FormatXML, Error: fmt.Errorf("failed to read XML: %w", err)}
	}
	return p.ProcessXMLBytes(ctx, data)
}

// ProcessXMLBytes parses a received fiscal XML and cross-checks the parsed
// values. Cross-check findings are warnings and never fail the parse.
func (p *Pipeline) ProcessXMLBytes(ctx context.Context, data []byte) *Result {
	result := &Result{Format: FormatXML}

	doc, err := p.registry.Parse(ctx, data)
	if err != nil {
		result.Error = fmt.Errorf("XML parsing failed: %w", err)
		return result
	}
	result.Document = doc

	if signature.CanInspect(data) {
		if info, err := signature.Inspect(data); err == nil {
			result.Signature = info
		}
	}

	result.Warnings = CrossCheck(doc, result.Signature)
	p.logger.Debug("document parsed",
		zap.String("type", string(doc.Type)),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result
}

// ProcessManualJSON decodes a manual entry and validates it
func (p *Pipeline) ProcessManualJSON(ctx context.Context, data []byte) *Result {
	result := &Result{Format: FormatJSON}
	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	var entry model.ManualEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		result.Error = fmt.Errorf("invalid manual entry: %w", err)
		return result
	}

	res := validator.ValidateManualEntry(entry)
	result.Manual = &res
	p.logger.Debug("manual entry validated",
		zap.String("kind", string(entry.Header.Kind)),
		zap.Bool("valid", res.IsValid),
	)
	return result
}
