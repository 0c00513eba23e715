package fiscallib

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/rezonia/fiscal-processor/internal/model"
	"github.com/rezonia/fiscal-processor/internal/processor"
	"github.com/rezonia/fiscal-processor/internal/signature"
)

// ProcessResult is the outcome of processing one received document or
// manual entry
type ProcessResult struct {
	Document  *Document
	Manual    *ManualEntryResult
	Signature *signature.Info
	Warnings  []string

	// NeedsReview is set when cross-checks produced warnings or a manual
	// entry failed validation
	NeedsReview bool
}

// Options configures a Processor
type Options struct {
	// Concurrency bounds ProcessBatch; values below 1 mean 4
	Concurrency int
	Logger      *zap.Logger
}

// DefaultOptions returns the default processor options
func DefaultOptions() Options {
	return Options{Concurrency: 4}
}

// Processor parses received XML and validates JSON manual entries
type Processor struct {
	pipeline *processor.Pipeline
	options  Options
}

// NewProcessor creates a processor with the given options
func NewProcessor(opts Options) *Processor {
	if opts.Concurrency < 1 {
		opts.Concurrency = 4
	}
	return &Processor{
		pipeline: processor.NewPipeline(processor.WithLogger(opts.Logger)),
		options:  opts,
	}
}

// NewDefaultProcessor creates a processor with default options
func NewDefaultProcessor() *Processor {
	return NewProcessor(DefaultOptions())
}

// Process detects the input format and processes it
func (p *Processor) Process(ctx context.Context, r io.Reader) (*ProcessResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewParseError(model.DocumentUnknown, "input", "failed to read input", err)
	}
	return p.convert(p.pipeline.Process(ctx, data))
}

// ProcessXML parses a received NF-e or NFS-e
func (p *Processor) ProcessXML(ctx context.Context, r io.Reader) (*ProcessResult, error) {
	return p.convert(p.pipeline.ProcessXML(ctx, r))
}

func (p *Processor) convert(res *processor.Result) (*ProcessResult, error) {
	if res.Error != nil {
		return nil, res.Error
	}
	out := &ProcessResult{
		Document:  res.Document,
		Manual:    res.Manual,
		Signature: res.Signature,
		Warnings:  res.Warnings,
	}
	out.NeedsReview = len(res.Warnings) > 0 || (res.Manual != nil && !res.Manual.IsValid)
	return out, nil
}

// ProcessBatch processes inputs concurrently. Results keep the input order;
// the first error encountered is returned alongside the partial results.
// Inputs still queued when ctx is cancelled are skipped.
func (p *Processor) ProcessBatch(ctx context.Context, inputs []io.Reader) ([]*ProcessResult, error) {
	results := make([]*ProcessResult, len(inputs))
	errs := make([]error, len(inputs))

	sem := make(chan struct{}, p.options.Concurrency)
	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func(idx int, r io.Reader) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[idx] = ctx.Err()
				return
			}
			defer func() { <-sem }()

			// the slot may have been won after cancellation
			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = p.Process(ctx, r)
		}(i, input)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return results, fmt.Errorf("input %d: %w", i, err)
		}
	}
	return results, nil
}
