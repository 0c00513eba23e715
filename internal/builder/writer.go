// Package builder serializes fiscal documents into the NF-e 4.00 and
// ABRASF NFS-e XML layouts. Text and attribute values are escaped by the
// element writer, and optional fields are omitted entirely when absent.
// Builders never validate their input and never fail.
package builder

import (
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	fiscaldecimal "github.com/rezonia/fiscal-processor/internal/decimal"
)

const (
	dateTimeLayout      = "2006-01-02T15:04:05-07:00"
	localDateTimeLayout = "2006-01-02T15:04:05"
	dateLayout          = "2006-01-02"
)

// Option customizes the serialized output
type Option func(*options)

type options struct {
	indent int
}

// WithIndent pretty-prints the document using n spaces per level
func WithIndent(n int) Option {
	return func(o *options) {
		o.indent = n
	}
}

func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return doc
}

func render(doc *etree.Document, opts []Option) string {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.indent > 0 {
		doc.Indent(o.indent)
	}
	// writing into memory cannot fail
	s, _ := doc.WriteToString()
	return s
}

// text always emits the element, even when value is empty
func text(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(value)
	return el
}

func optText(parent *etree.Element, tag, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	text(parent, tag, value)
}

func fixed(parent *etree.Element, tag string, d decimal.Decimal, places int32) {
	text(parent, tag, fiscaldecimal.Fixed(d, places))
}

func optFixed(parent *etree.Element, tag string, d *decimal.Decimal, places int32) {
	if d == nil {
		return
	}
	fixed(parent, tag, *d, places)
}

func optTime(parent *etree.Element, tag string, t *time.Time, layout string) {
	if t == nil || t.IsZero() {
		return
	}
	text(parent, tag, t.Format(layout))
}

// group creates an element and drops it again if nothing was written into it
func group(parent *etree.Element, tag string, fill func(el *etree.Element)) {
	el := parent.CreateElement(tag)
	fill(el)
	if len(el.ChildElements()) == 0 {
		parent.RemoveChild(el)
	}
}

func orDefault(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
