package processor

import "bytes"

// Format is the detected input format
type Format int

const (
	FormatUnknown Format = iota
	FormatXML
	FormatJSON
	FormatPDF
)

func (f Format) String() string {
	switch f {
	case FormatXML:
		return "xml"
	case FormatJSON:
		return "json"
	case FormatPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectFormat identifies the input format from its leading bytes
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(trimmed) == 0 {
		return FormatUnknown
	}

	switch {
	case bytes.HasPrefix(trimmed, []byte("%PDF")):
		return FormatPDF
	case trimmed[0] == '<':
		return FormatXML
	case trimmed[0] == '{' || trimmed[0] == '[':
		return FormatJSON
	default:
		return FormatUnknown
	}
}
