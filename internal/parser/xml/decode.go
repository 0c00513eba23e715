package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

// unmarshal decodes content into v, accepting Latin-1 declared documents.
// Anything after the root element other than whitespace, comments and
// processing instructions makes the document invalid.
func unmarshal(content []byte, v interface{}) error {
	dec := xml.NewDecoder(bytes.NewReader(content))
	dec.CharsetReader = CharsetReader
	if err := dec.Decode(v); err != nil {
		return err
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("unexpected element <%s> after document root", t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("unexpected text after document root")
			}
		}
	}
}

// CharsetReader decodes ISO-8859-1 and windows-1252 documents into UTF-8
func CharsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	case "utf-8", "utf8", "":
		return input, nil
	default:
		return nil, fmt.Errorf("unsupported charset: %s", label)
	}
}

// amount parses a dot-decimal XML number; missing or malformed values are zero
func amount(s string) decimal.Decimal {
	if d, err := decimal.NewFromString(strings.TrimSpace(s)); err == nil {
		return d
	}
	return decimal.Zero
}

// optAmount is amount for optional fields: absent stays nil
func optAmount(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d := amount(s)
	return &d
}

func parseDate(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
		"02/01/2006 15:04:05",
		"02/01/2006",
	}

	s = strings.TrimSpace(s)
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("cannot parse date: %s", s)
}

// optDate returns nil when s is empty or not a recognised date
func optDate(s string) *time.Time {
	t, err := parseDate(s)
	if err != nil {
		return nil
	}
	return &t
}
