// Package signature inspects the XML-DSig envelope of received fiscal
// documents: where it points, which algorithms it names and who signed
// it. It does not verify signatures.
package signature

import (
	"bytes"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/beevik/etree"

	xmlparser "github.com/rezonia/fiscal-processor/internal/parser/xml"
)

// CanInspect returns true if the data appears to be XML with a signature
func CanInspect(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if !bytes.HasPrefix(trimmed, []byte("<")) {
		return false
	}

	return bytes.Contains(data, []byte("<Signature")) ||
		bytes.Contains(data, []byte(":Signature"))
}

// Inspect reads the first Signature element of an XML document. A document
// without one yields Info{Present: false}; only malformed XML is an error.
func Inspect(data []byte) (*Info, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = xmlparser.CharsetReader
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty XML document")
	}

	sig := findElement(root, "Signature")
	if sig == nil {
		return &Info{}, nil
	}

	info := &Info{Present: true}
	if signedInfo := child(sig, "SignedInfo"); signedInfo != nil {
		info.CanonicalizationMethod = algorithm(child(signedInfo, "CanonicalizationMethod"))
		info.SignatureMethod = algorithm(child(signedInfo, "SignatureMethod"))
		if ref := child(signedInfo, "Reference"); ref != nil {
			info.ReferenceURI = ref.SelectAttrValue("URI", "")
			info.DigestMethod = algorithm(child(ref, "DigestMethod"))
			if dv := child(ref, "DigestValue"); dv != nil {
				info.DigestValue = strings.TrimSpace(dv.Text())
			}
		}
	}

	if certElem := findElement(sig, "X509Certificate"); certElem != nil {
		if cert, err := parseCertificate(certElem.Text()); err == nil {
			info.Signer = newSignerInfo(cert)
		}
	}

	return info, nil
}

func parseCertificate(text string) (*x509.Certificate, error) {
	clean := strings.Join(strings.Fields(text), "")
	der, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return nil, err
	}
	return x509.ParseCertificate(der)
}

func algorithm(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return el.SelectAttrValue("Algorithm", "")
}

// child returns the first direct child with the given local name
func child(el *etree.Element, localName string) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Tag == localName {
			return c
		}
	}
	return nil
}

// findElement searches for an element by local name recursively
func findElement(elem *etree.Element, localName string) *etree.Element {
	// etree keeps the prefix in Space, so Tag is already the local name
	if elem.Tag == localName {
		return elem
	}

	for _, c := range elem.ChildElements() {
		if found := findElement(c, localName); found != nil {
			return found
		}
	}

	return nil
}
