package signature

import (
	"crypto/x509"
	"strings"
	"time"
)

// Info describes the XML-DSig envelope found in a fiscal document.
// Nothing here is cryptographically verified.
type Info struct {
	Present bool `json:"present"`

	// ReferenceURI points at the signed element, "#NFe<key>" for an NF-e
	ReferenceURI           string `json:"referenceUri,omitempty"`
	CanonicalizationMethod string `json:"canonicalizationMethod,omitempty"`
	SignatureMethod        string `json:"signatureMethod,omitempty"`
	DigestMethod           string `json:"digestMethod,omitempty"`
	DigestValue            string `json:"digestValue,omitempty"`

	Signer *SignerInfo `json:"signer,omitempty"`
}

// SignerInfo contains certificate subject information
type SignerInfo struct {
	// Common name (CN)
	Name string `json:"name"`

	// CNPJ taken from an ICP-Brasil e-CNPJ common name ("RAZAO SOCIAL:11222333000181")
	CNPJ string `json:"cnpj,omitempty"`

	// Organization (O)
	Organization string `json:"organization,omitempty"`

	SerialNumber string `json:"serialNumber"`

	// Issuer common name
	Issuer string `json:"issuer"`

	// Certificate validity period
	ValidFrom time.Time `json:"validFrom"`
	ValidTo   time.Time `json:"validTo"`
}

// ExpiredAt reports whether the certificate was outside its validity period at t
func (s *SignerInfo) ExpiredAt(t time.Time) bool {
	return t.Before(s.ValidFrom) || t.After(s.ValidTo)
}

func newSignerInfo(cert *x509.Certificate) *SignerInfo {
	signer := &SignerInfo{
		Name:         cert.Subject.CommonName,
		SerialNumber: cert.SerialNumber.String(),
		ValidFrom:    cert.NotBefore,
		ValidTo:      cert.NotAfter,
	}

	if len(cert.Subject.Organization) > 0 {
		signer.Organization = cert.Subject.Organization[0]
	}

	if cert.Issuer.CommonName != "" {
		signer.Issuer = cert.Issuer.CommonName
	} else if len(cert.Issuer.Organization) > 0 {
		signer.Issuer = cert.Issuer.Organization[0]
	}

	if idx := strings.LastIndexByte(signer.Name, ':'); idx >= 0 {
		if id := signer.Name[idx+1:]; len(id) == 14 && isDigits(id) {
			signer.CNPJ = id
		}
	}

	return signer
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
