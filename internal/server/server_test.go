package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fiscal-processor/internal/model"
	"github.com/rezonia/fiscal-processor/internal/server"
)

func newTestServer() *server.Server {
	config := &server.Config{
		Address:        ":8080",
		Debug:          true,
		MaxBodyBytes:   1 << 20,
		MetricsEnabled: true,
	}
	return server.NewServer(config)
}

func readTestFile(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func do(t *testing.T, srv *server.Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	decode(t, w, &response)
	assert.Equal(t, "ok", response["status"])
	assert.NotEmpty(t, response["time"])
}

func TestRequestID(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv, http.MethodGet, "/health", nil)
	assert.Len(t, w.Header().Get(server.RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(server.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(server.RequestIDHeader))
}

func TestValidateHeaderEndpoint(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		valid  bool
		errors map[string]string
	}{
		{
			name:  "valid standalone header",
			body:  `{"number":"1","issueDate":"2024-01-15","total":"10,50","kind":"avulso"}`,
			valid: true,
		},
		{
			name:  "product header without access key",
			body:  `{"number":"1","series":"1","issueDate":"2024-01-15","emitterCnpj":"11222333000181","total":"10","kind":"produto"}`,
			valid: false,
			errors: map[string]string{
				"accessKey": "access key is required",
			},
		},
		{
			name:  "unknown kind is a field error",
			body:  `{"number":"1","issueDate":"2024-01-15","total":"10","kind":"outro"}`,
			valid: false,
			errors: map[string]string{
				"kind": "kind must be one of produto, servico, avulso",
			},
		},
	}

	srv := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/api/v1/validate/header", []byte(tt.body))
			require.Equal(t, http.StatusOK, w.Code)

			var res model.ValidationResult
			decode(t, w, &res)
			assert.Equal(t, tt.valid, res.IsValid)
			for field, msg := range tt.errors {
				assert.Equal(t, msg, res.Errors[field])
			}
		})
	}
}

func TestValidateHeaderEndpoint_MalformedJSON(t *testing.T) {
	w := do(t, newTestServer(), http.MethodPost, "/api/v1/validate/header", []byte(`{"number":`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var res server.ErrorResponse
	decode(t, w, &res)
	assert.Equal(t, "invalid request body", res.Error)
}

func TestValidateItemsEndpoint(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv, http.MethodPost, "/api/v1/validate/items",
		[]byte(`{"kind":"servico","items":{"services":[{"description":"Consultoria","netValue":"0"}]}}`))
	require.Equal(t, http.StatusOK, w.Code)

	var res model.ItemsValidationResult
	decode(t, w, &res)
	assert.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 0, res.Errors[0].Index)
	assert.Equal(t, "net value must be greater than zero", res.Errors[0].Message)
}

func TestValidateItemsEndpoint_BindingErrors(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv, http.MethodPost, "/api/v1/validate/items", []byte(`{"kind":"bogus"}`))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var res server.ErrorResponse
	decode(t, w, &res)
	assert.Equal(t, "request validation failed", res.Error)
	require.Len(t, res.Fields, 1)
	assert.Equal(t, "kind", res.Fields[0].Field)
	assert.Equal(t, "must be one of: produto servico avulso", res.Fields[0].Message)
}

func TestValidateTotalsEndpoint(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv, http.MethodPost, "/api/v1/validate/totals",
		[]byte(`{"kind":"produto","total":"1.234,50","items":{"products":[{"description":"Notebook","quantity":"1","unitPrice":"1234.5"}]}}`))
	require.Equal(t, http.StatusOK, w.Code)

	var res model.TotalConsistency
	decode(t, w, &res)
	assert.True(t, res.IsValid)
	assert.Equal(t, "1234.5", res.Expected.String())
	assert.Equal(t, "1234.5", res.Provided.String())
}

func TestValidateTotalsEndpoint_NumericTotal(t *testing.T) {
	srv := newTestServer()
	items := `"items":{"products":[{"description":"Notebook","quantity":"1","unitPrice":"1234.5"}]}`

	w := do(t, srv, http.MethodPost, "/api/v1/validate/totals",
		[]byte(`{"kind":"produto","total":1234.5,`+items+`}`))
	require.Equal(t, http.StatusOK, w.Code)

	var res model.TotalConsistency
	decode(t, w, &res)
	assert.True(t, res.IsValid)
	assert.Equal(t, "1234.5", res.Provided.String())

	w = do(t, srv, http.MethodPost, "/api/v1/validate/totals",
		[]byte(`{"kind":"produto","total":20,`+items+`}`))
	require.Equal(t, http.StatusOK, w.Code)

	var mismatch model.TotalConsistency
	decode(t, w, &mismatch)
	assert.False(t, mismatch.IsValid)
	assert.Equal(t, "20", mismatch.Provided.String())

	w = do(t, srv, http.MethodPost, "/api/v1/validate/totals",
		[]byte(`{"kind":"produto","total":true,`+items+`}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateManualEndpoint_NumericTotal(t *testing.T) {
	srv := newTestServer()

	body := `{"header":{"number":"7","issueDate":"2024-03-01","total":10,"kind":"avulso"},
		"items":{"products":[{"description":"Caneta","quantity":"2","unitPrice":"5"}]}}`
	w := do(t, srv, http.MethodPost, "/api/v1/validate/manual", []byte(body))
	require.Equal(t, http.StatusOK, w.Code)

	var res model.ManualEntryResult
	decode(t, w, &res)
	assert.True(t, res.IsValid)
	require.NotNil(t, res.Consistency)
	assert.Equal(t, "10", res.Consistency.Provided.String())
}

func TestValidateManualEndpoint(t *testing.T) {
	srv := newTestServer()

	body := `{"header":{"number":"7","issueDate":"2024-03-01","total":"99","kind":"avulso"},
		"items":{"products":[{"description":"Caneta","quantity":"2","unitPrice":"5"}]}}`
	w := do(t, srv, http.MethodPost, "/api/v1/validate/manual", []byte(body))
	require.Equal(t, http.StatusOK, w.Code)

	var res model.ManualEntryResult
	decode(t, w, &res)
	assert.False(t, res.IsValid)
	assert.True(t, res.Header.IsValid)
	assert.True(t, res.Items.IsValid)
	require.NotNil(t, res.Consistency)
	assert.False(t, res.Consistency.IsValid)
	assert.Equal(t, "10", res.Consistency.Expected.String())
}

func TestValidatePartyEndpoints(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		body  string
		field string
		msg   string
	}{
		{
			name: "emitter bad CNPJ", path: "/api/v1/validate/emitter",
			body:  `{"cnpj":"11222333000182","name":"Acme","address":{"city":"São Paulo","uf":"SP","cep":"01001000"}}`,
			field: "cnpj", msg: "invalid CNPJ",
		},
		{
			name: "recipient bad length", path: "/api/v1/validate/recipient",
			body:  `{"cnpjCpf":"123","name":"Maria","address":{"city":"Campinas","uf":"SP","cep":"13010000"}}`,
			field: "cnpjCpf", msg: "CNPJ must have 14 digits or CPF 11 digits",
		},
		{
			name: "transport without modality", path: "/api/v1/validate/transport",
			body:  `{}`,
			field: "modFrete", msg: "freight modality is required",
		},
		{
			name: "taxes rate above 100", path: "/api/v1/validate/taxes",
			body:  `{"icms":{"pICMS":"150"}}`,
			field: "icms.pICMS", msg: "ICMS rate must be between 0 and 100",
		},
		{
			name: "service without value", path: "/api/v1/validate/service",
			body:  `{"itemListaServico":"01.07","codigoTributacaoMunicipio":"010701","discriminacao":"x","codigoMunicipio":"3550308","valores":{}}`,
			field: "valorServicos", msg: "service value must be greater than zero",
		},
	}

	srv := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, tt.path, []byte(tt.body))
			require.Equal(t, http.StatusOK, w.Code)

			var res model.ValidationResult
			decode(t, w, &res)
			assert.False(t, res.IsValid)
			assert.Equal(t, tt.msg, res.Errors[tt.field])
		})
	}
}

func TestComputeTaxEndpoint(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"tax":"icms","base":"100","rate":"18"}`, "18"},
		{`{"tax":"ipi","base":"15","rate":"5"}`, "0.75"},
		{`{"tax":"iss","base":"333.33","rate":"2"}`, "6.67"},
	}

	srv := newTestServer()
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/api/v1/taxes/compute", []byte(tt.body))
			require.Equal(t, http.StatusOK, w.Code)

			var res server.TaxComputeResponse
			decode(t, w, &res)
			assert.Equal(t, tt.want, res.Amount.String())
		})
	}

	w := do(t, srv, http.MethodPost, "/api/v1/taxes/compute", []byte(`{"tax":"icms","rate":"18"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBuildNFeEndpoint(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv, http.MethodPost, "/api/v1/build/nfe?validate=true", readTestFile(t, "nfe_input.json"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, body, `<infNFe Id="NFe35240111222333000181550010000001231000001234" versao="4.00">`)
	assert.Contains(t, body, "<xNome>Acme Comércio &amp; Cia Ltda</xNome>")
	assert.Contains(t, body, "<CPF>52998224725</CPF>")
	assert.Contains(t, body, "<vNF>15.00</vNF>")
}

func TestBuildNFeEndpoint_ValidationFailure(t *testing.T) {
	srv := newTestServer()

	var in map[string]interface{}
	require.NoError(t, json.Unmarshal(readTestFile(t, "nfe_input.json"), &in))
	in["emit"].(map[string]interface{})["cnpj"] = "11222333000182"
	body, err := json.Marshal(in)
	require.NoError(t, err)

	w := do(t, srv, http.MethodPost, "/api/v1/build/nfe?validate=true", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var res model.ValidationResult
	decode(t, w, &res)
	assert.False(t, res.IsValid)
	assert.Equal(t, "invalid CNPJ", res.Errors["emit.cnpj"])

	// without ?validate the builder emits whatever it is given
	w = do(t, srv, http.MethodPost, "/api/v1/build/nfe", body)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBuildNFSeEndpoint(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv, http.MethodPost, "/api/v1/build/nfse?validate=true&indent=2", readTestFile(t, "nfse_input.json"))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "<CompNfse>")
	assert.Contains(t, body, "<ValorServicos>1000.00</ValorServicos>")
	assert.Contains(t, body, "<Aliquota>5.0000</Aliquota>")
	assert.Contains(t, body, "\n  <Nfse>")
}

func TestParseEndpoint(t *testing.T) {
	srv := newTestServer()

	built := do(t, srv, http.MethodPost, "/api/v1/build/nfe", readTestFile(t, "nfe_input.json"))
	require.Equal(t, http.StatusOK, built.Code)

	w := do(t, srv, http.MethodPost, "/api/v1/parse", built.Body.Bytes())
	require.Equal(t, http.StatusOK, w.Code)

	var res server.ParseResponse
	decode(t, w, &res)
	assert.Equal(t, model.DocumentNFe, res.Type)
	require.NotNil(t, res.NFe)
	assert.Equal(t, "123", res.NFe.Number)
	assert.Equal(t, "Acme Comércio & Cia Ltda", res.NFe.Emitter.Name)
	assert.Equal(t, "15", res.NFe.Totals.VNF.String())
	assert.Empty(t, res.Warnings)
}

func TestParseEndpoint_Errors(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv, http.MethodPost, "/api/v1/parse", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, "/api/v1/parse", []byte("<Invoice><No>1</No></Invoice>"))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var res server.ErrorResponse
	decode(t, w, &res)
	assert.Contains(t, res.Error, "XML parsing failed")
}

func TestInfoEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		format  string
		docType model.DocumentType
		signed  bool
	}{
		{"nfe", `<nfeProc><NFe><infNFe/></NFe></nfeProc>`, "xml", model.DocumentNFe, false},
		{"signed nfse", `<CompNfse><Nfse><InfNfse/><Signature/></Nfse></CompNfse>`, "xml", model.DocumentNFSe, true},
		{"other xml", `<Invoice/>`, "xml", model.DocumentUnknown, false},
		{"json", `{"header":{}}`, "json", "", false},
	}

	srv := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/api/v1/info", []byte(tt.body))
			require.Equal(t, http.StatusOK, w.Code)

			var res server.InfoResponse
			decode(t, w, &res)
			assert.Equal(t, tt.format, res.Format)
			assert.Equal(t, tt.docType, res.DocumentType)
			assert.Equal(t, tt.signed, res.Signed)
			assert.Equal(t, len(tt.body), res.Size)
		})
	}
}

func TestBodyLimit(t *testing.T) {
	srv := server.NewServer(&server.Config{MaxBodyBytes: 16})

	w := do(t, srv, http.MethodPost, "/api/v1/info", bytes.Repeat([]byte("x"), 64))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestBodyLimit_UnknownLength(t *testing.T) {
	srv := server.NewServer(&server.Config{MaxBodyBytes: 16})

	tests := []struct {
		name string
		path string
		body string
	}{
		{"raw body", "/api/v1/info", strings.Repeat("x", 64)},
		{"json body", "/api/v1/validate/header", `{"number":"` + strings.Repeat("1", 64) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.ContentLength = -1
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, req)

			assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
			assert.Contains(t, w.Body.String(), "exceeds maximum allowed size")
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer()

	do(t, srv, http.MethodPost, "/api/v1/build/nfse", readTestFile(t, "nfse_input.json"))

	w := do(t, srv, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `fiscal_documents_built_total{type="nfse"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	srv := server.NewServer(&server.Config{})

	w := do(t, srv, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func BenchmarkBuildNFeEndpoint(b *testing.B) {
	srv := newTestServer()
	body, err := os.ReadFile(filepath.Join("testdata", "nfe_input.json"))
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/build/nfe", bytes.NewReader(body))
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
	}
}
