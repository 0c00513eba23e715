package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fiscal-processor/internal/model"
)

// execute runs the root command with fresh flag values
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	verbose, outputFormat, outputFile = false, "json", ""
	buildOutput, buildIndent, buildValidate = "", 0, false
	strictValidation = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func testdata(name string) string {
	return filepath.Join("testdata", name)
}

func TestCheckCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr bool
	}{
		{
			name: "valid masked cnpj",
			args: []string{"check", "cnpj", "11.222.333/0001-81"},
			want: []string{"✓ 11.222.333/0001-81"},
		},
		{
			name:    "mixed cpfs",
			args:    []string{"check", "cpf", "529.982.247-25", "111.111.111-11"},
			want:    []string{"✓ 529.982.247-25", "✗ 111.111.111-11"},
			wantErr: true,
		},
		{
			name: "access key is grouped",
			args: []string{"check", "key", "35240111222333000181550010000001231000001234"},
			want: []string{"✓ 3524 0111 2223 3300 0181 5500 1000 0001 2310 0000 1234"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				var verr *model.ValidationError
				assert.True(t, errors.As(err, &verr))
			} else {
				require.NoError(t, err)
			}
			for _, line := range tt.want {
				assert.Contains(t, out, line)
			}
		})
	}
}

func TestCheckCommand_UnknownType(t *testing.T) {
	_, err := execute(t, "check", "cep", "01001000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown identifier type")
}

func TestBuildCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nfe.xml")

	_, err := execute(t, "build", "nfe", testdata("nfe_input.json"), "-o", out, "--validate")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<nfeProc xmlns="http://www.portalfiscal.inf.br/nfe" versao="4.00">`)
	assert.Contains(t, string(data), "<vProd>15.00</vProd>")
}

func TestBuildCommand_Stdout(t *testing.T) {
	out, err := execute(t, "build", "nfse", testdata("nfse_input.json"), "--indent", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "<CompNfse>")
	assert.Contains(t, out, "\n  <Nfse>")
}

func TestBuildCommand_ValidationFailure(t *testing.T) {
	input := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"prestador":{"cnpj":"123"},"servico":{}}`), 0o644))

	out, err := execute(t, "build", "nfse", input, "--validate")
	require.Error(t, err)

	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "prestador.cnpj", verr.Field)
	assert.Contains(t, out, "✗ servico.valorServicos: service value must be greater than zero")
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", testdata("entry_valid.json"), "-f", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ testdata/entry_valid.json: VALID")

	out, err = execute(t, "validate", testdata("entry_invalid.json"), "-f", "table")
	require.Error(t, err)
	assert.Contains(t, out, "✗ testdata/entry_invalid.json: INVALID")
	assert.Contains(t, out, "  - header.number: number is required")
	assert.Contains(t, out, "  - items[0]: quantity must be greater than zero")
}

func TestValidateCommand_XML(t *testing.T) {
	dir := t.TempDir()
	xmlPath := filepath.Join(dir, "nfe.xml")
	_, err := execute(t, "build", "nfe", testdata("nfe_input.json"), "-o", xmlPath)
	require.NoError(t, err)

	out, err := execute(t, "validate", xmlPath, "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, `"valid": true`)
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "build", "nfe", testdata("nfe_input.json"), "-o", filepath.Join(dir, "nfe.xml"))
	require.NoError(t, err)
	_, err = execute(t, "build", "nfse", testdata("nfse_input.json"), "-o", filepath.Join(dir, "nfse.xml"))
	require.NoError(t, err)

	out, err := execute(t, "parse", dir, "-f", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "NFe")
	assert.Contains(t, out, "Acme Comércio & Cia Ltda")
	assert.Contains(t, out, "15,00")
	assert.Contains(t, out, "R$ 2,70")
	assert.Contains(t, out, "Sem ocorrência de transporte")
	assert.Contains(t, out, "PIX")
	assert.Contains(t, out, "NFSe")
	assert.Contains(t, out, "1.000,00")
	assert.Contains(t, out, "R$ 50,00")

	out, err = execute(t, "parse", filepath.Join(dir, "nfe.xml"), "-f", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], ",NFe,123,2024-01-15,Acme Comércio & Cia Ltda,11222333000181,")
	assert.Contains(t, lines[1], `"15,00"`)
}

func TestParseCommand_UnsupportedFormat(t *testing.T) {
	_, err := execute(t, "parse", testdata("entry_valid.json"), "-f", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestInfoCommand(t *testing.T) {
	dir := t.TempDir()
	xmlPath := filepath.Join(dir, "nfse.xml")
	_, err := execute(t, "build", "nfse", testdata("nfse_input.json"), "-o", xmlPath)
	require.NoError(t, err)

	out, err := execute(t, "info", xmlPath, testdata("entry_valid.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "Format: XML")
	assert.Contains(t, out, "Document: NFSe")
	assert.Contains(t, out, "Signature: none")
	assert.Contains(t, out, "Format: JSON")
}

func TestCollectFiles(t *testing.T) {
	files, err := collectFiles([]string{"testdata"})
	require.NoError(t, err)
	assert.Contains(t, files, testdata("entry_valid.json"))

	_, err = collectFiles([]string{filepath.Join("testdata", "missing.xml")})
	require.Error(t, err)
}

func TestEscapeCSV(t *testing.T) {
	assert.Equal(t, "plain", escapeCSV("plain"))
	assert.Equal(t, `"1.000,00"`, escapeCSV("1.000,00"))
	assert.Equal(t, `"say ""hi"""`, escapeCSV(`say "hi"`))
}
