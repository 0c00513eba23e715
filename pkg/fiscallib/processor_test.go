package fiscallib_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fiscal-processor/pkg/fiscallib"
)

func sampleNFe() fiscallib.NFeInput {
	return fiscallib.NFeInput{
		AccessKey: "35240111222333000181550010000001231000001234",
		Ide: fiscallib.Ide{
			Series:   "1",
			Number:   "123",
			IssuedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.FixedZone("BRT", -3*60*60)),
		},
		Emitter: fiscallib.Emitter{CNPJ: "11222333000181", Name: "Acme Ltda"},
		Items: []fiscallib.LineItem{{
			LineNumber:  1,
			Description: "Parafuso",
			Quantity:    decimal.NewFromInt(10),
			UnitPrice:   decimal.RequireFromString("1.5"),
			TotalPrice:  decimal.NewFromInt(15),
		}},
		Totals: fiscallib.Totals{VProd: &vProd, VNF: decimal.NewFromInt(15)},
	}
}

var vProd = decimal.NewFromInt(15)

func TestNewDefaultProcessor(t *testing.T) {
	proc := fiscallib.NewDefaultProcessor()
	require.NotNil(t, proc)
	assert.Equal(t, 4, fiscallib.DefaultOptions().Concurrency)
}

func TestIdentifierHelpers(t *testing.T) {
	assert.True(t, fiscallib.IsValidCNPJ("11.222.333/0001-81"))
	assert.False(t, fiscallib.IsValidCNPJ("11.222.333/0001-82"))
	assert.True(t, fiscallib.IsValidCPF("529.982.247-25"))
	assert.True(t, fiscallib.IsValidAccessKey(strings.Repeat("1", 44)))
	assert.Equal(t, "11222333000181", fiscallib.OnlyDigits("11.222.333/0001-81"))
	assert.Equal(t, "1234.56", fiscallib.ParseMoney("1.234,56").StringFixed(2))
	assert.Equal(t, "1.234,56", fiscallib.FormatBRL(decimal.RequireFromString("1234.56")))
}

func TestManualEntryHelpers(t *testing.T) {
	kind, err := fiscallib.ParseFiscalKind("avulso")
	require.NoError(t, err)
	assert.Equal(t, fiscallib.KindStandalone, kind)

	items := fiscallib.ManualItems{Products: []fiscallib.ManualProductItem{
		{Description: "Caneta", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.RequireFromString("2.5")},
	}}
	assert.Equal(t, "7.50", fiscallib.ComputeItemsTotal(kind, items).StringFixed(2))
	assert.True(t, fiscallib.ValidateManualItems(kind, items).IsValid)
	assert.True(t, fiscallib.ValidateTotalConsistency("7,50", kind, items).IsValid)

	res := fiscallib.ValidateManualEntry(fiscallib.ManualEntry{
		Header: fiscallib.ManualHeader{Number: "1", IssueDate: "2024-01-01", Total: "7,50", Kind: kind},
		Items:  items,
	})
	assert.True(t, res.IsValid)
}

func TestBuildAndParseNFe(t *testing.T) {
	out := fiscallib.BuildNFeXML(sampleNFe(), fiscallib.WithIndent(2))
	data := fiscallib.ParseNFe([]byte(out))
	require.NotNil(t, data)

	assert.Equal(t, "123", data.Number)
	assert.Equal(t, "Acme Ltda", data.Emitter.Name)
	assert.True(t, data.Totals.VNF.Equal(decimal.NewFromInt(15)))
	assert.Nil(t, fiscallib.ParseNFe([]byte("not xml")))
}

func TestProcessorProcessXML(t *testing.T) {
	proc := fiscallib.NewDefaultProcessor()

	result, err := proc.ProcessXML(context.Background(), strings.NewReader(fiscallib.BuildNFeXML(sampleNFe())))
	require.NoError(t, err)
	require.NotNil(t, result.Document)

	assert.Equal(t, fiscallib.DocumentNFe, result.Document.Type)
	assert.Equal(t, "123", result.Document.NFe.Number)
	assert.False(t, result.NeedsReview)
}

func TestProcessorProcess_NeedsReview(t *testing.T) {
	in := sampleNFe()
	in.Emitter.CNPJ = "11222333000182"
	proc := fiscallib.NewDefaultProcessor()

	result, err := proc.Process(context.Background(), strings.NewReader(fiscallib.BuildNFeXML(in)))
	require.NoError(t, err)
	assert.True(t, result.NeedsReview)
	assert.NotEmpty(t, result.Warnings)
}

func TestProcessorProcess_ManualEntry(t *testing.T) {
	proc := fiscallib.NewDefaultProcessor()

	body := `{"header":{"number":"1","issueDate":"2024-01-01","total":"5","kind":"avulso"},"items":{}}`
	result, err := proc.Process(context.Background(), strings.NewReader(body))
	require.NoError(t, err)
	require.NotNil(t, result.Manual)
	assert.False(t, result.Manual.IsValid)
	assert.True(t, result.NeedsReview)
}

func TestProcessorProcess_InvalidFormat(t *testing.T) {
	proc := fiscallib.NewDefaultProcessor()

	_, err := proc.Process(context.Background(), bytes.NewReader([]byte{0x00, 0x01, 0x02}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestProcessorProcessXML_InvalidXML(t *testing.T) {
	proc := fiscallib.NewDefaultProcessor()

	_, err := proc.ProcessXML(context.Background(), strings.NewReader("not xml"))
	require.Error(t, err)

	var perr *fiscallib.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestProcessorProcessBatch(t *testing.T) {
	proc := fiscallib.NewProcessor(fiscallib.Options{Concurrency: 2})

	var inputs []io.Reader
	for _, number := range []string{"1", "2", "3"} {
		in := sampleNFe()
		in.Ide.Number = number
		inputs = append(inputs, strings.NewReader(fiscallib.BuildNFeXML(in)))
	}

	results, err := proc.ProcessBatch(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, []string{"1", "2", "3"}[i], r.Document.NFe.Number)
	}

	inputs = []io.Reader{strings.NewReader(fiscallib.BuildNFeXML(sampleNFe())), strings.NewReader("junk")}
	results, err = proc.ProcessBatch(context.Background(), inputs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input 1")
	assert.NotNil(t, results[0])
}

func TestProcessorProcessBatch_Cancelled(t *testing.T) {
	proc := fiscallib.NewProcessor(fiscallib.Options{Concurrency: 1})

	var inputs []io.Reader
	for i := 0; i < 5; i++ {
		inputs = append(inputs, strings.NewReader(fiscallib.BuildNFeXML(sampleNFe())))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := proc.ProcessBatch(ctx, inputs)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 5)
	for _, r := range results {
		assert.Nil(t, r)
	}
}
