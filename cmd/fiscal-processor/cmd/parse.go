package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	fiscaldecimal "github.com/rezonia/fiscal-processor/internal/decimal"
	"github.com/rezonia/fiscal-processor/internal/model"
	"github.com/rezonia/fiscal-processor/internal/processor"
)

var (
	outputFile string
	timeout    time.Duration
)

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Parse received NF-e and NFS-e XML files",
	Long: `Parse one or more received fiscal XML files into display data.

The document family is detected from the content: nfeProc, NFe and infNFe
roots are read as NF-e, CompNfse, Nfse and InfNfse roots as NFS-e.
After parsing, identifiers and totals are cross-checked and mismatches
are reported as warnings.

Examples:
  fiscal-processor parse nfe.xml
  fiscal-processor parse *.xml -o results.json
  fiscal-processor parse inbox/ -f table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	parseCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Processing timeout per file")
}

// ParseResult holds the result of parsing a single file
type ParseResult struct {
	File     string             `json:"file"`
	Type     model.DocumentType `json:"type,omitempty"`
	NFe      *model.NFEData     `json:"nfe,omitempty"`
	NFSe     *model.NFSEData    `json:"nfse,omitempty"`
	Warnings []string           `json:"warnings,omitempty"`
	Error    string             `json:"error,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to parse")
	}

	log.Debug("files collected", zap.Int("count", len(files)))

	pipeline := processor.NewPipeline(processor.WithLogger(log))
	results := make([]*ParseResult, 0, len(files))
	for _, file := range files {
		result := parseFile(pipeline, file)
		results = append(results, result)

		if result.Error != "" {
			log.Debug("parse failed", zap.String("file", file), zap.String("error", result.Error))
		}
	}

	w := cmd.OutOrStdout()
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return outputResults(w, results)
}

func parseFile(pipeline *processor.Pipeline, filePath string) *ParseResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result := &ParseResult{File: filePath}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read file: %v", err)
		return result
	}

	if format := processor.DetectFormat(data); format != processor.FormatXML {
		result.Error = fmt.Sprintf("unsupported file format: %s", format)
		return result
	}

	pr := pipeline.ProcessXMLBytes(ctx, data)
	if pr.Error != nil {
		result.Error = pr.Error.Error()
		return result
	}

	result.Type = pr.Document.Type
	result.NFe = pr.Document.NFe
	result.NFSe = pr.Document.NFSe
	result.Warnings = pr.Warnings
	return result
}

func outputResults(w io.Writer, results []*ParseResult) error {
	switch outputFormat {
	case "json":
		return outputJSON(w, results)
	case "table":
		return outputTable(w, results)
	case "csv":
		return outputCSV(w, results)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func outputJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// row is the flattened view shared by the table and CSV writers
type row struct {
	number, issuer, issuerID, taker, takerID, date, total string
	taxes, freight, payment                               string
}

func summarize(r *ParseResult) row {
	switch {
	case r.NFe != nil:
		d := r.NFe
		out := row{
			number:   d.Number,
			issuer:   d.Emitter.Name,
			issuerID: d.Emitter.Document,
			total:    fiscaldecimal.FormatBRL(d.Totals.VNF),
			taxes:    fiscaldecimal.FormatCurrency(d.TaxTotal()),
		}
		if d.Transport != nil {
			out.freight = model.FreightModeName(d.Transport.ModFrete)
		}
		names := make([]string, 0, len(d.Payments))
		for _, p := range d.Payments {
			names = append(names, model.PaymentTypeName(p.TPag))
		}
		out.payment = strings.Join(names, ", ")
		if d.IssuedAt != nil {
			out.date = d.IssuedAt.Format("2006-01-02")
		}
		if d.Recipient != nil {
			out.taker, out.takerID = d.Recipient.Name, d.Recipient.Document
		}
		return out
	case r.NFSe != nil:
		d := r.NFSe
		out := row{
			number:   d.Numero,
			issuer:   d.Prestador.RazaoSocial,
			issuerID: d.Prestador.Cnpj,
			total:    fiscaldecimal.FormatBRL(fiscaldecimal.Value(d.Servico.Valores.ValorServicos)),
			taxes:    fiscaldecimal.FormatCurrency(fiscaldecimal.Value(d.Servico.Valores.ValorIss)),
		}
		if d.DataEmissao != nil {
			out.date = d.DataEmissao.Format("2006-01-02")
		}
		if d.Tomador != nil {
			out.taker, out.takerID = d.Tomador.RazaoSocial, d.Tomador.CpfCnpj
		}
		return out
	default:
		return row{}
	}
}

func outputTable(w io.Writer, results []*ParseResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tTYPE\tNUMBER\tDATE\tISSUER\tTOTAL (R$)\tTAXES\tFREIGHT\tPAYMENT\tWARNINGS")
	fmt.Fprintln(tw, "----\t----\t------\t----\t------\t----------\t-----\t-------\t-------\t--------")

	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\tERROR: %s\t\t\t\t\t\t\t\t\n", r.File, r.Error)
			continue
		}
		s := summarize(r)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			r.File, r.Type, s.number, s.date, s.issuer, s.total, s.taxes, s.freight, s.payment, len(r.Warnings))
	}

	return tw.Flush()
}

func outputCSV(w io.Writer, results []*ParseResult) error {
	fmt.Fprintln(w, "file,type,number,date,issuer_name,issuer_id,taker_name,taker_id,total,warnings,error")

	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(w, "%s,,,,,,,,,,%s\n", escapeCSV(r.File), escapeCSV(r.Error))
			continue
		}
		s := summarize(r)
		fmt.Fprintf(w, "%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,\n",
			escapeCSV(r.File),
			r.Type,
			s.number,
			s.date,
			escapeCSV(s.issuer),
			s.issuerID,
			escapeCSV(s.taker),
			s.takerID,
			escapeCSV(s.total),
			escapeCSV(strings.Join(r.Warnings, "; ")),
		)
	}

	return nil
}
