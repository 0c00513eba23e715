package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	xmlparser "github.com/rezonia/fiscal-processor/internal/parser/xml"
	"github.com/rezonia/fiscal-processor/internal/processor"
	"github.com/rezonia/fiscal-processor/internal/signature"
)

var infoCmd = &cobra.Command{
	Use:   "info [files...]",
	Short: "Show information about fiscal files",
	Long: `Display information about files without full processing.

Shows:
  - Detected format (XML, JSON)
  - Detected document family (NF-e, NFS-e)
  - XML signature details and signer certificate, when present
  - File metadata

Examples:
  fiscal-processor info nfe.xml
  fiscal-processor info inbox/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	registry := xmlparser.NewRegistry()
	out := cmd.OutOrStdout()
	for _, file := range files {
		printFileInfo(out, registry, file)
		fmt.Fprintln(out)
	}
	return nil
}

func printFileInfo(w io.Writer, registry *xmlparser.Registry, filePath string) {
	fmt.Fprintf(w, "File: %s\n", filePath)

	info, err := os.Stat(filePath)
	if err != nil {
		fmt.Fprintf(w, "  Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "  Size: %d bytes\n", info.Size())
	fmt.Fprintf(w, "  Modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))

	data, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Fprintf(w, "  Error reading file: %v\n", err)
		return
	}

	format := processor.DetectFormat(data)
	fmt.Fprintf(w, "  Format: %s\n", strings.ToUpper(format.String()))
	if format != processor.FormatXML {
		return
	}

	if adapter, err := registry.Detect(data); err == nil {
		fmt.Fprintf(w, "  Document: %s\n", adapter.DocumentType())
	} else {
		fmt.Fprintf(w, "  Document: Unknown\n")
	}

	if !signature.CanInspect(data) {
		fmt.Fprintf(w, "  Signature: none\n")
		return
	}
	sig, err := signature.Inspect(data)
	if err != nil {
		fmt.Fprintf(w, "  Signature: unreadable (%v)\n", err)
		return
	}
	printSignature(w, sig)
}

func printSignature(w io.Writer, sig *signature.Info) {
	if !sig.Present {
		fmt.Fprintf(w, "  Signature: none\n")
		return
	}
	fmt.Fprintf(w, "  Signature: %s\n", sig.ReferenceURI)
	if sig.SignatureMethod != "" {
		fmt.Fprintf(w, "    Method: %s\n", sig.SignatureMethod)
	}
	if s := sig.Signer; s != nil {
		fmt.Fprintf(w, "    Signer: %s\n", s.Name)
		if s.CNPJ != "" {
			fmt.Fprintf(w, "    Signer CNPJ: %s\n", s.CNPJ)
		}
		fmt.Fprintf(w, "    Issuer: %s\n", s.Issuer)
		fmt.Fprintf(w, "    Valid: %s to %s\n", s.ValidFrom.Format("2006-01-02"), s.ValidTo.Format("2006-01-02"))
	}
}
