package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/fiscal-processor/internal/model"
	"github.com/rezonia/fiscal-processor/internal/processor"
)

var strictValidation bool

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate manual entries and received XML",
	Long: `Validate one or more files.

JSON files are read as manual entries ({"header": ..., "items": ...}) and
checked for:
  - Required header fields for the fiscal kind (produto, servico, avulso)
  - Emitter CNPJ check digits and 44-digit access keys
  - Line items matching the kind's shape
  - Typed total matching the sum of the items

XML files are parsed as NF-e or NFS-e and cross-checked; findings are
warnings unless --strict is set.

Examples:
  fiscal-processor validate entry.json
  fiscal-processor validate *.xml --strict`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&strictValidation, "strict", false, "Treat cross-check warnings as errors")
}

// ValidationResult holds the result of validating a single file
type ValidationResult struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to validate")
	}

	pipeline := processor.NewPipeline(processor.WithLogger(log))
	results := make([]*ValidationResult, 0, len(files))
	allValid := true

	for _, file := range files {
		result := validateFile(pipeline, file)
		results = append(results, result)
		if !result.Valid {
			allValid = false
		}
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		if err := outputJSON(out, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Fprintf(out, "✓ %s: VALID\n", r.File)
			} else {
				fmt.Fprintf(out, "✗ %s: INVALID\n", r.File)
				for _, e := range r.Errors {
					fmt.Fprintf(out, "  - %s\n", e)
				}
			}
			for _, w := range r.Warnings {
				fmt.Fprintf(out, "  ⚠ %s\n", w)
			}
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}
	return nil
}

func validateFile(pipeline *processor.Pipeline, filePath string) *ValidationResult {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result := &ValidationResult{File: filePath, Valid: true}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read file: %v", err))
		return result
	}

	pr := pipeline.Process(ctx, data)
	if pr.Error != nil {
		result.Valid = false
		result.Errors = append(result.Errors, pr.Error.Error())
		return result
	}

	if pr.Manual != nil {
		result.Errors = manualErrors(pr.Manual)
		result.Valid = pr.Manual.IsValid
		return result
	}

	if strictValidation && len(pr.Warnings) > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, pr.Warnings...)
		return result
	}
	result.Warnings = pr.Warnings
	return result
}

// manualErrors flattens a manual entry result into sorted, prefixed lines
func manualErrors(res *model.ManualEntryResult) []string {
	var lines []string

	fields := make([]string, 0, len(res.Header.Errors))
	for field := range res.Header.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		lines = append(lines, fmt.Sprintf("header.%s: %s", field, res.Header.Errors[field]))
	}

	for _, e := range res.Items.Errors {
		if e.Index < 0 {
			lines = append(lines, "items: "+e.Message)
			continue
		}
		lines = append(lines, fmt.Sprintf("items[%d]: %s", e.Index, e.Message))
	}

	if c := res.Consistency; c != nil && !c.IsValid {
		lines = append(lines, fmt.Sprintf("total: items sum to %s but %s was informed",
			c.Expected.StringFixed(2), c.Provided.StringFixed(2)))
	}
	return lines
}
