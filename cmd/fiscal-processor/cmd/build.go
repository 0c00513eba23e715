package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rezonia/fiscal-processor/internal/builder"
	"github.com/rezonia/fiscal-processor/internal/model"
	"github.com/rezonia/fiscal-processor/internal/validator"
)

var (
	buildOutput   string
	buildIndent   int
	buildValidate bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build NF-e or NFS-e XML from a JSON description",
	Long: `Build fiscal XML from a JSON description of the document.

The builder never fails: absent optional groups are omitted and missing
tax codes fall back to their defaults. Use --validate to run the field
validators first and refuse to build when they report errors.

Examples:
  fiscal-processor build nfe nfe.json -o nfe.xml
  fiscal-processor build nfse service.json --indent 2 --validate`,
}

var buildNFeCmd = &cobra.Command{
	Use:   "nfe <input.json>",
	Short: "Build an authorized-NF-e (nfeProc) XML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in model.NFeInput
		if err := readJSON(args[0], &in); err != nil {
			return err
		}
		if buildValidate {
			if err := checkValidation(cmd, validator.ValidateNFeInput(in)); err != nil {
				return err
			}
		}
		return writeXML(cmd, builder.BuildNFeXML(in, indentOptions()...))
	},
}

var buildNFSeCmd = &cobra.Command{
	Use:   "nfse <input.json>",
	Short: "Build an NFS-e (CompNfse) XML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in model.NFSeInput
		if err := readJSON(args[0], &in); err != nil {
			return err
		}
		if buildValidate {
			if err := checkValidation(cmd, validator.ValidateNFSeInput(in)); err != nil {
				return err
			}
		}
		return writeXML(cmd, builder.BuildNFSeXML(in, indentOptions()...))
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.AddCommand(buildNFeCmd, buildNFSeCmd)

	buildCmd.PersistentFlags().StringVarP(&buildOutput, "output", "o", "", "Output file (default: stdout)")
	buildCmd.PersistentFlags().IntVar(&buildIndent, "indent", 0, "Indent nested elements by N spaces")
	buildCmd.PersistentFlags().BoolVar(&buildValidate, "validate", false, "Validate the input before building")
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid input %s: %w", path, err)
	}
	return nil
}

// checkValidation prints every field error and returns the first one, in
// field order, as a *model.ValidationError
func checkValidation(cmd *cobra.Command, res model.ValidationResult) error {
	if res.IsValid {
		return nil
	}

	fields := make([]string, 0, len(res.Errors))
	for field := range res.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	errOut := cmd.ErrOrStderr()
	for _, field := range fields {
		fmt.Fprintf(errOut, "✗ %s: %s\n", field, res.Errors[field])
	}
	first := fields[0]
	return model.NewValidationError(first, nil, "input", res.Errors[first])
}

func indentOptions() []builder.Option {
	if buildIndent > 0 {
		return []builder.Option{builder.WithIndent(buildIndent)}
	}
	return nil
}

func writeXML(cmd *cobra.Command, xml string) error {
	if buildOutput == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), xml)
		return err
	}
	if err := os.WriteFile(buildOutput, []byte(xml), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	log.Debug("document written", zap.String("file", buildOutput), zap.Int("bytes", len(xml)))
	return nil
}
