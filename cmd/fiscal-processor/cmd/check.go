package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/fiscal-processor/internal/model"
	"github.com/rezonia/fiscal-processor/internal/validator"
)

var checkCmd = &cobra.Command{
	Use:   "check <cnpj|cpf|key> <values...>",
	Short: "Check CNPJ, CPF or access key values",
	Long: `Check identifiers the way the validators do.

Punctuation is ignored, so masked values like 11.222.333/0001-81 are
accepted. Access keys are only checked for length (44 digits).

Examples:
  fiscal-processor check cnpj 11.222.333/0001-81
  fiscal-processor check cpf 529.982.247-25 111.444.777-35
  fiscal-processor check key 35240111222333000181550010000001231000001234`,
	Args:      cobra.MinimumNArgs(2),
	ValidArgs: []string{"cnpj", "cpf", "key"},
	RunE:      runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	var (
		check func(string) bool
		rule  string
	)
	switch args[0] {
	case "cnpj":
		check, rule = validator.IsValidCNPJ, "cnpj"
	case "cpf":
		check, rule = validator.IsValidCPF, "cpf"
	case "key":
		check, rule = validator.IsValidAccessKey, "len=44"
	default:
		return fmt.Errorf("unknown identifier type %q: use cnpj, cpf or key", args[0])
	}

	out := cmd.OutOrStdout()
	var errs []error
	for _, value := range args[1:] {
		if check(value) {
			display := value
			if args[0] == "key" {
				display = validator.FormatAccessKey(validator.OnlyDigits(value))
			}
			fmt.Fprintf(out, "✓ %s\n", display)
			continue
		}
		fmt.Fprintf(out, "✗ %s\n", value)
		errs = append(errs, model.NewValidationError(args[0], value, rule, "invalid "+args[0]))
	}
	return errors.Join(errs...)
}
