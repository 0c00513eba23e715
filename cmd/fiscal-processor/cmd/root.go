package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rezonia/fiscal-processor/internal/config"
	"github.com/rezonia/fiscal-processor/internal/logger"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	configFile   string
	logLevel     string

	cfg *config.Config
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "fiscal-processor",
	Short: "Validate, build and parse Brazilian NF-e and NFS-e documents",
	Long: `Fiscal Processor validates manually typed fiscal documents, builds NF-e
and NFS-e XML from structured input, and reads received XML back into
display data.

Examples:
  # Validate manual entries and received XML
  fiscal-processor validate entry.json nfe.xml

  # Build an NF-e from a JSON description
  fiscal-processor build nfe nfe.json -o nfe.xml

  # Summarise received documents as a table
  fiscal-processor parse inbox/ -f table

  # Check identifiers
  fiscal-processor check cnpj 11.222.333/0001-81`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, csv, table)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./fiscal-processor.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (env: FISCAL_LOG_LEVEL)")
}

// setup loads configuration and builds the logger shared by all commands
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}
	cfg = loaded

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	log = l
	return nil
}
