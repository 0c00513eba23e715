package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rezonia/fiscal-processor/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server exposing validation, building and parsing.

The API provides endpoints for:
  - POST /api/v1/validate/{header,items,totals,manual}  - Manual entry checks
  - POST /api/v1/validate/{emitter,recipient,transport,taxes,service}
  - POST /api/v1/taxes/compute                          - ICMS, IPI and ISS amounts
  - POST /api/v1/build/{nfe,nfse}                       - Build XML (?validate=true, ?indent=N)
  - POST /api/v1/parse                                  - Parse received XML
  - POST /api/v1/info                                   - Detect format and document type
  - GET  /health                                        - Health check
  - GET  /metrics                                       - Prometheus metrics

Flags override values from the config file and FISCAL_* environment.

Examples:
  fiscal-processor serve
  fiscal-processor serve --address :9000 --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", time.Minute, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	sc := cfg.Server
	flags := cmd.Flags()
	if flags.Changed("address") {
		sc.Address = serverAddr
	}
	if flags.Changed("debug") {
		sc.Debug = serverDebug
	}
	if flags.Changed("read-timeout") {
		sc.ReadTimeout = readTimeout
	}
	if flags.Changed("write-timeout") {
		sc.WriteTimeout = writeTimeout
	}

	srv := server.NewServer(&server.Config{
		Address:        sc.Address,
		ReadTimeout:    sc.ReadTimeout,
		WriteTimeout:   sc.WriteTimeout,
		Debug:          sc.Debug,
		MaxBodyBytes:   sc.MaxBodyBytes,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
		Logger:         log,
	})

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down server")
		_ = log.Sync()
		os.Exit(0)
	}()

	log.Info("starting server",
		zap.String("address", sc.Address),
		zap.Bool("metrics", cfg.Metrics.Enabled),
	)
	return srv.Run()
}
