package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rezonia/fiscal-processor/internal/logger"
	"github.com/rezonia/fiscal-processor/internal/metrics"
	"github.com/rezonia/fiscal-processor/internal/processor"
)

// Config holds server configuration
type Config struct {
	Address        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	Debug          bool
	MaxBodyBytes   int64
	MetricsEnabled bool
	MetricsPath    string
	Logger         *zap.Logger
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	pipeline *processor.Pipeline
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewServer creates a new API server
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	setupValidator()

	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var m *metrics.Metrics
	if config.MetricsEnabled {
		m = metrics.New()
	}

	router := gin.New()
	router.Use(requestID())
	router.Use(logger.Recovery(log))
	router.Use(logger.GinMiddleware(log))
	if m != nil {
		router.Use(m.Middleware())
	}
	if config.MaxBodyBytes > 0 {
		router.Use(bodyLimit(config.MaxBodyBytes))
	}

	s := &Server{
		config:   config,
		router:   router,
		pipeline: processor.NewPipeline(processor.WithLogger(log)),
		metrics:  m,
		logger:   log,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	if s.metrics != nil {
		path := s.config.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.router.GET(path, gin.WrapH(s.metrics.Handler()))
	}

	v1 := s.router.Group("/api/v1")
	{
		validate := v1.Group("/validate")
		validate.POST("/header", s.handleValidateHeader)
		validate.POST("/items", s.handleValidateItems)
		validate.POST("/totals", s.handleValidateTotals)
		validate.POST("/manual", s.handleValidateManual)
		validate.POST("/emitter", s.handleValidateEmitter)
		validate.POST("/recipient", s.handleValidateRecipient)
		validate.POST("/transport", s.handleValidateTransport)
		validate.POST("/taxes", s.handleValidateTaxes)
		validate.POST("/service", s.handleValidateService)

		v1.POST("/taxes/compute", s.handleComputeTax)

		v1.POST("/build/nfe", s.handleBuildNFe)
		v1.POST("/build/nfse", s.handleBuildNFSe)

		v1.POST("/parse", s.handleParse)
		v1.POST("/info", s.handleInfo)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.logger.Info("server listening", zap.String("address", s.config.Address))
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
