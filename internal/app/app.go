package app

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"energycli/internal/config"
	"energycli/internal/errors"
	"energycli/internal/infrastructure"
	customMiddleware "energycli/internal/middleware"
	"energycli/internal/services"
	handlers "energycli/internal/transport/http"
	"energycli/pkg/contracts"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"
)

const (
	VERSION    = contracts.Version
	AppName    = config.AppName
	Executable = "energy-web"
)

var (
	// BuildTime is set at compile time via ldflags, falling back to
	// process start for ad-hoc builds
	BuildTime = resolveBuildTime()
	// BuildID is a unique identifier for this build
	BuildID = generateBuildID()
)

func resolveBuildTime() string {
	if contracts.BuildTime != "unknown" {
		return contracts.BuildTime
	}
	return time.Now().Format(time.RFC3339)
}

func generateBuildID() string {
	// Deterministic for a given version and day
	h := sha256.New()
	h.Write([]byte(VERSION))
	h.Write([]byte(time.Now().Format("2006-01-02")))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// Application is the report server container. It owns the configuration,
// the resolved artifact paths, the HTTP router and server, and the
// services behind the report API.
type Application struct {
	Config           *config.Config
	Paths            *config.Paths
	Router           *chi.Mux
	Server           *http.Server
	ReportService    *services.ReportService
	HealthService    *services.HealthService
	Logger           *slog.Logger
	Services         *ServiceContainer
	OTelProviders    *infrastructure.OTelProviders
	MetricsCollector *infrastructure.RuntimeMetricsCollector
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Report *services.ReportService
	Health *services.HealthService
}

// NewApplication creates a new application instance with dependency injection
func NewApplication() (*Application, error) {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize the single infrastructure logger
	if err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger := infrastructure.GetLogger()

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", VERSION),
		slog.String("executable", Executable),
		slog.String("build_id", BuildID))

	// Resolve and create the directory layout up front
	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	logger.Info("Ensuring required directories exist")
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	paths.LogPathResolution()

	// A missing cleaned dataset is not fatal; the report API answers 404
	// until a processor run produces artifacts
	if !config.FileExists(paths.CleanedCSV) {
		logger.Warn("Cleaned dataset not found",
			slog.String("path", paths.CleanedCSV),
			slog.String("action", "Run the processor to generate report artifacts"))
	}

	// Initialize OpenTelemetry
	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Observability), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	// Create application
	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
	}

	// Initialize services in order
	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// Setup router
	app.setupRouter()

	// Create HTTP server
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	// Report service recomputes aggregates from the cleaned dataset on demand
	reportService := services.NewReportServiceWithLogger(a.Paths, a.Logger)
	a.ReportService = reportService

	// Runtime metrics feed the stats endpoint and the Prometheus exporter
	collector, err := infrastructure.NewRuntimeMetricsCollector(a.OTelProviders.Meter, 30*time.Second)
	if err != nil {
		return fmt.Errorf("failed to initialize runtime metrics collector: %w", err)
	}
	a.MetricsCollector = collector

	// Health service with injected logger and build info
	healthService := services.NewHealthServiceWithBuildInfo(
		VERSION,
		BuildTime,
		BuildID,
		a.Paths,
		collector,
		a.Logger,
	)
	a.HealthService = healthService

	// Create service container
	a.Services = &ServiceContainer{
		Report: reportService,
		Health: healthService,
	}

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// These are safe before the group because they don't wrap the ResponseWriter
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	// Route group with the full middleware stack:
	// RequestID → RealIP → OTel → Logger → Recoverer → headers → CORS → rate limit
	r.Group(func(r chi.Router) {
		// OpenTelemetry middleware for tracing and metrics
		otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
		if err != nil {
			a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
		} else {
			r.Use(otelMiddleware.Handler)
		}

		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)

		// CORS middleware
		corsConfig := a.getCORSConfig()
		r.Use(customMiddleware.CORS(corsConfig))

		// Rate limiting
		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
		a.setupOutputRoutes(r)

		// Root points at the campus summary
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/api/summary", http.StatusTemporaryRedirect)
		})
	})

	// Prometheus metrics endpoint outside the middleware group
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		// Shared error handler; stack traces only in development
		errorHandler := errors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

		// Request hygiene: content type and body validation
		validation := customMiddleware.NewValidationMiddleware(a.Logger, errorHandler)
		r.Use(customMiddleware.ContentTypeValidator("application/json"))
		r.Use(validation.ValidateRequest)

		// Standard timeout for all report endpoints
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))

			// Health handler
			healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger, errorHandler)
			r.Get("/healthz", healthHandler.HealthCheck)
			r.Get("/healthz/ready", healthHandler.ReadinessCheck)
			r.Get("/healthz/live", healthHandler.LivenessCheck)
			r.Get("/version", healthHandler.Version)
			r.Get("/stats", healthHandler.SystemStats)

			// Report handler owns the remaining /api surface; the mount
			// must come after the static health routes
			reportHandler := handlers.NewReportHandler(a.ReportService, a.Logger, errorHandler)
			r.Mount("/", reportHandler.Routes())
		})
	})
}

// setupOutputRoutes serves generated artifacts from the output directory
func (a *Application) setupOutputRoutes(r chi.Router) {
	r.Route("/output", func(r chi.Router) {
		r.Use(customMiddleware.Compress(5))
		// Artifacts are rewritten on every processor run
		r.Use(middleware.SetHeader("Cache-Control", "no-cache, must-revalidate"))
		r.Handle("/*", http.StripPrefix("/output", http.FileServer(http.Dir(a.Paths.OutputDir))))
	})
}

// getCORSConfig returns CORS configuration for the report API
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	corsConfig := customMiddleware.CORSConfig{
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
		},
		AllowCredentials: true,
		MaxAge:           300,
		Logger:           a.Logger,
	}

	// Same-origin access always works; extra origins come from config
	corsConfig.AllowedOrigins = []string{
		fmt.Sprintf("http://localhost:%d", a.Config.Server.Port),
		fmt.Sprintf("http://127.0.0.1:%d", a.Config.Server.Port),
	}
	if a.Config.Security.EnableCORS && len(a.Config.Security.AllowedOrigins) > 0 {
		corsConfig.AllowedOrigins = append(corsConfig.AllowedOrigins, a.Config.Security.AllowedOrigins...)
	}

	a.Logger.Info("CORS configured",
		slog.Any("allowed_origins", corsConfig.AllowedOrigins))

	return corsConfig
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start logs startup state and launches background collectors. The HTTP
// listener itself is driven by Run.
func (a *Application) Start(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", VERSION),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	a.Logger.InfoContext(ctx, "Application paths",
		slog.String("base_dir", a.Paths.BaseDir),
		slog.String("data_dir", a.Paths.DataDir),
		slog.String("output_dir", a.Paths.OutputDir),
		slog.String("logs_dir", a.Paths.LogsDir))

	// Periodic runtime metrics for /metrics and /api/stats
	go a.MetricsCollector.Start(ctx)

	// Warn about unwritable directories or missing artifacts, but keep going
	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))

	return nil
}

// Stop gracefully stops the application. Safe to call more than once.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	// Stop server
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	// Stop background collectors
	if a.MetricsCollector != nil {
		a.MetricsCollector.Stop()
	}

	// Shutdown OpenTelemetry providers
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run starts the HTTP server and blocks until an interrupt arrives or the
// server fails, then shuts down gracefully.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	serverDone := make(chan struct{})

	g.Go(func() error {
		defer close(serverDone)
		a.Logger.InfoContext(gctx, "HTTP server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		// Wake on interrupt, server failure, or an external Stop
		select {
		case <-gctx.Done():
		case <-serverDone:
		}
		return a.Stop(context.Background())
	})

	return g.Wait()
}

// performStartupHealthCheck verifies the directory layout is usable and
// reports which artifacts are already present
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	var warnings []string

	// Check critical directories are writable
	directories := map[string]string{
		"Data":   a.Paths.DataDir,
		"Output": a.Paths.OutputDir,
		"Logs":   a.Paths.LogsDir,
	}

	for name, dir := range directories {
		// Try to create a test file to verify write access
		testFile := filepath.Join(dir, ".write_test")
		if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s directory not writable: %s", name, dir))
		} else {
			// Clean up test file
			os.Remove(testFile)
		}
	}

	// Missing artifacts are informational only
	artifacts := map[string]string{
		"Cleaned dataset":   a.Paths.CleanedCSV,
		"Building summary":  a.Paths.SummaryCSV,
		"Dashboard":         a.Paths.DashboardPNG,
		"Executive summary": a.Paths.SummaryTXT,
	}

	for name, file := range artifacts {
		if !config.FileExists(file) {
			a.Logger.InfoContext(ctx, "Artifact not generated yet",
				slog.String("artifact", name),
				slog.String("path", file))
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("startup health check warnings: %s", strings.Join(warnings, "; "))
	}

	a.Logger.InfoContext(ctx, "Startup health check passed")
	return nil
}
