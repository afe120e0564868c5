package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"energycli/internal/config"
)

var (
	globalLogger     *slog.Logger
	globalLoggerOnce sync.Once
	globalLogFile    *os.File
)

type contextKey string

const (
	// TraceIDContextKey is the context key for trace IDs
	TraceIDContextKey contextKey = "trace_id"
)

// InitializeLogger sets up the global structured logger based on configuration
func InitializeLogger(cfg config.LoggingConfig) error {
	var err error
	globalLoggerOnce.Do(func() {
		globalLogger, err = createLogger(cfg)
		if err == nil && globalLogger != nil {
			slog.SetDefault(globalLogger)
		}
	})
	return err
}

// createLogger creates a new slog.Logger based on the configuration
func createLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	level, err := parseLogLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.Development,
	}

	var writer io.Writer
	switch cfg.Output {
	case "file":
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		globalLogFile = file
		writer = file
	case "both":
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		globalLogFile = file
		writer = io.MultiWriter(os.Stdout, file)
	default:
		writer = os.Stdout
	}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(writer, opts)
	} else {
		handler = slog.NewJSONHandler(writer, opts)
	}

	// Wrap handler to inject trace IDs from context
	handler = &traceHandler{Handler: handler}

	return slog.New(handler), nil
}

// traceHandler wraps a slog.Handler to automatically inject trace IDs
type traceHandler struct {
	slog.Handler
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if traceID := GetTraceID(ctx); traceID != "" {
		r.AddAttrs(slog.String("trace_id", traceID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name)}
}

// parseLogLevel converts string log level to slog.Level
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
}

// WithTraceID returns a new context with the given trace ID
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDContextKey, traceID)
}

// GetTraceID extracts the trace ID from the context
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDContextKey).(string); ok {
		return traceID
	}
	return ""
}

// GetLogger returns the global logger, or slog.Default if never initialized
func GetLogger() *slog.Logger {
	if globalLogger != nil {
		return globalLogger
	}
	return slog.Default()
}

// LoggerFromContext returns the global logger enriched with the context's
// trace ID, falling back to slog.Default when the logger was never initialized.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := globalLogger
	if logger == nil {
		logger = slog.Default()
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		logger = logger.With(slog.String("trace_id", traceID))
	}
	return logger
}

// MustInitializeLogger initializes the logger and panics on failure
func MustInitializeLogger(cfg config.LoggingConfig) {
	if err := InitializeLogger(cfg); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

// DefaultConfig returns a sensible default logging configuration
func DefaultConfig() config.LoggingConfig {
	return config.LoggingConfig{
		Level:       "info",
		Format:      "json",
		Output:      "both",
		FilePath:    config.DefaultLogFilePath,
		Development: false,
	}
}

// CloseLogFile closes the global log file if open. Call during shutdown.
func CloseLogFile() error {
	if globalLogFile != nil {
		err := globalLogFile.Close()
		globalLogFile = nil
		return err
	}
	return nil
}

// ResetLoggerForTesting resets the global logger state. Test use only.
func ResetLoggerForTesting() {
	globalLogger = nil
	globalLoggerOnce = sync.Once{}
	if globalLogFile != nil {
		globalLogFile.Close()
		globalLogFile = nil
	}
}

func openLogFile(path string) (*os.File, error) {
	if path == "" {
		path = config.DefaultLogFilePath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
