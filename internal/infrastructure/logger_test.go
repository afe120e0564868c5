package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"energycli/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "test.log")

	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "both",
		FilePath: logFile,
	}

	if err := InitializeLogger(cfg); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	if GetLogger() == nil {
		t.Fatal("Logger is nil")
	}

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}

	GetLogger().Info("test message", "key", "value")

	if err := CloseLogFile(); err != nil {
		t.Fatalf("Failed to close log file: %v", err)
	}

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	if !strings.Contains(string(content), "test message") {
		t.Errorf("Log file does not contain test message: %s", content)
	}
	if !strings.Contains(string(content), `"key":"value"`) {
		t.Errorf("Log file does not contain structured attribute: %s", content)
	}
}

func TestInitializeLogger_InvalidLevel(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	cfg := config.LoggingConfig{
		Level:  "verbose",
		Format: "json",
		Output: "stdout",
	}

	if err := InitializeLogger(cfg); err == nil {
		t.Error("Expected error for invalid log level")
	}
}

func TestTraceIDInjection(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "trace.log")

	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	if err := InitializeLogger(cfg); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx := WithTraceID(context.Background(), "trace-abc-123")
	GetLogger().InfoContext(ctx, "traced message")

	if err := CloseLogFile(); err != nil {
		t.Fatalf("Failed to close log file: %v", err)
	}

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	if !strings.Contains(string(content), `"trace_id":"trace-abc-123"`) {
		t.Errorf("Log entry missing injected trace ID: %s", content)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"warn", false},
		{"warning", false},
		{"error", false},
		{"INFO", false},
		{"trace", true},
		{"", true},
	}

	for _, tt := range tests {
		_, err := parseLogLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLogLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestTraceIDContext(t *testing.T) {
	ctx := context.Background()

	if got := GetTraceID(ctx); got != "" {
		t.Errorf("Expected empty trace ID on fresh context, got %q", got)
	}

	ctx = WithTraceID(ctx, "id-1")
	if got := GetTraceID(ctx); got != "id-1" {
		t.Errorf("Expected trace ID id-1, got %q", got)
	}

	// EnsureTraceID preserves an existing ID
	ensured := EnsureTraceID(ctx)
	if got := GetTraceID(ensured); got != "id-1" {
		t.Errorf("EnsureTraceID replaced existing ID with %q", got)
	}

	// EnsureTraceID generates one when missing
	generated := EnsureTraceID(context.Background())
	if got := GetTraceID(generated); got == "" {
		t.Error("EnsureTraceID did not generate a trace ID")
	}
}

func TestGenerateTraceID(t *testing.T) {
	a := GenerateTraceID()
	b := GenerateTraceID()

	if a == "" || b == "" {
		t.Fatal("GenerateTraceID returned empty string")
	}
	if a == b {
		t.Error("GenerateTraceID returned duplicate IDs")
	}
}

func TestLoggerHelpers(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logger := GetLogger()
	if logger == nil {
		t.Fatal("GetLogger returned nil before initialization")
	}

	if WithComponent(logger, "pipeline") == nil {
		t.Error("WithComponent returned nil")
	}

	if got := WithError(logger, nil); got != logger {
		t.Error("WithError(nil) should return the logger unchanged")
	}

	if WithFields(logger, map[string]interface{}{"a": 1, "b": "two"}) == nil {
		t.Error("WithFields returned nil")
	}

	ctx := WithTraceID(context.Background(), "helper-trace")
	if LoggerWithContext(ctx) == nil {
		t.Error("LoggerWithContext returned nil")
	}
	if LoggerFromContext(ctx) == nil {
		t.Error("LoggerFromContext returned nil")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("Expected default level info, got %s", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("Expected default format json, got %s", cfg.Format)
	}
	if cfg.FilePath != config.DefaultLogFilePath {
		t.Errorf("Expected default file path %s, got %s", config.DefaultLogFilePath, cfg.FilePath)
	}
}
