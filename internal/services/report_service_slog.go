package services

import (
	"context"
	"log/slog"

	"energycli/internal/infrastructure"
)

// Helper functions for report service logging using centralized infrastructure logger

// logReportError logs an error in report service operations
func logReportError(ctx context.Context, action, message string, attrs ...slog.Attr) {
	logger := infrastructure.LoggerWithContext(ctx)

	// Add standard attributes
	allAttrs := []slog.Attr{
		slog.String("component", "report_service"),
		slog.String("action", action),
	}

	allAttrs = append(allAttrs, attrs...)

	logger.LogAttrs(ctx, slog.LevelError, message, allAttrs...)
}
