package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"energycli/internal/config"
	"energycli/internal/files"
	"energycli/internal/infrastructure"
	"energycli/internal/validation"
)

// HealthService provides health check functionality for the report server
type HealthService struct {
	version        string
	buildTime      string
	buildID        string
	paths          *config.Paths
	fileManager    *files.Manager
	fileValidator  *validation.FileValidator
	runtimeMetrics *infrastructure.RuntimeMetricsCollector
	startTime      time.Time
	logger         *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// SystemStats represents system statistics
type SystemStats struct {
	UptimeSeconds  float64 `json:"uptime_seconds"`
	MeterFiles     int     `json:"meter_files"`
	ArtifactFiles  int     `json:"artifact_files"`
	TotalSizeBytes int64   `json:"total_size_bytes"`
	GoVersion      string  `json:"go_version"`
	OS             string  `json:"os"`
	Arch           string  `json:"arch"`
}

// NewHealthService creates a new health service with injected dependencies and default logger
func NewHealthService(version string, paths *config.Paths, runtimeMetrics *infrastructure.RuntimeMetricsCollector, logger *slog.Logger) *HealthService {
	return NewHealthServiceWithBuildInfo(version, "", "", paths, runtimeMetrics, logger)
}

// NewHealthServiceWithBuildInfo creates a new health service with build information
func NewHealthServiceWithBuildInfo(version, buildTime, buildID string, paths *config.Paths, runtimeMetrics *infrastructure.RuntimeMetricsCollector, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized with full dependencies",
		slog.String("version", version),
		slog.String("build_time", buildTime),
		slog.String("build_id", buildID))

	return &HealthService{
		version:        version,
		buildTime:      buildTime,
		buildID:        buildID,
		paths:          paths,
		fileManager:    files.NewManager(paths),
		fileValidator:  validation.NewFileValidator(logger),
		runtimeMetrics: runtimeMetrics,
		startTime:      time.Now(),
		logger:         logger,
	}
}

// NewHealthServiceWithLogger creates a new health service with a specific logger (simplified constructor for test)
func NewHealthServiceWithLogger(version string, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version))

	return &HealthService{
		version:   version,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.Debug("HealthCheck: performing health check",
		slog.String("version", hs.version),
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck returns readiness status. The server is ready when the
// storage directories are usable and the processor has generated a
// cleaned dataset to serve.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	status.Services["storage"] = hs.checkStorageHealth()
	status.Services["data"] = hs.checkDataHealth()
	status.Services["artifacts"] = hs.checkArtifactHealth()

	allReady := true
	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			allReady = false
			break
		}
	}

	if !allReady {
		status.Status = "not_ready"
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	rt := map[string]interface{}{
		"uptime":     time.Since(hs.startTime).Seconds(),
		"go_version": runtime.Version(),
		"goroutines": runtime.NumGoroutine(),
	}

	if hs.runtimeMetrics != nil {
		stats := hs.runtimeMetrics.GetCurrentStats(ctx)
		rt["memory_usage_mb"] = stats.MemoryUsage / 1024 / 1024
		rt["gc_count"] = stats.GCCount
	}

	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime:   rt,
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}

	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	if hs.buildID != "" {
		result["build_id"] = hs.buildID
	}

	return result
}

// SystemStats returns system statistics
func (hs *HealthService) SystemStats(ctx context.Context) (SystemStats, error) {
	stats := SystemStats{
		UptimeSeconds: time.Since(hs.startTime).Seconds(),
		GoVersion:     runtime.Version(),
		OS:            runtime.GOOS,
		Arch:          runtime.GOARCH,
	}

	if hs.paths == nil {
		return stats, nil
	}

	discovery := files.NewDiscovery(hs.paths.BaseDir)
	if meterFiles, err := discovery.FindMeterFiles(hs.paths.DataDir); err == nil {
		stats.MeterFiles = len(meterFiles)
	}

	for _, artifact := range hs.fileManager.ArtifactStatus() {
		if artifact.Exists {
			stats.ArtifactFiles++
		}
	}

	// Size of everything under the output directory, artifacts included
	filepath.Walk(hs.paths.OutputDir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			stats.TotalSizeBytes += info.Size()
		}
		return nil
	})

	return stats, nil
}

// checkStorageHealth checks that the output directory is writable
func (hs *HealthService) checkStorageHealth() ServiceHealth {
	if hs.paths == nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "paths not configured",
		}
	}

	if err := hs.fileValidator.ValidateOutputDirectory(hs.paths.OutputDir); err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("Output directory not writable: %v", err),
		}
	}

	return ServiceHealth{
		Status:  "ready",
		Message: "Output directory is writable",
	}
}

// checkDataHealth checks that the meter data directory exists
func (hs *HealthService) checkDataHealth() ServiceHealth {
	if hs.paths == nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "paths not configured",
		}
	}

	if _, err := os.Stat(hs.paths.DataDir); os.IsNotExist(err) {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("Meter data directory not found: %s", hs.paths.DataDir),
		}
	}

	return ServiceHealth{
		Status:  "ready",
		Message: "Meter data directory is accessible",
		Uptime:  time.Since(hs.startTime).String(),
	}
}

// checkArtifactHealth checks that the processor has generated artifacts
func (hs *HealthService) checkArtifactHealth() ServiceHealth {
	if hs.fileManager == nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "file manager not initialized",
		}
	}

	artifacts := hs.fileManager.ArtifactStatus()
	present := 0
	cleanedExists := false
	for _, a := range artifacts {
		if a.Exists {
			present++
		}
		if a.Name == config.CleanedDataFileName && a.Exists {
			cleanedExists = true
		}
	}

	if !cleanedExists {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "Cleaned dataset not generated yet; run the processor",
		}
	}

	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d of %d artifacts present", present, len(artifacts)),
	}
}

// GetDetailedHealth returns comprehensive health information
func (hs *HealthService) GetDetailedHealth(ctx context.Context) map[string]interface{} {
	stats, _ := hs.SystemStats(ctx)

	result := map[string]interface{}{
		"health":    hs.HealthCheck(ctx),
		"readiness": hs.ReadinessCheck(ctx),
		"liveness":  hs.LivenessCheck(ctx),
		"stats":     stats,
	}

	if hs.fileManager != nil {
		result["artifacts"] = hs.fileManager.ArtifactStatus()
	}

	return result
}
