package files

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"energycli/internal/config"
)

// Manager provides access to pipeline files and artifacts on disk
type Manager struct {
	paths *config.Paths
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths) *Manager {
	return &Manager{paths: paths}
}

// ArtifactInfo describes the on-disk state of a single pipeline artifact
type ArtifactInfo struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Exists    bool      `json:"exists"`
	SizeBytes int64     `json:"size_bytes"`
	ModTime   time.Time `json:"mod_time,omitempty"`
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(path string) bool {
	fullPath := m.resolvePath(path)
	_, err := os.Stat(fullPath)
	exists := err == nil

	slog.Debug("FileExists check",
		slog.String("path", path),
		slog.String("full_path", fullPath),
		slog.Bool("exists", exists))

	return exists
}

// GetFileSize returns the size of a file in bytes
func (m *Manager) GetFileSize(path string) (int64, error) {
	fullPath := m.resolvePath(path)
	info, err := os.Stat(fullPath)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// EnsureDirectory creates a directory if it doesn't exist
func (m *Manager) EnsureDirectory(path string) error {
	fullPath := m.resolvePath(path)

	slog.Debug("Ensuring directory exists",
		slog.String("path", path),
		slog.String("full_path", fullPath))

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return os.MkdirAll(fullPath, 0755)
	}
	return nil
}

// ListFiles returns all file names in a directory (non-recursive)
func (m *Manager) ListFiles(dir string) ([]string, error) {
	fullPath := m.resolvePath(dir)

	slog.Debug("Listing files",
		slog.String("dir", dir),
		slog.String("full_path", fullPath))
	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}

	return files, nil
}

// ArtifactStatus reports the on-disk state of every pipeline artifact:
// the cleaned dataset, the building summary, the dashboard image and the
// executive summary. Used by the report server's health endpoint.
func (m *Manager) ArtifactStatus() []ArtifactInfo {
	artifacts := []struct {
		name string
		path string
	}{
		{config.CleanedDataFileName, m.paths.CleanedCSV},
		{config.BuildingSummaryFileName, m.paths.SummaryCSV},
		{config.DashboardFileName, m.paths.DashboardPNG},
		{config.ExecutiveSummaryFileName, m.paths.SummaryTXT},
	}

	out := make([]ArtifactInfo, 0, len(artifacts))
	for _, a := range artifacts {
		entry := ArtifactInfo{Name: a.name, Path: a.path}
		if info, err := os.Stat(a.path); err == nil {
			entry.Exists = true
			entry.SizeBytes = info.Size()
			entry.ModTime = info.ModTime()
		}
		out = append(out, entry)
	}
	return out
}

// resolvePath resolves a path relative to the appropriate base directory
func (m *Manager) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	switch {
	case strings.HasPrefix(path, "data/"):
		return m.paths.GetDataFilePath(strings.TrimPrefix(path, "data/"))
	case strings.HasPrefix(path, "output/"):
		return m.paths.GetOutputFilePath(strings.TrimPrefix(path, "output/"))
	case strings.HasPrefix(path, "logs/"):
		return m.paths.GetLogPath(strings.TrimPrefix(path, "logs/"))
	default:
		return filepath.Join(m.paths.BaseDir, path)
	}
}
