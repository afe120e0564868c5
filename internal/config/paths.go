package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for every file the pipeline reads or
// writes: the meter file input directory, the artifact output directory,
// and the log directory.
type Paths struct {
	BaseDir   string
	DataDir   string
	OutputDir string
	LogsDir   string

	// Well-known artifact files in the output directory
	CleanedCSV   string
	SummaryCSV   string
	DashboardPNG string
	SummaryTXT   string
}

// NewPaths builds a Paths rooted at base. Relative data, output, and logs
// directories are joined onto base; absolute ones are kept as given.
func NewPaths(base, dataDir, outputDir, logsDir string) *Paths {
	resolve := func(dir string) string {
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(base, dir)
	}

	out := resolve(outputDir)
	return &Paths{
		BaseDir:   base,
		DataDir:   resolve(dataDir),
		OutputDir: out,
		LogsDir:   resolve(logsDir),

		CleanedCSV:   filepath.Join(out, CleanedDataFileName),
		SummaryCSV:   filepath.Join(out, BuildingSummaryFileName),
		DashboardPNG: filepath.Join(out, DashboardFileName),
		SummaryTXT:   filepath.Join(out, ExecutiveSummaryFileName),
	}
}

// GetPaths returns the application paths rooted at the working directory
// with the default directory layout:
//
//	<base>/
//	  ├── data/      (meter export files to ingest)
//	  ├── output/    (cleaned_energy_data.csv, building_summary.csv,
//	  │               dashboard.png, summary.txt)
//	  └── logs/      (structured run logs)
func GetPaths() (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %v", err)
	}
	return NewPaths(wd, DefaultDataDir, DefaultOutputDir, DefaultLogsDir), nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.OutputDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// GetDataFilePath returns the path of a meter file inside the data directory
func (p *Paths) GetDataFilePath(filename string) string {
	return filepath.Join(p.DataDir, filename)
}

// GetOutputFilePath returns the path of an artifact inside the output directory
func (p *Paths) GetOutputFilePath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("output", p.OutputDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("artifacts",
			slog.String("cleaned_csv", p.CleanedCSV),
			slog.String("summary_csv", p.SummaryCSV),
			slog.String("dashboard_png", p.DashboardPNG),
			slog.String("summary_txt", p.SummaryTXT),
		))
}
