package dataprocessing

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"energycli/internal/errors"
	"energycli/internal/files"
	"energycli/internal/validation"
	"energycli/pkg/contracts/domain"
)

// maxConcurrentFiles bounds how many meter files are parsed in parallel
const maxConcurrentFiles = 4

// IngestStats summarises one ingestion pass over the input directory
type IngestStats struct {
	Discovered int `json:"discovered"`
	Loaded     int `json:"loaded"`
	Failed     int `json:"failed"`
	Rows       int `json:"rows"`
}

// Ingestor loads meter export files with per-file failure isolation:
// a corrupt or unreadable file is logged and skipped, never aborting
// the rest of the batch.
type Ingestor struct {
	logger    *slog.Logger
	validator *validation.FileValidator
	discovery *files.Discovery
}

// NewIngestor creates an ingestor rooted at the given base path
func NewIngestor(logger *slog.Logger, basePath string) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		logger:    logger,
		validator: validation.NewFileValidator(logger),
		discovery: files.NewDiscovery(basePath),
	}
}

// IngestFile validates and parses a single meter file
func (in *Ingestor) IngestFile(ctx context.Context, path string) (*domain.MeterFile, error) {
	if err := in.validator.ValidateMeterFile(path); err != nil {
		return nil, errors.NewFileAccessError("meter file validation failed", err)
	}
	return ParseMeterFile(path)
}

// IngestDirectory discovers every meter file in dir and parses them,
// isolating failures per file. Files are parsed concurrently but the
// returned slice preserves the discovery (name) order so downstream
// merging stays deterministic. The error return covers only directory
// level failures and context cancellation.
func (in *Ingestor) IngestDirectory(ctx context.Context, dir string) ([]domain.MeterFile, IngestStats, error) {
	var stats IngestStats

	discovered, err := in.discovery.FindMeterFiles(dir)
	if err != nil {
		return nil, stats, errors.NewFileAccessError("failed to scan input directory", err)
	}
	stats.Discovered = len(discovered)

	in.logger.InfoContext(ctx, "Starting meter file ingestion",
		slog.String("directory", dir),
		slog.Int("files_discovered", stats.Discovered))

	if len(discovered) == 0 {
		in.logger.WarnContext(ctx, "No meter files to ingest",
			slog.String("directory", dir))
		return nil, stats, nil
	}

	type outcome struct {
		file *domain.MeterFile
		err  error
	}
	outcomes := make([]outcome, len(discovered))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFiles)

	for i, candidate := range discovered {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			file, err := in.IngestFile(gctx, candidate.Path)
			outcomes[i] = outcome{file: file, err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	loaded := make([]domain.MeterFile, 0, len(discovered))
	for i, candidate := range discovered {
		if outcomes[i].err != nil {
			stats.Failed++
			in.logger.ErrorContext(ctx, "Failed to ingest meter file",
				slog.String("file", candidate.Name),
				slog.String("error", outcomes[i].err.Error()))
			continue
		}

		file := outcomes[i].file
		stats.Loaded++
		stats.Rows += len(file.Readings)
		loaded = append(loaded, *file)

		in.logger.InfoContext(ctx, "Ingested meter file",
			slog.String("file", candidate.Name),
			slog.String("building", file.Building),
			slog.Int("rows", len(file.Readings)))
	}

	in.logger.InfoContext(ctx, "Meter file ingestion complete",
		slog.Int("files_discovered", stats.Discovered),
		slog.Int("files_loaded", stats.Loaded),
		slog.Int("files_failed", stats.Failed),
		slog.Int("rows", stats.Rows))

	return loaded, stats, nil
}
