package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"energycli/internal/config"
	"energycli/internal/dataprocessing"
	"energycli/internal/exporter"
	"energycli/internal/infrastructure"
	"energycli/internal/report"
	"energycli/pkg/contracts/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func main() {
	inDir := flag.String("in", "", "input directory with meter export files (defaults to the configured data directory)")
	outDir := flag.String("out", "", "output directory for generated artifacts (defaults to the configured output directory)")
	configFile := flag.String("config", "", "path to a configuration file (defaults to config.yaml in the working directory)")
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	logger := infrastructure.GetLogger()

	paths, err := cfg.ResolvePaths()
	if err != nil {
		logger.Error("Failed to resolve paths", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Flag overrides replace the configured directories
	in := paths.DataDir
	if *inDir != "" {
		in = *inDir
	}
	out := paths.OutputDir
	if *outDir != "" {
		out = *outDir
	}
	paths = config.NewPaths(paths.BaseDir, in, out, paths.LogsDir)

	// A missing input directory is an operator error, not an empty run
	if info, err := os.Stat(paths.DataDir); err != nil || !info.IsDir() {
		logger.Error("Input directory does not exist", slog.String("directory", paths.DataDir))
		fmt.Fprintf(os.Stderr, "Error: input directory %s does not exist\n", paths.DataDir)
		os.Exit(1)
	}

	if err := os.MkdirAll(paths.OutputDir, 0755); err != nil {
		logger.Error("Failed to create output directory",
			slog.String("directory", paths.OutputDir),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Observability), logger)
	if err != nil {
		logger.Error("Failed to initialize OpenTelemetry", slog.String("error", err.Error()))
		os.Exit(1)
	}

	pipelineMetrics, err := infrastructure.CreatePipelineMetrics(otelProviders.Meter)
	if err != nil {
		logger.Warn("Failed to create pipeline metrics", slog.String("error", err.Error()))
	}

	runID := uuid.New().String()
	runLogger := logger.With(slog.String("run_id", runID))

	runLogger.Info("Starting campus energy processing",
		slog.String("input_dir", paths.DataDir),
		slog.String("output_dir", paths.OutputDir))

	ctx, span := otelProviders.Tracer.Start(context.Background(), "pipeline.run",
		trace.WithAttributes(attribute.String("run.id", runID)))

	result, runErr := runPipeline(ctx, runLogger, paths, otelProviders, pipelineMetrics, runID)

	infrastructure.RecordRunMetrics(ctx, pipelineMetrics, runID, result.Duration, runErr == nil)
	if runErr != nil {
		infrastructure.RecordError(ctx, runErr)
	}
	span.End()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := otelProviders.Shutdown(shutdownCtx); err != nil {
		runLogger.Warn("Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}
	cancel()

	if runErr != nil {
		runLogger.Error("Pipeline run failed",
			slog.Duration("duration", result.Duration),
			slog.String("error", runErr.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}

	runLogger.Info("Pipeline run complete",
		slog.Duration("duration", result.Duration),
		slog.Int("files_discovered", result.FilesDiscovered),
		slog.Int("files_loaded", result.FilesLoaded),
		slog.Int("files_failed", result.FilesFailed),
		slog.Int("reading_count", result.ReadingCount),
		slog.Float64("total_kwh", result.Summary.TotalKWH))
}

// loadConfig loads the configuration from an explicit file when given,
// falling back to the default lookup chain otherwise
func loadConfig(configFile string) (*config.Config, error) {
	if configFile != "" {
		return config.LoadFrom(configFile)
	}
	return config.Load()
}

// runPipeline executes the full batch: ingest, merge, export, aggregate,
// dashboard, executive summary. The returned result carries whatever
// counters were collected before a failure.
func runPipeline(ctx context.Context, logger *slog.Logger, paths *config.Paths, providers *infrastructure.OTelProviders, metrics *infrastructure.PipelineMetrics, runID string) (result domain.RunResult, err error) {
	result = domain.RunResult{
		RunID:     runID,
		StartedAt: time.Now(),
	}
	defer func() {
		result.Duration = time.Since(result.StartedAt)
	}()

	runStage := func(name string, fn func(context.Context) error) error {
		stageCtx, span := providers.Tracer.Start(ctx, "pipeline."+name)
		start := time.Now()
		stageErr := fn(stageCtx)
		infrastructure.RecordStageMetrics(stageCtx, metrics, runID, name, time.Since(start), stageErr)
		if stageErr != nil {
			infrastructure.RecordError(stageCtx, stageErr)
		}
		span.End()
		return stageErr
	}

	// Ingest every meter file, isolating per-file failures
	ingestor := dataprocessing.NewIngestor(logger, paths.BaseDir)
	var meterFiles []domain.MeterFile
	var stats dataprocessing.IngestStats
	if err := runStage("ingest", func(ctx context.Context) error {
		var ingestErr error
		meterFiles, stats, ingestErr = ingestor.IngestDirectory(ctx, paths.DataDir)
		return ingestErr
	}); err != nil {
		return result, err
	}
	result.FilesDiscovered = stats.Discovered
	result.FilesLoaded = stats.Loaded
	result.FilesFailed = stats.Failed
	infrastructure.RecordIngestMetrics(ctx, metrics,
		int64(stats.Discovered), int64(stats.Loaded), int64(stats.Failed), int64(stats.Rows))

	fmt.Printf("Found %d meter files\n", stats.Discovered)
	for i, file := range meterFiles {
		fmt.Printf("Loaded file %d of %d: %s\n", i+1, stats.Loaded, file.SourceName)
	}

	// Merge into a single timestamp-ordered dataset
	merger := dataprocessing.NewMerger(logger)
	var dataset domain.Dataset
	if err := runStage("merge", func(ctx context.Context) error {
		dataset = merger.Merge(ctx, meterFiles)
		return nil
	}); err != nil {
		return result, err
	}
	result.ReadingCount = len(dataset)
	fmt.Printf("Merged %d readings from %d buildings\n", len(dataset), len(dataset.Buildings()))

	artifacts := exporter.NewArtifactExporter(paths)
	if err := runStage("export_dataset", func(ctx context.Context) error {
		path, exportErr := artifacts.WriteCleanedDataset(dataset)
		if exportErr != nil {
			return exportErr
		}
		logger.InfoContext(ctx, "Wrote cleaned dataset",
			slog.String("path", path),
			slog.Int("rows", len(dataset)))
		return nil
	}); err != nil {
		return result, err
	}

	// Aggregates: calendar-day and week-ending totals plus per-building stats
	aggregator := dataprocessing.NewAggregator(logger)
	var summaries []domain.BuildingSummary
	var dailyByBuilding map[string][]domain.PeriodTotal
	if err := runStage("aggregate", func(ctx context.Context) error {
		daily := aggregator.DailyTotals(ctx, dataset)
		weekly := aggregator.WeeklyTotals(ctx, dataset)
		summaries = aggregator.BuildingSummaries(ctx, dataset)
		dailyByBuilding = aggregator.DailyTotalsByBuilding(ctx, dataset)
		logger.InfoContext(ctx, "Aggregation complete",
			slog.Int("daily_bins", len(daily)),
			slog.Int("weekly_bins", len(weekly)),
			slog.Int("buildings", len(summaries)))
		return nil
	}); err != nil {
		return result, err
	}

	if err := runStage("export_summary", func(ctx context.Context) error {
		path, exportErr := artifacts.WriteBuildingSummary(summaries)
		if exportErr != nil {
			return exportErr
		}
		logger.InfoContext(ctx, "Wrote building summary",
			slog.String("path", path),
			slog.Int("buildings", len(summaries)))
		return nil
	}); err != nil {
		return result, err
	}

	// Registry of building entities mirrors the per-building totals
	if err := runStage("registry", func(ctx context.Context) error {
		registry := dataprocessing.BuildRegistry(dataset)
		logger.InfoContext(ctx, "Building registry built", slog.Int("buildings", registry.Len()))
		for _, consumption := range registry.Reports() {
			logger.DebugContext(ctx, "Building consumption",
				slog.String("building", consumption.Building),
				slog.Float64("total_consumption", consumption.TotalConsumption))
		}
		return nil
	}); err != nil {
		return result, err
	}

	dashboard := report.NewDashboard(logger)
	if err := runStage("dashboard", func(ctx context.Context) error {
		return dashboard.Render(ctx, report.DashboardData{
			DailyByBuilding: dailyByBuilding,
			Summaries:       summaries,
			Readings:        dataset,
		}, paths.DashboardPNG)
	}); err != nil {
		return result, err
	}
	fmt.Printf("Dashboard saved to %s\n", paths.DashboardPNG)

	if err := runStage("summary", func(ctx context.Context) error {
		campusSummary := report.BuildCampusSummary(dataset, summaries)
		result.Summary = campusSummary
		return report.WriteExecutiveSummary(paths.SummaryTXT, campusSummary)
	}); err != nil {
		return result, err
	}

	fmt.Println(report.RenderExecutiveSummary(result.Summary))
	fmt.Println("All tasks completed successfully!")

	return result, nil
}
