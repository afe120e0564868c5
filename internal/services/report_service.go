package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"energycli/internal/config"
	"energycli/internal/dataprocessing"
	"energycli/internal/exporter"
	"energycli/internal/files"
	"energycli/internal/report"
	v1 "energycli/pkg/contracts/api/v1"
	"energycli/pkg/contracts/domain"
)

// ReportService provides read access to the artifacts generated by the
// processor. Every request reloads the cleaned dataset from disk and
// recomputes its aggregates, so the server never serves stale numbers
// after a new pipeline run.
type ReportService struct {
	paths      *config.Paths
	files      *files.Manager
	aggregator *dataprocessing.Aggregator
	logger     *slog.Logger
}

// NewReportService creates a new report service using default logger
func NewReportService(paths *config.Paths) *ReportService {
	return NewReportServiceWithLogger(paths, slog.Default())
}

// NewReportServiceWithLogger creates a new report service with a specific logger
func NewReportServiceWithLogger(paths *config.Paths, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("ReportService initialized with paths",
		slog.String("output_dir", paths.OutputDir),
		slog.String("cleaned_csv", paths.CleanedCSV))

	return &ReportService{
		paths:      paths,
		files:      files.NewManager(paths),
		aggregator: dataprocessing.NewAggregator(logger),
		logger:     logger,
	}
}

// Dataset loads the cleaned dataset artifact from disk. A missing artifact
// means the processor has not produced output yet and maps to
// ErrNoDataAvailable; an empty artifact is a valid empty dataset.
func (rs *ReportService) Dataset(ctx context.Context) (domain.Dataset, error) {
	path := rs.paths.CleanedCSV

	rs.logger.Debug("Dataset: loading cleaned dataset",
		slog.String("path", path))

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", path, ErrNoDataAvailable)
	}

	dataset, err := exporter.LoadCleanedDataset(path)
	if err != nil {
		logReportError(ctx, "load_dataset", "failed to load cleaned dataset",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load cleaned dataset: %w", err)
	}

	return dataset, nil
}

// Summary recomputes the campus-wide executive summary from the cleaned
// dataset. An empty dataset yields a zero-valued summary, not an error.
func (rs *ReportService) Summary(ctx context.Context) (domain.CampusSummary, error) {
	dataset, err := rs.Dataset(ctx)
	if err != nil {
		return domain.CampusSummary{}, err
	}

	summaries := rs.aggregator.BuildingSummaries(ctx, dataset)
	return report.BuildCampusSummary(dataset, summaries), nil
}

// Buildings returns per-building aggregate statistics, sorted
// alphabetically by building name.
func (rs *ReportService) Buildings(ctx context.Context) ([]domain.BuildingSummary, error) {
	dataset, err := rs.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return rs.aggregator.BuildingSummaries(ctx, dataset), nil
}

// BuildingReport is the detail payload for a single building.
type BuildingReport struct {
	Name          string                 `json:"name"`
	Summary       domain.BuildingSummary `json:"summary"`
	ReadingCount  int                    `json:"reading_count"`
	WeeklyAverage float64                `json:"weekly_average"`
	PeakTime      time.Time              `json:"peak_time,omitempty"`
	PeakKWH       float64                `json:"peak_kwh"`
	Daily         []domain.PeriodTotal   `json:"daily"`
	HourlyProfile []float64              `json:"hourly_profile"`
}

// BuildingDetail returns the full report for one building: its summary
// statistics, daily series, weekly average, hourly load profile and peak
// reading. Unknown names map to ErrBuildingNotFound.
func (rs *ReportService) BuildingDetail(ctx context.Context, name string) (*BuildingReport, error) {
	dataset, err := rs.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	registry := dataprocessing.BuildRegistry(dataset)
	building, ok := registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrBuildingNotFound)
	}

	out := &BuildingReport{
		Name:         building.Name,
		ReadingCount: building.Len(),
	}

	for _, s := range rs.aggregator.BuildingSummaries(ctx, dataset) {
		if s.Building == name {
			out.Summary = s
			break
		}
	}
	out.WeeklyAverage = rs.aggregator.AverageWeeklyByBuilding(ctx, dataset)[name]
	out.Daily = rs.aggregator.DailyTotalsByBuilding(ctx, dataset)[name]

	scoped := filterByBuilding(dataset, name)
	out.HourlyProfile = rs.aggregator.HourlyProfile(ctx, scoped)
	if peak, ok := rs.aggregator.PeakReading(scoped); ok {
		out.PeakTime = peak.Timestamp
		out.PeakKWH = peak.KWH
	}

	return out, nil
}

// DailyTotals returns calendar-day consumption bins for the requested
// building and date range. An empty filter covers the whole dataset.
func (rs *ReportService) DailyTotals(ctx context.Context, req v1.AggregatesRequest) ([]domain.PeriodTotal, error) {
	dataset, err := rs.filteredDataset(ctx, req)
	if err != nil {
		return nil, err
	}
	return rs.aggregator.DailyTotals(ctx, dataset), nil
}

// WeeklyTotals returns week-ending-Sunday consumption bins for the
// requested building and date range.
func (rs *ReportService) WeeklyTotals(ctx context.Context, req v1.AggregatesRequest) ([]domain.PeriodTotal, error) {
	dataset, err := rs.filteredDataset(ctx, req)
	if err != nil {
		return nil, err
	}
	return rs.aggregator.WeeklyTotals(ctx, dataset), nil
}

// ReadingsPage is one page of the cleaned dataset.
type ReadingsPage struct {
	Readings []domain.Reading `json:"readings"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Total    int              `json:"total"`
}

// Readings returns one page of cleaned readings, filtered and sorted per
// the request. Pagination past the last page yields an empty page.
func (rs *ReportService) Readings(ctx context.Context, req v1.ReadingsListRequest) (*ReadingsPage, error) {
	dataset, err := rs.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	filtered, err := filterDataset(dataset, req.Building, req.From, req.To)
	if err != nil {
		return nil, err
	}

	if err := sortReadings(filtered, req.SortBy, req.Sort); err != nil {
		return nil, err
	}

	page, pageSize := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 100
	}

	start := (page - 1) * pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	return &ReadingsPage{
		Readings: filtered[start:end],
		Page:     page,
		PageSize: pageSize,
		Total:    len(filtered),
	}, nil
}

// Artifacts reports the on-disk state of every pipeline artifact.
func (rs *ReportService) Artifacts(ctx context.Context) []files.ArtifactInfo {
	return rs.files.ArtifactStatus()
}

// DownloadArtifact serves one artifact from the output directory as an
// attachment. The name is cleaned and resolved before serving so a crafted
// path can never escape the output directory.
func (rs *ReportService) DownloadArtifact(ctx context.Context, w http.ResponseWriter, r *http.Request, name string) error {
	dir := rs.paths.OutputDir

	rs.logger.Debug("DownloadArtifact: serving artifact",
		slog.String("artifact", name),
		slog.String("directory", dir))

	cleaned := filepath.FromSlash(filepath.Clean(name))

	filePath := filepath.Join(dir, cleaned)
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		logReportError(ctx, "download_artifact", "failed to resolve artifact path",
			slog.String("artifact", name),
			slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", name, ErrInvalidArtifact)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		logReportError(ctx, "download_artifact", "failed to resolve output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", name, ErrInvalidArtifact)
	}

	absFilePath = filepath.Clean(absFilePath)
	absDir = filepath.Clean(absDir)

	if !strings.HasPrefix(absFilePath, absDir) {
		rs.logger.Warn("Attempted directory traversal",
			slog.String("requested_path", name),
			slog.String("resolved_path", absFilePath),
			slog.String("base_dir", absDir))
		return fmt.Errorf("%s: %w", name, ErrInvalidArtifact)
	}

	if _, err := os.Stat(absFilePath); os.IsNotExist(err) {
		rs.logger.Warn("Artifact not found",
			slog.String("requested_file", name),
			slog.String("full_path", absFilePath))
		return fmt.Errorf("%s: %w", name, ErrArtifactNotFound)
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filepath.Base(cleaned)))
	w.Header().Set("Content-Type", "application/octet-stream")

	http.ServeFile(w, r, absFilePath)
	return nil
}

// filteredDataset loads the dataset and applies the request filters.
func (rs *ReportService) filteredDataset(ctx context.Context, req v1.AggregatesRequest) (domain.Dataset, error) {
	dataset, err := rs.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return filterDataset(dataset, req.Building, req.From, req.To)
}

// filterDataset narrows a dataset to one building and/or a date range.
// From is inclusive from midnight; To is inclusive through the end of the
// named day. Building matching is exact: identifiers are case sensitive.
func filterDataset(dataset domain.Dataset, building, from, to string) (domain.Dataset, error) {
	var fromTime, toCutoff time.Time

	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, fmt.Errorf("invalid from date %q: %w", from, ErrInvalidInput)
		}
		fromTime = t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, fmt.Errorf("invalid to date %q: %w", to, ErrInvalidInput)
		}
		toCutoff = t.AddDate(0, 0, 1)
	}

	if building == "" && fromTime.IsZero() && toCutoff.IsZero() {
		return dataset, nil
	}

	filtered := make(domain.Dataset, 0, len(dataset))
	for _, r := range dataset {
		if building != "" && r.Building != building {
			continue
		}
		if !fromTime.IsZero() && r.Timestamp.Before(fromTime) {
			continue
		}
		if !toCutoff.IsZero() && !r.Timestamp.Before(toCutoff) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered, nil
}

// filterByBuilding narrows a dataset to a single building.
func filterByBuilding(dataset domain.Dataset, building string) domain.Dataset {
	filtered := make(domain.Dataset, 0, len(dataset))
	for _, r := range dataset {
		if r.Building == building {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// sortReadings orders readings in place by the requested field and
// direction. The cleaned dataset arrives timestamp ascending, so the
// default ordering is a no-op.
func sortReadings(dataset domain.Dataset, sortBy, direction string) error {
	switch sortBy {
	case "", "timestamp":
		sort.SliceStable(dataset, func(i, j int) bool {
			return dataset[i].Timestamp.Before(dataset[j].Timestamp)
		})
	case "kwh":
		sort.SliceStable(dataset, func(i, j int) bool {
			return dataset[i].KWH < dataset[j].KWH
		})
	case "building":
		sort.SliceStable(dataset, func(i, j int) bool {
			return dataset[i].Building < dataset[j].Building
		})
	default:
		return fmt.Errorf("invalid sort_by %q: %w", sortBy, ErrInvalidInput)
	}

	if direction == "desc" {
		for i, j := 0, len(dataset)-1; i < j; i, j = i+1, j-1 {
			dataset[i], dataset[j] = dataset[j], dataset[i]
		}
	}
	return nil
}
