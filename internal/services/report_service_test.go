package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energycli/internal/config"
	"energycli/internal/shared/testutil"
	v1 "energycli/pkg/contracts/api/v1"
)

func newTestReportService(t *testing.T) (*ReportService, *config.Paths) {
	t.Helper()

	paths := config.NewPaths(t.TempDir(), "data", "output", "logs")
	require.NoError(t, paths.EnsureDirectories())

	logger, _ := testutil.NewTestLogger(t)
	return NewReportServiceWithLogger(paths, logger), paths
}

// writeCleanedFixture seeds the output directory with a cleaned dataset:
// two buildings, readings spanning two calendar weeks of January 2024.
func writeCleanedFixture(t *testing.T, paths *config.Paths) {
	t.Helper()

	content := "timestamp,kwh,building\n" +
		"2024-01-01 08:00:00,10,Library\n" +
		"2024-01-01 09:00:00,20,Gym\n" +
		"2024-01-02 10:00:00,5,Library\n" +
		"2024-01-08 12:00:00,7,Gym\n"
	require.NoError(t, os.WriteFile(paths.CleanedCSV, []byte(content), 0644))
}

func TestDataset(t *testing.T) {
	svc, paths := newTestReportService(t)
	writeCleanedFixture(t, paths)

	dataset, err := svc.Dataset(context.Background())
	require.NoError(t, err)
	require.Len(t, dataset, 4)

	// LoadCleanedDataset returns readings timestamp ascending
	assert.Equal(t, "Library", dataset[0].Building)
	assert.InDelta(t, 10.0, dataset[0].KWH, 1e-9)
	assert.Equal(t, "Gym", dataset[3].Building)
}

func TestDataset_Missing(t *testing.T) {
	svc, _ := newTestReportService(t)

	_, err := svc.Dataset(context.Background())
	require.ErrorIs(t, err, ErrNoDataAvailable)
}

func TestSummary(t *testing.T) {
	svc, paths := newTestReportService(t)
	writeCleanedFixture(t, paths)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 42.0, summary.TotalKWH, 1e-9)
	assert.Equal(t, "Gym", summary.TopBuilding)
	assert.InDelta(t, 27.0, summary.TopBuildingKWH, 1e-9)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), summary.PeakTime)
	assert.InDelta(t, 20.0, summary.PeakKWH, 1e-9)
	assert.Equal(t, 4, summary.ReadingCount)
	assert.Equal(t, 2, summary.BuildingCount)
}

func TestSummary_EmptyArtifact(t *testing.T) {
	svc, paths := newTestReportService(t)
	require.NoError(t, os.WriteFile(paths.CleanedCSV, []byte("timestamp,kwh,building\n"), 0644))

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.TotalKWH)
	assert.Empty(t, summary.TopBuilding)
	assert.True(t, summary.PeakTime.IsZero())
	assert.Zero(t, summary.ReadingCount)
}

func TestBuildings(t *testing.T) {
	svc, paths := newTestReportService(t)
	writeCleanedFixture(t, paths)

	summaries, err := svc.Buildings(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "Gym", summaries[0].Building)
	assert.InDelta(t, 27.0, summaries[0].Sum, 1e-9)
	assert.InDelta(t, 13.5, summaries[0].Mean, 1e-9)
	assert.InDelta(t, 7.0, summaries[0].Min, 1e-9)
	assert.InDelta(t, 20.0, summaries[0].Max, 1e-9)

	assert.Equal(t, "Library", summaries[1].Building)
	assert.InDelta(t, 15.0, summaries[1].Sum, 1e-9)
}

func TestBuildingDetail(t *testing.T) {
	svc, paths := newTestReportService(t)
	writeCleanedFixture(t, paths)

	detail, err := svc.BuildingDetail(context.Background(), "Library")
	require.NoError(t, err)

	assert.Equal(t, "Library", detail.Name)
	assert.Equal(t, 2, detail.ReadingCount)
	assert.InDelta(t, 15.0, detail.Summary.Sum, 1e-9)
	// Both Library readings fall in the week ending Sunday Jan 7
	assert.InDelta(t, 15.0, detail.WeeklyAverage, 1e-9)

	require.Len(t, detail.Daily, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), detail.Daily[0].Start)
	assert.InDelta(t, 10.0, detail.Daily[0].TotalKWH, 1e-9)
	assert.InDelta(t, 5.0, detail.Daily[1].TotalKWH, 1e-9)

	require.Len(t, detail.HourlyProfile, 24)
	assert.InDelta(t, 10.0, detail.HourlyProfile[8], 1e-9)
	assert.InDelta(t, 5.0, detail.HourlyProfile[10], 1e-9)

	assert.Equal(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), detail.PeakTime)
	assert.InDelta(t, 10.0, detail.PeakKWH, 1e-9)
}

func TestBuildingDetail_NotFound(t *testing.T) {
	svc, paths := newTestReportService(t)
	writeCleanedFixture(t, paths)

	_, err := svc.BuildingDetail(context.Background(), "Pool")
	require.ErrorIs(t, err, ErrBuildingNotFound)
}

func TestDailyTotals(t *testing.T) {
	svc, paths := newTestReportService(t)
	writeCleanedFixture(t, paths)
	ctx := context.Background()

	totals, err := svc.DailyTotals(ctx, v1.AggregatesRequest{})
	require.NoError(t, err)
	require.Len(t, totals, 8)
	assert.InDelta(t, 30.0, totals[0].TotalKWH, 1e-9)
	assert.InDelta(t, 5.0, totals[1].TotalKWH, 1e-9)
	assert.Zero(t, totals[2].TotalKWH)
	assert.InDelta(t, 7.0, totals[7].TotalKWH, 1e-9)
}

func TestDailyTotals_BuildingFilter(t *testing.T) {
	svc, paths := newTestReportService(t)
	writeCleanedFixture(t, paths)

	totals, err := svc.DailyTotals(context.Background(), v1.AggregatesRequest{Building: "Library"})
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.InDelta(t, 10.0, totals[0].TotalKWH, 1e-9)
	assert.InDelta(t, 5.0, totals[1].TotalKWH, 1e-9)
}

func TestDailyTotals_DateFilter(t *testing.T) {
	svc, paths := newTestReportService(t)
	writeCleanedFixture(t, paths)

	req := v1.AggregatesRequest{
		DateRangeRequest: v1.DateRangeRequest{To: "2024-01-01"},
	}
	totals, err := svc.DailyTotals(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.InDelta(t, 30.0, totals[0].TotalKWH, 1e-9)
}

func TestDailyTotals_InvalidDate(t *testing.T) {
	svc, paths := newTestReportService(t)
	writeCleanedFixture(t, paths)

	req := v1.AggregatesRequest{
		DateRangeRequest: v1.DateRangeRequest{From: "not-a-date"},
	}
	_, err := svc.DailyTotals(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestWeeklyTotals(t *testing.T) {
	svc, paths := newTestReportService(t)
	writeCleanedFixture(t, paths)

	totals, err := svc.WeeklyTotals(context.Background(), v1.AggregatesRequest{})
	require.NoError(t, err)
	require.Len(t, totals, 2)

	assert.Equal(t, time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), totals[0].Start)
	assert.InDelta(t, 35.0, totals[0].TotalKWH, 1e-9)
	assert.Equal(t, time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC), totals[1].Start)
	assert.InDelta(t, 7.0, totals[1].TotalKWH, 1e-9)
}

func TestReadings(t *testing.T) {
	svc, paths := newTestReportService(t)
	writeCleanedFixture(t, paths)

	page, err := svc.Readings(context.Background(), v1.ReadingsListRequest{})
	require.NoError(t, err)

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 100, page.PageSize)
	assert.Equal(t, 4, page.Total)
	require.Len(t, page.Readings, 4)
	assert.True(t, page.Readings[0].Timestamp.Before(page.Readings[3].Timestamp))
}

func TestReadings_Pagination(t *testing.T) {
	svc, paths := newTestReportService(t)
	writeCleanedFixture(t, paths)
	ctx := context.Background()

	page, err := svc.Readings(ctx, v1.ReadingsListRequest{
		PaginationRequest: v1.PaginationRequest{Page: 1, PageSize: 2},
	})
	require.NoError(t, err)
	require.Len(t, page.Readings, 2)
	assert.Equal(t, 4, page.Total)
	assert.InDelta(t, 10.0, page.Readings[0].KWH, 1e-9)

	// Past the last page: empty, not an error
	page, err = svc.Readings(ctx, v1.ReadingsListRequest{
		PaginationRequest: v1.PaginationRequest{Page: 3, PageSize: 2},
	})
	require.NoError(t, err)
	assert.Empty(t, page.Readings)
	assert.Equal(t, 4, page.Total)
}

func TestReadings_Sorting(t *testing.T) {
	svc, paths := newTestReportService(t)
	writeCleanedFixture(t, paths)
	ctx := context.Background()

	page, err := svc.Readings(ctx, v1.ReadingsListRequest{
		PaginationRequest: v1.PaginationRequest{Sort: "desc"},
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC), page.Readings[0].Timestamp)

	page, err = svc.Readings(ctx, v1.ReadingsListRequest{
		PaginationRequest: v1.PaginationRequest{SortBy: "kwh"},
	})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, page.Readings[0].KWH, 1e-9)

	_, err = svc.Readings(ctx, v1.ReadingsListRequest{
		PaginationRequest: v1.PaginationRequest{SortBy: "voltage"},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestReadings_BuildingFilter(t *testing.T) {
	svc, paths := newTestReportService(t)
	writeCleanedFixture(t, paths)

	page, err := svc.Readings(context.Background(), v1.ReadingsListRequest{Building: "Gym"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	for _, r := range page.Readings {
		assert.Equal(t, "Gym", r.Building)
	}
}

func TestReadings_DateFilter(t *testing.T) {
	svc, paths := newTestReportService(t)
	writeCleanedFixture(t, paths)

	page, err := svc.Readings(context.Background(), v1.ReadingsListRequest{
		DateRangeRequest: v1.DateRangeRequest{From: "2024-01-02"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), page.Readings[0].Timestamp)
}

func TestArtifacts(t *testing.T) {
	svc, paths := newTestReportService(t)
	writeCleanedFixture(t, paths)

	artifacts := svc.Artifacts(context.Background())
	require.Len(t, artifacts, 4)

	byName := make(map[string]bool)
	for _, a := range artifacts {
		byName[a.Name] = a.Exists
	}
	assert.True(t, byName[config.CleanedDataFileName])
	assert.False(t, byName[config.DashboardFileName])
}

func TestDownloadArtifact(t *testing.T) {
	svc, paths := newTestReportService(t)
	writeCleanedFixture(t, paths)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/artifacts/"+config.CleanedDataFileName, nil)

	err := svc.DownloadArtifact(context.Background(), rec, req, config.CleanedDataFileName)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), config.CleanedDataFileName)
	assert.Contains(t, rec.Body.String(), "timestamp,kwh,building")
}

func TestDownloadArtifact_Traversal(t *testing.T) {
	svc, _ := newTestReportService(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/artifacts/x", nil)

	err := svc.DownloadArtifact(context.Background(), rec, req, "../secret.txt")
	require.ErrorIs(t, err, ErrInvalidArtifact)
}

func TestDownloadArtifact_NotFound(t *testing.T) {
	svc, _ := newTestReportService(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/artifacts/x", nil)

	err := svc.DownloadArtifact(context.Background(), rec, req, "missing.csv")
	require.ErrorIs(t, err, ErrArtifactNotFound)
}
