package http

import (
	"context"
	"net/http"

	"energycli/internal/files"
	"energycli/internal/services"
	v1 "energycli/pkg/contracts/api/v1"
	"energycli/pkg/contracts/domain"
)

// ReportServiceInterface defines the interface for report data operations
type ReportServiceInterface interface {
	Summary(ctx context.Context) (domain.CampusSummary, error)
	Buildings(ctx context.Context) ([]domain.BuildingSummary, error)
	BuildingDetail(ctx context.Context, name string) (*services.BuildingReport, error)
	DailyTotals(ctx context.Context, req v1.AggregatesRequest) ([]domain.PeriodTotal, error)
	WeeklyTotals(ctx context.Context, req v1.AggregatesRequest) ([]domain.PeriodTotal, error)
	Readings(ctx context.Context, req v1.ReadingsListRequest) (*services.ReadingsPage, error)
	Artifacts(ctx context.Context) []files.ArtifactInfo
	DownloadArtifact(ctx context.Context, w http.ResponseWriter, r *http.Request, name string) error
}
