package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "energycli/internal/errors"
	customMiddleware "energycli/internal/middleware"
	"energycli/internal/services"
	v1 "energycli/pkg/contracts/api/v1"
)

// ReportHandler handles report HTTP requests with RFC 7807 compliance
type ReportHandler struct {
	service      ReportServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewReportHandler creates a new report handler with RFC 7807 error handling
func NewReportHandler(service ReportServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the report routes with proper Chi patterns
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	// Use render for consistent JSON responses
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// Resource routes following REST patterns
	r.Get("/summary", h.GetSummary)
	r.Get("/buildings", h.GetBuildings)
	r.Get("/daily", h.GetDailyTotals)
	r.Get("/weekly", h.GetWeeklyTotals)
	r.Get("/readings", h.GetReadings)
	r.Get("/artifacts", h.GetArtifacts)

	// Sub-resource routes
	r.Route("/buildings/{name}", func(r chi.Router) {
		r.Use(h.BuildingCtx) // Validate building name
		r.Get("/", h.GetBuildingDetail)
	})

	// Download routes
	r.Route("/artifacts/{name}", func(r chi.Router) {
		r.Use(customMiddleware.TraceMiddleware("artifact.download"))
		r.Use(h.ArtifactCtx) // Validate artifact name
		r.Get("/", h.DownloadArtifact)
	})

	return r
}

// BuildingCtx middleware validates the building name parameter
func (h *ReportHandler) BuildingCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if name == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("name", "Building name is required"))
			return
		}

		if len(name) > 255 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("name", "Invalid building name"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ArtifactCtx middleware validates the artifact name parameter
func (h *ReportHandler) ArtifactCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if name == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("name", "Artifact name is required"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetSummary handles GET /api/summary with RFC 7807 errors
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "fetching campus summary",
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get campus summary",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)

		h.handleDatasetError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// GetBuildings handles GET /api/buildings with RFC 7807 errors
func (h *ReportHandler) GetBuildings(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "fetching building summaries",
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	summaries, err := h.service.Buildings(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get building summaries",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)

		h.handleDatasetError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summaries,
		"count":  len(summaries),
	})
}

// GetBuildingDetail handles GET /api/buildings/{name} with RFC 7807 errors
func (h *ReportHandler) GetBuildingDetail(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	name := chi.URLParam(r, "name")

	h.logger.InfoContext(r.Context(), "fetching building detail",
		slog.String("request_id", reqID),
		slog.String("building", name),
	)

	detail, err := h.service.BuildingDetail(r.Context(), name)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get building detail",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("building", name),
		)

		if errors.Is(err, services.ErrBuildingNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusNotFound,
				"BUILDING_NOT_FOUND",
				fmt.Sprintf("Building '%s' not found", name),
				map[string]interface{}{
					"building": name,
				},
			))
			return
		}

		h.handleDatasetError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":   "success",
		"data":     detail,
		"building": name,
	})
}

// GetDailyTotals handles GET /api/daily with RFC 7807 errors
func (h *ReportHandler) GetDailyTotals(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	req, ok := h.bindAggregatesRequest(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "fetching daily totals",
		slog.String("request_id", reqID),
		slog.String("building", req.Building),
		slog.String("from", req.From),
		slog.String("to", req.To),
	)

	totals, err := h.service.DailyTotals(r.Context(), req)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get daily totals",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)

		h.handleDatasetError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   totals,
		"count":  len(totals),
	})
}

// GetWeeklyTotals handles GET /api/weekly with RFC 7807 errors
func (h *ReportHandler) GetWeeklyTotals(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	req, ok := h.bindAggregatesRequest(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "fetching weekly totals",
		slog.String("request_id", reqID),
		slog.String("building", req.Building),
		slog.String("from", req.From),
		slog.String("to", req.To),
	)

	totals, err := h.service.WeeklyTotals(r.Context(), req)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get weekly totals",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)

		h.handleDatasetError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   totals,
		"count":  len(totals),
	})
}

// GetReadings handles GET /api/readings with RFC 7807 errors
func (h *ReportHandler) GetReadings(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	req, ok := h.bindReadingsRequest(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "fetching readings",
		slog.String("request_id", reqID),
		slog.Int("page", req.Page),
		slog.Int("page_size", req.PageSize),
		slog.String("building", req.Building),
	)

	page, err := h.service.Readings(r.Context(), req)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to get readings",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)

		h.handleDatasetError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   page,
		"count":  len(page.Readings),
	})
}

// GetArtifacts handles GET /api/artifacts
func (h *ReportHandler) GetArtifacts(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "fetching artifact status",
		slog.String("request_id", reqID),
	)

	artifacts := h.service.Artifacts(r.Context())

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   artifacts,
		"count":  len(artifacts),
	})
}

// DownloadArtifact handles GET /api/artifacts/{name} with RFC 7807 errors
func (h *ReportHandler) DownloadArtifact(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	name := chi.URLParam(r, "name")

	h.logger.InfoContext(r.Context(), "downloading artifact",
		slog.String("request_id", reqID),
		slog.String("artifact", name),
	)

	// Let service handle the download (it writes directly to response)
	if err := h.service.DownloadArtifact(r.Context(), w, r, name); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to download artifact",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("artifact", name),
		)

		// Only handle error if response not yet written
		if !isResponseWritten(w) {
			if errors.Is(err, services.ErrArtifactNotFound) {
				h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
					http.StatusNotFound,
					"ARTIFACT_NOT_FOUND",
					fmt.Sprintf("Artifact '%s' not found", name),
					map[string]interface{}{
						"artifact": name,
					},
				))
				return
			}

			if errors.Is(err, services.ErrInvalidArtifact) {
				h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
					http.StatusBadRequest,
					"INVALID_ARTIFACT",
					fmt.Sprintf("Invalid artifact name: %s", name),
					map[string]interface{}{
						"artifact": name,
					},
				))
				return
			}

			h.errorHandler.HandleError(w, r, err)
		}
	}
}

// isResponseWritten checks if response has already been written
func isResponseWritten(w http.ResponseWriter) bool {
	// Check if writer is a wrapped response writer with status
	if ww, ok := w.(interface{ Status() int }); ok {
		return ww.Status() != 0
	}
	return false
}

// bindAggregatesRequest binds and validates the aggregate query parameters
func (h *ReportHandler) bindAggregatesRequest(w http.ResponseWriter, r *http.Request) (v1.AggregatesRequest, bool) {
	q := r.URL.Query()
	req := v1.AggregatesRequest{
		DateRangeRequest: v1.DateRangeRequest{
			From: q.Get("from"),
			To:   q.Get("to"),
		},
		Building: q.Get("building"),
	}

	if err := h.validate.Struct(req); err != nil {
		h.handleValidationError(w, r, err)
		return v1.AggregatesRequest{}, false
	}

	return req, true
}

// bindReadingsRequest binds and validates the readings query parameters.
// Absent pagination parameters take their defaults before validation.
func (h *ReportHandler) bindReadingsRequest(w http.ResponseWriter, r *http.Request) (v1.ReadingsListRequest, bool) {
	q := r.URL.Query()
	req := v1.ReadingsListRequest{
		PaginationRequest: v1.PaginationRequest{
			Page:     1,
			PageSize: 100,
			Sort:     q.Get("sort"),
			SortBy:   q.Get("sort_by"),
		},
		DateRangeRequest: v1.DateRangeRequest{
			From: q.Get("from"),
			To:   q.Get("to"),
		},
		Building: q.Get("building"),
	}

	if v := q.Get("page"); v != "" {
		page, err := parsePositiveInt(v)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("page", "page must be a positive integer"))
			return v1.ReadingsListRequest{}, false
		}
		req.Page = page
	}
	if v := q.Get("page_size"); v != "" {
		size, err := parsePositiveInt(v)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("page_size", "page_size must be a positive integer"))
			return v1.ReadingsListRequest{}, false
		}
		req.PageSize = size
	}

	if err := h.validate.Struct(req); err != nil {
		h.handleValidationError(w, r, err)
		return v1.ReadingsListRequest{}, false
	}

	return req, true
}

// parsePositiveInt parses a query parameter as a positive integer
func parsePositiveInt(value string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("value must be positive: %d", n)
	}
	return n, nil
}

// handleValidationError maps validator errors to RFC 7807 responses
func (h *ReportHandler) handleValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		details := make([]apierrors.ValidationError, 0, len(fieldErrors))
		for _, fe := range fieldErrors {
			details = append(details, apierrors.ValidationError{
				Field:   fe.Field(),
				Message: fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()),
			})
		}
		h.errorHandler.HandleError(w, r, apierrors.NewValidationErrors(details))
		return
	}

	h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
}

// handleDatasetError maps shared service errors to RFC 7807 responses
func (h *ReportHandler) handleDatasetError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrNoDataAvailable) {
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusNotFound,
			"DATASET_NOT_FOUND",
			"Cleaned dataset not found; run the processor first",
		))
		return
	}

	if errors.Is(err, services.ErrInvalidInput) {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"INVALID_PARAMETER",
			"Invalid query parameter",
			err.Error(),
		))
		return
	}

	h.errorHandler.HandleError(w, r, err)
}
