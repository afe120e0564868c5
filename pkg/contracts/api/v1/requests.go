// Package api contains API contract definitions for the Campus Energy Reports service.
// Version v1 represents the current stable API version.
package api

// Common request parameters

// PaginationRequest represents common pagination parameters
type PaginationRequest struct {
	Page     int    `json:"page" query:"page" validate:"min=1"`
	PageSize int    `json:"page_size" query:"page_size" validate:"min=1,max=1000"`
	Sort     string `json:"sort" query:"sort" validate:"omitempty,oneof=asc desc"`
	SortBy   string `json:"sort_by" query:"sort_by"`
}

// DateRangeRequest represents a date range in requests
type DateRangeRequest struct {
	From string `json:"from" query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `json:"to" query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// Aggregate API Requests

// AggregatesRequest represents a request for consumption aggregates
type AggregatesRequest struct {
	DateRangeRequest
	Building string `json:"building" query:"building"`
	Period   string `json:"period" query:"period" validate:"omitempty,oneof=daily weekly"`
}

// Reading API Requests

// ReadingsListRequest represents a request to list cleaned meter readings
type ReadingsListRequest struct {
	PaginationRequest
	DateRangeRequest
	Building string `json:"building" query:"building"`
}

// Building API Requests

// BuildingDetailRequest represents a request for a single building report
type BuildingDetailRequest struct {
	Name string `json:"name" param:"name" validate:"required,max=255"`
}

// Artifact API Requests

// ArtifactDownloadRequest represents a request to download a generated artifact
type ArtifactDownloadRequest struct {
	Name string `json:"name" param:"name" validate:"required,filename"`
}

// Health API Requests

// HealthCheckRequest represents a health check request
type HealthCheckRequest struct {
	Verbose bool `json:"verbose" query:"verbose"`
}
