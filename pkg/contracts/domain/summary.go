package domain

import (
	"time"
)

// BuildingSummary represents the per-building aggregate statistics,
// one row of the building summary artifact.
type BuildingSummary struct {
	Building string  `json:"building" validate:"required"`
	Mean     float64 `json:"mean"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Sum      float64 `json:"sum"`
}

// PeriodTotal represents total consumption for one calendar bin.
// Start identifies the bin: the midnight of the day for daily totals,
// the week-ending Sunday for weekly totals.
type PeriodTotal struct {
	Start    time.Time `json:"start" validate:"required"`
	TotalKWH float64   `json:"total_kwh"`
}

// CampusSummary represents the campus-wide executive summary for one
// pipeline run. TopBuilding is empty and PeakTime is the zero time when
// the run saw no readings at all.
type CampusSummary struct {
	TotalKWH       float64   `json:"total_kwh"`
	TopBuilding    string    `json:"top_building,omitempty"`
	TopBuildingKWH float64   `json:"top_building_kwh"`
	PeakTime       time.Time `json:"peak_time,omitempty"`
	PeakKWH        float64   `json:"peak_kwh"`
	ReadingCount   int       `json:"reading_count" validate:"min=0"`
	BuildingCount  int       `json:"building_count" validate:"min=0"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// RunResult represents the outcome of one full pipeline run, used for
// run logging and the web status surface.
type RunResult struct {
	RunID           string        `json:"run_id" validate:"required,uuid"`
	StartedAt       time.Time     `json:"started_at"`
	Duration        time.Duration `json:"duration_ms"`
	FilesDiscovered int           `json:"files_discovered" validate:"min=0"`
	FilesLoaded     int           `json:"files_loaded" validate:"min=0"`
	FilesFailed     int           `json:"files_failed" validate:"min=0"`
	ReadingCount    int           `json:"reading_count" validate:"min=0"`
	Summary         CampusSummary `json:"summary"`
}
