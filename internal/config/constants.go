package config

import "time"

// Application constants for the campus energy reporting system
const (
	// Application Info
	AppName     = "Campus Energy Reports"
	ServiceName = "energycli"

	// EnvPrefix namespaces all environment variables (ENERGY_SERVER_PORT, ...)
	EnvPrefix = "ENERGY"

	// Meter file schema. Header matching is case-insensitive; these are the
	// canonical lowercase forms.
	TimestampColumn = "timestamp"
	KWHColumn       = "kwh"
	BuildingColumn  = "building"

	// CSVTimestampFormat is the timestamp format written into artifacts
	CSVTimestampFormat = "2006-01-02 15:04:05"

	// Artifact file names inside the output directory
	CleanedDataFileName      = "cleaned_energy_data.csv"
	BuildingSummaryFileName  = "building_summary.csv"
	DashboardFileName        = "dashboard.png"
	ExecutiveSummaryFileName = "summary.txt"

	// File Paths (relative to the base directory)
	DefaultDataDir   = "data"
	DefaultOutputDir = "output"
	DefaultLogsDir   = "logs"

	// Log Settings
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultLogFilePath = "logs/app.log"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per minute
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultHTTPTimeout = 30 * time.Second

	// API Endpoints (internal)
	APIBasePath       = "/api"
	SummaryEndpoint   = "/api/summary"
	BuildingsEndpoint = "/api/buildings"
	DailyEndpoint     = "/api/daily"
	WeeklyEndpoint    = "/api/weekly"
	HealthEndpoint    = "/api/healthz"
	MetricsEndpoint   = "/metrics"
	OutputEndpoint    = "/output"
)

// TimestampLayouts are the accepted meter reading timestamp formats,
// tried in order during parsing.
var TimestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// MeterFileExtensions are the input file extensions the ingestor accepts.
var MeterFileExtensions = []string{".csv", ".xlsx"}
