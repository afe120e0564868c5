// Package config provides centralized configuration management for the
// campus energy reporting tools. It handles loading configuration from
// multiple sources, validation, and provides a type-safe API for accessing
// configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (config.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern ENERGY_* for namespacing:
//
//	ENERGY_SERVER_PORT=8080
//	ENERGY_LOGGING_LEVEL=info
//	ENERGY_PATHS_DATA_DIR=data
//	ENERGY_PATHS_OUTPUT_DIR=output
//	ENERGY_OBSERVABILITY_METRICS_EXPORTER=prometheus
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which resolves the meter file input directory, the artifact output
// directory, and the log directory against a base directory (the working
// directory by default):
//
//	paths, err := config.GetPaths()
//	cleaned := paths.CleanedCSV
//	dashboard := paths.DashboardPNG
//
// # Validation
//
// All configuration is validated at load time with struct tags to ensure
// required fields are present and values are within acceptable ranges.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
