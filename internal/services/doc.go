// Package services implements the business logic layer of the report
// server. It provides a clean separation between HTTP handlers and the
// artifacts on disk, ensuring that business rules are centralized and
// testable.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Context propagation for cancellation and tracing
//	2. Dependency injection for loose coupling
//	3. Domain-focused methods that encapsulate business rules
//	4. No caching: every request re-reads the artifacts so a fresh
//	   pipeline run is visible immediately
//
// # Available Services
//
// The package provides these core services:
//
//	- ReportService: serves aggregates, building reports and artifact
//	  downloads recomputed from the cleaned dataset
//	- HealthService: provides system health checks and runtime statistics
//
// # Error Handling
//
// Services return sentinel errors that handlers transform into API
// error payloads:
//
//	- ErrNoDataAvailable when the processor has not produced output yet
//	- ErrBuildingNotFound for unknown building names
//	- ErrArtifactNotFound / ErrInvalidArtifact for artifact downloads
//	- ErrInvalidInput for malformed filters
//
// Sentinels are wrapped with %w, so handlers match them with errors.Is.
package services
