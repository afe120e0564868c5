// Package shared provides common utilities and test helpers used across the
// campus energy codebase. It serves as a central location for functionality
// that doesn't belong to any specific domain or architectural layer.
//
// # Structure
//
// The package is organized into the following components:
//
// - testutil: Testing utilities including meter file fixtures and slog capture
//
// # Usage Guidelines
//
// This package should only contain:
//
// 1. Test utilities used by multiple packages
// 2. Generic helper functions with no domain-specific logic
//
// It should NOT contain:
//
// 1. Business logic or pipeline-specific code
// 2. Circular dependencies with other internal packages
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//	- Meter CSV fixture writers for ingestion tests
//	- A buffered slog handler for asserting on structured log output
//	- Custom assertions for log records
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    // exercise code with logger
//	    testutil.AssertLogContains(t, logs, slog.LevelWarn, "failed to load meter file")
//	}
package shared
