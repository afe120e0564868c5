package services

import "errors"

// Report service errors
var (
	// Dataset errors
	ErrNoDataAvailable  = errors.New("no cleaned dataset available")
	ErrBuildingNotFound = errors.New("building not found")

	// Artifact errors
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrInvalidArtifact  = errors.New("invalid artifact name")

	// General errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
