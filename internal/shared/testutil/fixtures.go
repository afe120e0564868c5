package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteMeterCSV writes a meter export file into dir and returns its path.
// Lines are joined with newlines exactly as given, so tests control the
// header row and any malformed content.
func WriteMeterCSV(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	content := strings.Join(lines, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write meter file %s: %v", name, err)
	}
	return path
}

// StandardMeterLines returns a well-formed meter file body with the
// canonical three-column header.
func StandardMeterLines(rows ...string) []string {
	return append([]string{"timestamp,kwh,building"}, rows...)
}

// TwoColumnMeterLines returns a meter file body without the optional
// building column.
func TwoColumnMeterLines(rows ...string) []string {
	return append([]string{"timestamp,kwh"}, rows...)
}

// SampleCampusFiles writes the canonical two-building fixture used across
// pipeline tests: A_jan.csv with readings 10 and 20, B_jan.csv with a
// single reading 5.
func SampleCampusFiles(t *testing.T, dir string) (pathA, pathB string) {
	t.Helper()

	pathA = WriteMeterCSV(t, dir, "A_jan.csv",
		"timestamp,kwh",
		"2024-01-01T00:00,10",
		"2024-01-01T01:00,20",
	)
	pathB = WriteMeterCSV(t, dir, "B_jan.csv",
		"timestamp,kwh",
		"2024-01-01T00:00,5",
	)
	return pathA, pathB
}
