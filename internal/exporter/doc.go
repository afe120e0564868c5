// Package exporter persists pipeline results as CSV artifacts.
//
// The package provides two layers:
//
//   - CSVWriter: low-level CSV writing with directory resolution against
//     the configured paths, optional BOM and append modes, and a
//     streaming variant for row-at-a-time output.
//   - ArtifactExporter: the pipeline-facing layer that writes the
//     well-known artifacts (cleaned_energy_data.csv with the merged
//     readings, building_summary.csv with per-building statistics).
//
// LoadCleanedDataset reads a previously written cleaned dataset back,
// which lets the web server serve aggregates recomputed from the last
// processor run without re-ingesting meter files.
package exporter
