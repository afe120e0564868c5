// Package report produces the run's presentation artifacts: the
// three-panel dashboard PNG and the plain-text executive summary.
//
// BuildCampusSummary condenses the merged dataset and per-building
// statistics into the executive figures; RenderExecutiveSummary and
// WriteExecutiveSummary turn them into the summary.txt text block, and
// Dashboard renders the consumption visuals with gonum/plot.
package report
