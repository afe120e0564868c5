package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"energycli/internal/config"
	"energycli/internal/errors"
	"energycli/pkg/contracts/domain"
)

// notAvailable is rendered for fields that have no value on an empty run
const notAvailable = "n/a"

// BuildCampusSummary derives the campus-wide executive figures from the
// merged dataset and the per-building statistics. On an empty dataset the
// totals are zero and TopBuilding/PeakTime keep their zero values.
func BuildCampusSummary(dataset domain.Dataset, summaries []domain.BuildingSummary) domain.CampusSummary {
	cs := domain.CampusSummary{
		ReadingCount:  len(dataset),
		BuildingCount: len(summaries),
		GeneratedAt:   time.Now().UTC(),
	}

	for _, s := range summaries {
		cs.TotalKWH += s.Sum
		// Summaries arrive alphabetically, so a strict comparison keeps
		// the first name on equal totals
		if cs.TopBuilding == "" || s.Sum > cs.TopBuildingKWH {
			cs.TopBuilding = s.Building
			cs.TopBuildingKWH = s.Sum
		}
	}

	for _, r := range dataset {
		if cs.PeakTime.IsZero() || r.KWH > cs.PeakKWH {
			cs.PeakTime = r.Timestamp
			cs.PeakKWH = r.KWH
		}
	}

	return cs
}

// RenderExecutiveSummary formats the campus summary as the plain-text
// block written to summary.txt and echoed to stdout.
func RenderExecutiveSummary(cs domain.CampusSummary) string {
	topBuilding := cs.TopBuilding
	if topBuilding == "" {
		topBuilding = notAvailable
	}

	peakTime := notAvailable
	if !cs.PeakTime.IsZero() {
		peakTime = cs.PeakTime.Format(config.CSVTimestampFormat)
	}

	return fmt.Sprintf("\nEXECUTIVE SUMMARY\n"+
		"=================\n"+
		"Total Campus Consumption: %.2f kWh\n"+
		"Highest Consuming Building: %s\n"+
		"Peak Load Time: %s\n"+
		"Weekly Trend and Daily Consumption visuals saved as %s\n",
		cs.TotalKWH, topBuilding, peakTime, config.DashboardFileName)
}

// WriteExecutiveSummary writes the rendered summary to path, creating the
// parent directory when needed.
func WriteExecutiveSummary(path string, cs domain.CampusSummary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create summary directory", err)
	}
	if err := os.WriteFile(path, []byte(RenderExecutiveSummary(cs)), 0644); err != nil {
		return errors.NewStorageError("failed to write executive summary", err)
	}
	return nil
}
