package dataprocessing

import (
	"context"
	"log/slog"

	"energycli/pkg/contracts/domain"
)

// Merger combines per-building meter files into one chronologically
// ordered dataset.
type Merger struct {
	logger *slog.Logger
}

// NewMerger creates a new dataset merger
func NewMerger(logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{logger: logger}
}

// Merge concatenates the readings of every loaded file and sorts them by
// timestamp. The sort is stable, so readings with identical timestamps
// keep their file (name) order and repeated merges of the same input
// produce identical output.
func (m *Merger) Merge(ctx context.Context, meterFiles []domain.MeterFile) domain.Dataset {
	total := 0
	for _, f := range meterFiles {
		total += len(f.Readings)
	}

	dataset := make(domain.Dataset, 0, total)
	for _, f := range meterFiles {
		dataset = append(dataset, f.Readings...)
	}
	dataset.Sort()

	m.logger.InfoContext(ctx, "Merged meter files into dataset",
		slog.Int("files", len(meterFiles)),
		slog.Int("readings", len(dataset)),
		slog.Int("buildings", len(dataset.Buildings())))

	return dataset
}
