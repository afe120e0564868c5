package exporter

import (
	"sort"

	"energycli/internal/config"
	"energycli/internal/dataprocessing"
	"energycli/internal/errors"
	"energycli/pkg/contracts/domain"
)

// ArtifactExporter writes the pipeline's CSV artifacts into the output
// directory.
type ArtifactExporter struct {
	csvWriter *CSVWriter
	paths     *config.Paths
}

// NewArtifactExporter creates an exporter for the configured paths
func NewArtifactExporter(paths *config.Paths) *ArtifactExporter {
	return &ArtifactExporter{
		csvWriter: NewCSVWriter(paths),
		paths:     paths,
	}
}

// WriteCleanedDataset persists the merged dataset as
// cleaned_energy_data.csv and returns the artifact path. An empty
// dataset still produces the file with its header row, so downstream
// consumers always find the artifact after a run.
func (e *ArtifactExporter) WriteCleanedDataset(dataset domain.Dataset) (string, error) {
	headers := []string{config.TimestampColumn, config.KWHColumn, config.BuildingColumn}

	stream, err := e.csvWriter.CreateStreamWriter(e.paths.CleanedCSV, headers)
	if err != nil {
		return "", errors.NewStorageError("failed to create cleaned dataset file", err)
	}

	for _, r := range dataset {
		record := []string{formatTimestamp(r.Timestamp), formatKWH(r.KWH), r.Building}
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return "", errors.NewStorageError("failed to write cleaned dataset row", err)
		}
	}

	if err := stream.Close(); err != nil {
		return "", errors.NewStorageError("failed to finalize cleaned dataset file", err)
	}
	return e.paths.CleanedCSV, nil
}

// WriteBuildingSummary persists per-building statistics as
// building_summary.csv, one row per building in alphabetical order.
func (e *ArtifactExporter) WriteBuildingSummary(summaries []domain.BuildingSummary) (string, error) {
	sorted := make([]domain.BuildingSummary, len(summaries))
	copy(sorted, summaries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Building < sorted[j].Building
	})

	records := make([][]string, 0, len(sorted))
	for _, s := range sorted {
		records = append(records, []string{
			s.Building,
			formatKWH(s.Mean),
			formatKWH(s.Min),
			formatKWH(s.Max),
			formatKWH(s.Sum),
		})
	}

	err := e.csvWriter.WriteCSV(e.paths.SummaryCSV, WriteOptions{
		Headers: []string{"building", "mean", "min", "max", "sum"},
		Records: records,
	})
	if err != nil {
		return "", errors.NewStorageError("failed to write building summary", err)
	}
	return e.paths.SummaryCSV, nil
}

// LoadCleanedDataset reads a cleaned_energy_data.csv artifact back into
// a dataset. The reader accepts the same header variations as meter
// ingestion, so artifacts edited or re-exported by spreadsheet tools
// still load.
func LoadCleanedDataset(path string) (domain.Dataset, error) {
	meterFile, err := dataprocessing.ParseMeterCSV(path)
	if err != nil {
		return nil, err
	}
	if len(meterFile.Readings) == 0 {
		return domain.Dataset{}, nil
	}

	dataset := domain.Dataset(meterFile.Readings)
	dataset.Sort()
	return dataset, nil
}

