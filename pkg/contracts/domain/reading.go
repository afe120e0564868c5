package domain

import (
	"sort"
	"time"
)

// Reading represents a single electrical meter measurement.
// This is the primary data structure flowing through the pipeline:
// one row of a meter export file after validation and normalization.
type Reading struct {
	Timestamp time.Time `json:"timestamp" db:"timestamp" validate:"required"`
	KWH       float64   `json:"kwh" db:"kwh"`
	Building  string    `json:"building" db:"building" validate:"required"`
}

// MeterFile represents the validated contents of one meter export file.
// Building holds the identifier derived from the file name; individual
// readings may carry a different building when the file has its own
// building column.
type MeterFile struct {
	SourceName string    `json:"source_name" validate:"required"`
	Building   string    `json:"building" validate:"required"`
	Readings   []Reading `json:"readings" validate:"dive"`
}

// Dataset is the merged, timestamp-ordered collection of readings from
// all successfully ingested meter files.
type Dataset []Reading

// Sort orders the dataset by timestamp ascending. The sort is stable, so
// readings with equal timestamps keep their relative input order and
// sorting an already sorted dataset changes nothing.
func (d Dataset) Sort() {
	sort.SliceStable(d, func(i, j int) bool {
		return d[i].Timestamp.Before(d[j].Timestamp)
	})
}

// IsEmpty reports whether the dataset contains no readings.
func (d Dataset) IsEmpty() bool {
	return len(d) == 0
}

// Span returns the earliest and latest timestamps in the dataset.
// ok is false for an empty dataset.
func (d Dataset) Span() (first, last time.Time, ok bool) {
	if len(d) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = d[0].Timestamp, d[0].Timestamp
	for _, r := range d[1:] {
		if r.Timestamp.Before(first) {
			first = r.Timestamp
		}
		if r.Timestamp.After(last) {
			last = r.Timestamp
		}
	}
	return first, last, true
}

// Buildings returns the distinct building identifiers present in the
// dataset, sorted alphabetically.
func (d Dataset) Buildings() []string {
	seen := make(map[string]struct{})
	for _, r := range d {
		seen[r.Building] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TotalKWH returns the sum of all readings in the dataset.
func (d Dataset) TotalKWH() float64 {
	var total float64
	for _, r := range d {
		total += r.KWH
	}
	return total
}
