package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energycli/pkg/contracts/domain"
)

func TestMerge(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	meterFiles := []domain.MeterFile{
		{
			SourceName: "B_jan.csv",
			Building:   "B",
			Readings: []domain.Reading{
				{Timestamp: jan1.Add(2 * time.Hour), KWH: 3, Building: "B"},
				{Timestamp: jan1, KWH: 1, Building: "B"},
			},
		},
		{
			SourceName: "A_jan.csv",
			Building:   "A",
			Readings: []domain.Reading{
				{Timestamp: jan1.Add(time.Hour), KWH: 2, Building: "A"},
			},
		},
	}

	merger := NewMerger(nil)
	dataset := merger.Merge(context.Background(), meterFiles)

	require.Len(t, dataset, 3)
	assert.Equal(t, 1.0, dataset[0].KWH)
	assert.Equal(t, 2.0, dataset[1].KWH)
	assert.Equal(t, 3.0, dataset[2].KWH)
}

func TestMerge_StableOnEqualTimestamps(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	meterFiles := []domain.MeterFile{
		{Building: "A", Readings: []domain.Reading{{Timestamp: ts, KWH: 1, Building: "A"}}},
		{Building: "B", Readings: []domain.Reading{{Timestamp: ts, KWH: 2, Building: "B"}}},
		{Building: "C", Readings: []domain.Reading{{Timestamp: ts, KWH: 3, Building: "C"}}},
	}

	merger := NewMerger(nil)
	dataset := merger.Merge(context.Background(), meterFiles)

	require.Len(t, dataset, 3)
	assert.Equal(t, "A", dataset[0].Building, "equal timestamps keep input order")
	assert.Equal(t, "B", dataset[1].Building)
	assert.Equal(t, "C", dataset[2].Building)
}

func TestMerge_Idempotent(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	meterFiles := []domain.MeterFile{
		{Building: "A", Readings: []domain.Reading{
			{Timestamp: jan1.Add(time.Hour), KWH: 2, Building: "A"},
			{Timestamp: jan1, KWH: 1, Building: "A"},
		}},
	}

	merger := NewMerger(nil)
	dataset := merger.Merge(context.Background(), meterFiles)

	before := make(domain.Dataset, len(dataset))
	copy(before, dataset)

	dataset.Sort()
	assert.Equal(t, before, dataset, "sorting a sorted dataset changes nothing")
}

func TestMerge_Empty(t *testing.T) {
	merger := NewMerger(nil)

	dataset := merger.Merge(context.Background(), nil)
	assert.True(t, dataset.IsEmpty())

	dataset = merger.Merge(context.Background(), []domain.MeterFile{{Building: "A"}})
	assert.True(t, dataset.IsEmpty())
}
