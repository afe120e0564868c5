package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDatasetSort(t *testing.T) {
	tests := []struct {
		name string
		in   Dataset
		want []float64 // kwh values in expected order
	}{
		{
			name: "orders by timestamp ascending",
			in: Dataset{
				{Timestamp: ts("2024-01-03 00:00:00"), KWH: 3, Building: "A"},
				{Timestamp: ts("2024-01-01 00:00:00"), KWH: 1, Building: "A"},
				{Timestamp: ts("2024-01-02 00:00:00"), KWH: 2, Building: "B"},
			},
			want: []float64{1, 2, 3},
		},
		{
			name: "equal timestamps keep input order",
			in: Dataset{
				{Timestamp: ts("2024-01-01 00:00:00"), KWH: 10, Building: "A"},
				{Timestamp: ts("2024-01-01 00:00:00"), KWH: 20, Building: "B"},
				{Timestamp: ts("2024-01-01 00:00:00"), KWH: 30, Building: "C"},
			},
			want: []float64{10, 20, 30},
		},
		{
			name: "empty dataset",
			in:   Dataset{},
			want: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Sort()
			got := make([]float64, 0, len(tt.in))
			for _, r := range tt.in {
				got = append(got, r.KWH)
			}
			assert.Equal(t, tt.want, got)

			// Sorting again must not reorder anything.
			before := make(Dataset, len(tt.in))
			copy(before, tt.in)
			tt.in.Sort()
			assert.Equal(t, before, tt.in)
		})
	}
}

func TestDatasetSpan(t *testing.T) {
	t.Run("empty dataset has no span", func(t *testing.T) {
		var d Dataset
		_, _, ok := d.Span()
		assert.False(t, ok)
	})

	t.Run("span covers min and max regardless of order", func(t *testing.T) {
		d := Dataset{
			{Timestamp: ts("2024-01-05 12:00:00"), KWH: 1, Building: "A"},
			{Timestamp: ts("2024-01-01 08:00:00"), KWH: 2, Building: "A"},
			{Timestamp: ts("2024-01-03 00:00:00"), KWH: 3, Building: "A"},
		}
		first, last, ok := d.Span()
		require.True(t, ok)
		assert.Equal(t, ts("2024-01-01 08:00:00"), first)
		assert.Equal(t, ts("2024-01-05 12:00:00"), last)
	})
}

func TestDatasetBuildings(t *testing.T) {
	d := Dataset{
		{Timestamp: ts("2024-01-01 00:00:00"), KWH: 1, Building: "Science"},
		{Timestamp: ts("2024-01-01 01:00:00"), KWH: 2, Building: "Admin"},
		{Timestamp: ts("2024-01-01 02:00:00"), KWH: 3, Building: "Science"},
		{Timestamp: ts("2024-01-01 03:00:00"), KWH: 4, Building: "Library"},
	}

	assert.Equal(t, []string{"Admin", "Library", "Science"}, d.Buildings())
	assert.Empty(t, Dataset{}.Buildings())
}

func TestDatasetTotalKWH(t *testing.T) {
	d := Dataset{
		{Timestamp: ts("2024-01-01 00:00:00"), KWH: 10.5, Building: "A"},
		{Timestamp: ts("2024-01-01 01:00:00"), KWH: 4.5, Building: "B"},
	}

	assert.InDelta(t, 15.0, d.TotalKWH(), 1e-9)
	assert.Zero(t, Dataset(nil).TotalKWH())
}
