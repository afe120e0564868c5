package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"energycli/pkg/contracts/domain"
)

// Aggregator computes the time-based and per-building aggregates that
// feed the pipeline artifacts and the report API.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates a new aggregator
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// DailyTotals sums consumption per calendar day. Bins are anchored at
// midnight and days without readings between the first and last day are
// zero-filled, so the series has no gaps.
func (a *Aggregator) DailyTotals(ctx context.Context, dataset domain.Dataset) []domain.PeriodTotal {
	totals := a.dailyTotals(dataset)

	a.logger.DebugContext(ctx, "Computed daily totals",
		slog.Int("days", len(totals)))

	return totals
}

func (a *Aggregator) dailyTotals(dataset domain.Dataset) []domain.PeriodTotal {
	if dataset.IsEmpty() {
		return []domain.PeriodTotal{}
	}

	byDay := make(map[time.Time]float64)
	for _, r := range dataset {
		byDay[DayStart(r.Timestamp)] += r.KWH
	}

	first, last, _ := dataset.Span()
	firstDay, lastDay := DayStart(first), DayStart(last)

	var totals []domain.PeriodTotal
	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		totals = append(totals, domain.PeriodTotal{
			Start:    day,
			TotalKWH: byDay[day],
		})
	}
	return totals
}

// WeeklyTotals sums consumption per week. A reading belongs to the week
// labelled by the first Sunday on or after its calendar day; weeks
// without readings between the first and last label are zero-filled.
func (a *Aggregator) WeeklyTotals(ctx context.Context, dataset domain.Dataset) []domain.PeriodTotal {
	totals := a.weeklyTotals(dataset)

	a.logger.DebugContext(ctx, "Computed weekly totals",
		slog.Int("weeks", len(totals)))

	return totals
}

func (a *Aggregator) weeklyTotals(dataset domain.Dataset) []domain.PeriodTotal {
	if dataset.IsEmpty() {
		return []domain.PeriodTotal{}
	}

	byWeek := make(map[time.Time]float64)
	for _, r := range dataset {
		byWeek[WeekAnchor(r.Timestamp)] += r.KWH
	}

	first, last, _ := dataset.Span()
	firstWeek, lastWeek := WeekAnchor(first), WeekAnchor(last)

	var totals []domain.PeriodTotal
	for week := firstWeek; !week.After(lastWeek); week = week.AddDate(0, 0, 7) {
		totals = append(totals, domain.PeriodTotal{
			Start:    week,
			TotalKWH: byWeek[week],
		})
	}
	return totals
}

// BuildingSummaries computes per-building mean, min, max and sum of the
// individual readings. Rows are sorted alphabetically by building name.
func (a *Aggregator) BuildingSummaries(ctx context.Context, dataset domain.Dataset) []domain.BuildingSummary {
	type acc struct {
		sum   float64
		min   float64
		max   float64
		count int
	}

	byBuilding := make(map[string]*acc)
	for _, r := range dataset {
		entry, ok := byBuilding[r.Building]
		if !ok {
			entry = &acc{min: r.KWH, max: r.KWH}
			byBuilding[r.Building] = entry
		}
		entry.sum += r.KWH
		entry.count++
		if r.KWH < entry.min {
			entry.min = r.KWH
		}
		if r.KWH > entry.max {
			entry.max = r.KWH
		}
	}

	summaries := make([]domain.BuildingSummary, 0, len(byBuilding))
	for building, entry := range byBuilding {
		summaries = append(summaries, domain.BuildingSummary{
			Building: building,
			Mean:     entry.sum / float64(entry.count),
			Min:      entry.min,
			Max:      entry.max,
			Sum:      entry.sum,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Building < summaries[j].Building
	})

	a.logger.DebugContext(ctx, "Computed building summaries",
		slog.Int("buildings", len(summaries)))

	return summaries
}

// DailyTotalsByBuilding computes a zero-filled daily series for each
// building, spanning that building's own first to last reading day.
func (a *Aggregator) DailyTotalsByBuilding(ctx context.Context, dataset domain.Dataset) map[string][]domain.PeriodTotal {
	perBuilding := make(map[string]domain.Dataset)
	for _, r := range dataset {
		perBuilding[r.Building] = append(perBuilding[r.Building], r)
	}

	out := make(map[string][]domain.PeriodTotal, len(perBuilding))
	for building, readings := range perBuilding {
		out[building] = a.dailyTotals(readings)
	}

	a.logger.DebugContext(ctx, "Computed per-building daily totals",
		slog.Int("buildings", len(out)))

	return out
}

// AverageWeeklyByBuilding computes the mean weekly consumption for each
// building over that building's own zero-filled weekly series.
func (a *Aggregator) AverageWeeklyByBuilding(ctx context.Context, dataset domain.Dataset) map[string]float64 {
	perBuilding := make(map[string]domain.Dataset)
	for _, r := range dataset {
		perBuilding[r.Building] = append(perBuilding[r.Building], r)
	}

	out := make(map[string]float64, len(perBuilding))
	for building, readings := range perBuilding {
		weeks := a.weeklyTotals(readings)
		if len(weeks) == 0 {
			out[building] = 0
			continue
		}
		var sum float64
		for _, w := range weeks {
			sum += w.TotalKWH
		}
		out[building] = sum / float64(len(weeks))
	}

	a.logger.DebugContext(ctx, "Computed average weekly consumption by building",
		slog.Int("buildings", len(out)))

	return out
}

// HourlyProfile sums consumption into 24 hour-of-day buckets across the
// whole dataset.
func (a *Aggregator) HourlyProfile(ctx context.Context, dataset domain.Dataset) []float64 {
	profile := make([]float64, 24)
	for _, r := range dataset {
		profile[r.Timestamp.Hour()] += r.KWH
	}

	a.logger.DebugContext(ctx, "Computed hourly consumption profile",
		slog.Int("readings", len(dataset)))

	return profile
}

// PeakReading returns the reading with the highest consumption. With the
// dataset in chronological order, ties resolve to the earliest reading.
func (a *Aggregator) PeakReading(dataset domain.Dataset) (domain.Reading, bool) {
	if dataset.IsEmpty() {
		return domain.Reading{}, false
	}

	peak := dataset[0]
	for _, r := range dataset[1:] {
		if r.KWH > peak.KWH {
			peak = r
		}
	}
	return peak, true
}

// DayStart truncates a timestamp to the midnight of its calendar day
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekAnchor returns the week label for a timestamp: the midnight of the
// first Sunday on or after its calendar day.
func WeekAnchor(t time.Time) time.Time {
	day := DayStart(t)
	offset := (7 - int(day.Weekday())) % 7
	return day.AddDate(0, 0, offset)
}
