package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"energycli/internal/errors"
	"energycli/pkg/contracts/domain"
)

const (
	dashboardWidth  = 12 * vg.Inch
	dashboardHeight = 14 * vg.Inch

	dateTickFormat = "2006-01-02"
)

// DashboardData carries the prepared series the dashboard panels draw
type DashboardData struct {
	DailyByBuilding map[string][]domain.PeriodTotal
	Summaries       []domain.BuildingSummary
	Readings        domain.Dataset
}

// Dashboard renders the consumption dashboard: three stacked panels in a
// single PNG showing the daily trend per building, each building's mean
// consumption, and every reading over time.
type Dashboard struct {
	logger *slog.Logger
}

// NewDashboard creates a dashboard renderer
func NewDashboard(logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{logger: logger}
}

// Render draws the dashboard into outputPath. Empty input still produces
// the file, with panels showing no series.
func (d *Dashboard) Render(ctx context.Context, data DashboardData, outputPath string) error {
	trend, err := d.trendPanel(data.DailyByBuilding)
	if err != nil {
		return fmt.Errorf("failed to build trend panel: %w", err)
	}
	means, err := d.meanPanel(data.Summaries)
	if err != nil {
		return fmt.Errorf("failed to build building mean panel: %w", err)
	}
	readings, err := d.readingsPanel(data.Readings)
	if err != nil {
		return fmt.Errorf("failed to build readings panel: %w", err)
	}

	img := vgimg.New(dashboardWidth, dashboardHeight)
	canvases := plot.Align(
		[][]*plot.Plot{{trend}, {means}, {readings}},
		draw.Tiles{
			Rows:      3,
			Cols:      1,
			PadY:      vg.Millimeter * 5,
			PadTop:    vg.Millimeter * 5,
			PadBottom: vg.Millimeter * 5,
			PadLeft:   vg.Millimeter * 5,
			PadRight:  vg.Millimeter * 5,
		},
		draw.New(img),
	)
	trend.Draw(canvases[0][0])
	means.Draw(canvases[1][0])
	readings.Draw(canvases[2][0])

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return errors.NewStorageError("failed to create dashboard directory", err)
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return errors.NewStorageError("failed to create dashboard file", err)
	}
	defer file.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(file); err != nil {
		return errors.NewStorageError("failed to encode dashboard", err)
	}

	d.logger.InfoContext(ctx, "Rendered dashboard",
		slog.String("path", outputPath),
		slog.Int("buildings", len(data.DailyByBuilding)),
		slog.Int("readings", len(data.Readings)))

	return nil
}

// trendPanel draws one daily-total line per building with a legend
func (d *Dashboard) trendPanel(dailyByBuilding map[string][]domain.PeriodTotal) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Daily Electricity Consumption Trend"
	p.Y.Label.Text = "kWh"
	p.X.Tick.Marker = plot.TimeTicks{Format: dateTickFormat}

	names := make([]string, 0, len(dailyByBuilding))
	for name := range dailyByBuilding {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]interface{}, 0, len(names)*2)
	for _, name := range names {
		series := dailyByBuilding[name]
		pts := make(plotter.XYs, len(series))
		for i, bin := range series {
			pts[i].X = float64(bin.Start.Unix())
			pts[i].Y = bin.TotalKWH
		}
		args = append(args, name, pts)
	}
	if len(args) > 0 {
		if err := plotutil.AddLines(p, args...); err != nil {
			return nil, err
		}
	}
	p.Legend.Top = true

	return p, nil
}

// meanPanel draws a bar per building showing its mean reading
func (d *Dashboard) meanPanel(summaries []domain.BuildingSummary) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Average Weekly Consumption by Building"
	p.Y.Label.Text = "Avg kWh"

	values := make(plotter.Values, len(summaries))
	names := make([]string, len(summaries))
	for i, s := range summaries {
		values[i] = s.Mean
		names[i] = s.Building
	}

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return nil, err
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(names...)

	return p, nil
}

// readingsPanel scatters every reading over time
func (d *Dashboard) readingsPanel(dataset domain.Dataset) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Peak Hour Consumption"
	p.Y.Label.Text = "kWh"
	p.X.Tick.Marker = plot.TimeTicks{Format: dateTickFormat}

	pts := make(plotter.XYs, len(dataset))
	for i, r := range dataset {
		pts[i].X = float64(r.Timestamp.Unix())
		pts[i].Y = r.KWH
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	scatter.GlyphStyle.Radius = vg.Points(1.5)
	scatter.GlyphStyle.Color = plotutil.Color(2)
	p.Add(scatter)

	return p, nil
}
