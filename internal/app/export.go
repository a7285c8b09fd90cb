package app

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"oilwatcher/internal/storage"
)

// Export renders historical snapshots as CSV and/or PNG.
func (a *App) Export(opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

	history, err := a.newStore().Load()
	if err != nil {
		return err
	}

	snapshots := filterWindow(history.History, opts.From, opts.To)
	if len(snapshots) == 0 {
		a.Logger.Info().Msg("no snapshots found for export window")
		return nil
	}

	downsampled := downsampleSnapshots(snapshots, opts.MaxPoints)
	a.Logger.Info().Int("total", len(snapshots)).Int("exported", len(downsampled)).Msg("exporting snapshots")

	if opts.CSVPath != "" {
		if err := writeSnapshotsCSV(opts.CSVPath, downsampled); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writeSnapshotsPNG(opts.PNGPath, downsampled, a.Config.Commodities.Relevant); err != nil {
			return err
		}
	}

	return nil
}

func filterWindow(snapshots []storage.Snapshot, from, to *time.Time) []storage.Snapshot {
	result := make([]storage.Snapshot, 0, len(snapshots))
	for _, snapshot := range snapshots {
		if from != nil && snapshot.Date.Before(*from) {
			continue
		}
		if to != nil && !snapshot.Date.Before(*to) {
			continue
		}
		result = append(result, snapshot)
	}
	return result
}

func downsampleSnapshots(snapshots []storage.Snapshot, max int) []storage.Snapshot {
	if max <= 0 || len(snapshots) <= max {
		return snapshots
	}

	result := make([]storage.Snapshot, 0, max)
	step := float64(len(snapshots)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(snapshots) {
			idx = len(snapshots) - 1
		}
		result = append(result, snapshots[idx])
	}
	return result
}

func writeSnapshotsCSV(path string, snapshots []storage.Snapshot) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"date", "code", "name", "price_usd", "change_24h"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, snapshot := range snapshots {
		for _, quote := range snapshot.Prices {
			change := ""
			if quote.Change24h != nil {
				change = fmt.Sprintf("%v", *quote.Change24h)
			}
			record := []string{
				snapshot.Date.Format(time.RFC3339),
				quote.Code,
				quote.Name,
				fmt.Sprintf("%.2f", quote.Price),
				change,
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	return writer.Error()
}

func writeSnapshotsPNG(path string, snapshots []storage.Snapshot, codes []string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	series := make([]chart.Series, 0, len(codes))
	for _, code := range codes {
		var x []time.Time
		var y []float64
		for _, snapshot := range snapshots {
			for _, quote := range snapshot.Prices {
				if quote.Code == code {
					x = append(x, snapshot.Date)
					y = append(y, quote.Price)
					break
				}
			}
		}
		// go-chart requires at least two points per series
		if len(x) < 2 {
			continue
		}
		series = append(series, chart.TimeSeries{
			Name:    code,
			XValues: x,
			YValues: y,
		})
	}
	if len(series) == 0 {
		return errors.New("not enough data points to render chart")
	}

	priceFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Price (USD)",
			ValueFormatter: priceFormatter,
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
