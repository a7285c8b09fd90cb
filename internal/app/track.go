package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"oilwatcher/internal/storage"
)

// Track runs one fetch→detect→persist cycle and returns the alerts raised.
// A fetch failure aborts the run before the history file is touched.
func (a *App) Track(ctx context.Context) ([]storage.Alert, error) {
	now := time.Now()
	fmt.Printf("🛢️ Oil Price Tracker - %s\n", now.Format("2006-01-02 15:04"))
	fmt.Println(strings.Repeat("=", 50))

	quotes, err := a.newFetcher().FetchPrices(ctx)
	if err != nil {
		fmt.Printf("❌ Error fetching prices: %v\n", err)
		return nil, fmt.Errorf("fetch prices: %w", err)
	}

	// The detector guards on the relevant set as well; the duplication is
	// deliberate so neither path depends on the other having filtered.
	relevant := storage.FilterRelevant(quotes, a.relevantSet())

	fmt.Println("\n📊 Current prices:")
	for _, quote := range relevant {
		fmt.Printf("  %s: $%.2f%s\n", quote.Name, quote.Price, formatChange24h(quote.Change24h))
	}

	store := a.newStore()
	history, err := store.Load()
	if err != nil {
		return nil, err
	}

	alerts := a.newDetector().Detect(relevant, history)
	if len(alerts) > 0 {
		fmt.Printf("\n⚠️ ALERTS (%d):\n", len(alerts))
		for _, alert := range alerts {
			fmt.Printf("  %s\n", alert.Message)
		}
		history.AppendAlerts(alerts)
	}

	history.AppendSnapshot(storage.Snapshot{Date: now, Prices: relevant}, a.Config.Storage.RetentionDays)

	if err := store.Save(history); err != nil {
		return nil, err
	}

	if len(alerts) == 0 {
		fmt.Println("\n✅ Done.")
	}
	return alerts, nil
}

func formatChange24h(change *float64) string {
	if change == nil {
		return ""
	}
	if *change > 0 {
		return fmt.Sprintf(" (+%v)", *change)
	}
	return fmt.Sprintf(" (%v)", *change)
}
