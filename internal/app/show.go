package app

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"
)

// Show prints the most recent snapshots from the history file.
func (a *App) Show(opts ShowOptions) error {
	history, err := a.newStore().Load()
	if err != nil {
		return err
	}

	if len(history.History) == 0 {
		fmt.Fprintln(os.Stdout, "no snapshots recorded")
		return nil
	}

	snapshots := history.History
	if opts.Limit > 0 && len(snapshots) > opts.Limit {
		snapshots = snapshots[len(snapshots)-opts.Limit:]
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Date\tCode\tCommodity\tPrice (USD)\t24h Change")

	for _, snapshot := range snapshots {
		for _, quote := range snapshot.Prices {
			change := ""
			if quote.Change24h != nil {
				change = fmt.Sprintf("%v", *quote.Change24h)
			}
			fmt.Fprintf(
				writer,
				"%s\t%s\t%s\t%.2f\t%s\n",
				snapshot.Date.Format(time.RFC3339),
				quote.Code,
				quote.Name,
				quote.Price,
				change,
			)
		}
	}

	writer.Flush()
	fmt.Fprintf(os.Stdout, "alerts on file: %d\n", len(history.Alerts))
	return nil
}
