package cli

import (
	"github.com/spf13/cobra"

	"oilwatcher/internal/app"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Fetch current prices once and update the history file",
	RunE: func(cmd *cobra.Command, args []string) error {
		alerts, err := getApp().Track(cmd.Context())
		if err != nil {
			return err
		}
		if len(alerts) > 0 {
			return app.ErrAlertsRaised
		}
		return nil
	},
}
