package options

import (
	"github.com/spf13/cobra"
)

// DailyOptions
type DailyOptions struct {
	Theme    string
	Refresh  bool
	Calendar bool
	Follow   bool
}

func AddDailyArgs(cmd *cobra.Command, o *DailyOptions) {
	cmd.Flags().StringVarP(&o.Theme, "theme", "t", "",
		"Theme for a newly fetched verse, defaults to daily.theme.")
	cmd.Flags().BoolVarP(&o.Refresh, "refresh", "r", false,
		"Replace today's verse with a new one.")
	cmd.Flags().BoolVarP(&o.Calendar, "calendar", "c", false,
		"Show the month with today marked.")
	cmd.Flags().BoolVarP(&o.Follow, "follow", "f", false,
		"Keep running and show the verse as it changes.")
}
