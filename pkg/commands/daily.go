package commands

import (
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/devo/pkg/commands/options"
	"tableflip.dev/devo/pkg/runner/daily"
)

func addDaily(topLevel *cobra.Command) {
	do := &options.DailyOptions{}

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Show the verse of the day.",
		Long: base.Wrap80("Show the verse of the day. The verse is fetched once per " +
			"local day and kept in the store; it changes at midnight or with --refresh."),
		Example: `
devo daily
devo daily --calendar
devo daily --refresh --theme hope
devo daily --follow
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := setup()
			if err != nil {
				return oo.HandleError(err)
			}
			p, err := e.persistence()
			if err != nil {
				return oo.HandleError(err)
			}

			theme := do.Theme
			if theme == "" {
				theme = e.cfg.DailyTheme
			}
			d := daily.Daily{
				Fetcher:     e.client,
				Persistence: p,
				Theme:       theme,
				Refresh:     do.Refresh,
				Calendar:    do.Calendar,
				Follow:      do.Follow,
				JSON:        oo.JSON,
				Logger:      e.log,
				Out:         cmd.OutOrStdout(),
			}
			return oo.HandleError(d.Do(contextOf(cmd)))
		},
	}

	options.AddDailyArgs(cmd, do)
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
