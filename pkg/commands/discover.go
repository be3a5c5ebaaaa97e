package commands

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	perr "tableflip.dev/devo/pkg/errors"
	"tableflip.dev/devo/pkg/discover"
	teaui "tableflip.dev/devo/pkg/runner/tea"
)

func addDiscover(topLevel *cobra.Command) {
	noDaily := false

	cmd := &cobra.Command{
		Use:     "discover",
		Aliases: []string{"ui"},
		Short:   "Open the interactive discover page.",
		Example: `
devo discover
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return perr.Validationf("discover needs a terminal, try devo suggest instead")
			}
			e, err := setup()
			if err != nil {
				return err
			}

			d := teaui.Discover{
				Fetcher: e.client,
				Count:   e.cfg.SuggestCount,
				Delays: &discover.Delays{
					Search:    e.cfg.SearchDelay,
					Custom:    e.cfg.CustomDelay,
					Reference: e.cfg.ReferenceDelay,
				},
				Theme:  e.cfg.DailyTheme,
				Logger: e.log,
			}
			if !noDaily {
				if d.Persistence, err = e.persistence(); err != nil {
					return err
				}
			}
			return d.Do(contextOf(cmd))
		},
	}

	cmd.Flags().BoolVar(&noDaily, "no-daily", false, "Hide the verse of the day.")

	topLevel.AddCommand(cmd)
}
