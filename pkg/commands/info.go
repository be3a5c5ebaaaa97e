package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/devo/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and the local store.",
		Example: `
devo info
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
			s := info.Info{
				Config:      e.cfg,
				Persistence: p,
				Out:         cmd.OutOrStdout(),
			}
			return oo.HandleError(s.Do(contextOf(cmd)))
		},
	}

	topLevel.AddCommand(cmd)
}
