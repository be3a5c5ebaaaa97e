package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/devo/pkg/runner/moods"
)

func addMoods(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "moods",
		Short: "List the preset moods.",
		Example: `
devo moods
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k := moods.Moods{Out: cmd.OutOrStdout()}
			return k.Do(contextOf(cmd))
		},
	}

	topLevel.AddCommand(cmd)
}
