package commands

import (
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/devo/pkg/commands/options"
	"tableflip.dev/devo/pkg/runner/verse"
	"tableflip.dev/devo/pkg/snake"
)

func addVerse(topLevel *cobra.Command) {
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "verse [reference]",
		Short: "Print the text of a verse.",
		Example: `
devo verse John 3:16
devo verse "Psalm 23:1-3"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := setup()
			if err != nil {
				return oo.HandleError(err)
			}

			ref := strings.Join(args, " ")
			if ref == "" && i.Interactive {
				if ref, err = snake.PromptText(cmd.InOrStdin(), cmd.OutOrStdout(), "Reference", ""); err != nil {
					return err
				}
			}

			v := verse.Verse{
				Fetcher:   e.client,
				Reference: ref,
				JSON:      oo.JSON,
				Out:       cmd.OutOrStdout(),
			}
			return oo.HandleError(v.Do(contextOf(cmd)))
		},
	}

	options.InteractiveArgs(cmd, i)
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
