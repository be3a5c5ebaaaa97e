package commands

import (
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/devo/pkg/commands/options"
	"tableflip.dev/devo/pkg/runner/generate"
	"tableflip.dev/devo/pkg/snake"
	"tableflip.dev/devo/pkg/verse"
)

func addGenerate(topLevel *cobra.Command) {
	do := &options.DevotionOptions{}
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "generate [reference]",
		Short: "Write a devotion on a verse for a mood.",
		Example: `
devo generate Psalm 23:1 --mood weary
devo generate "Isaiah 40:31" -m hopeful -c "They who wait for the Lord..."
devo generate -i
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := setup()
			if err != nil {
				return oo.HandleError(err)
			}

			req := do.DevotionRequest
			if len(args) > 0 {
				req.Reference = strings.Join(args, " ")
			}
			if i.Interactive {
				in, out := cmd.InOrStdin(), cmd.OutOrStdout()
				if strings.TrimSpace(req.Reference) == "" {
					if req.Reference, err = snake.PromptText(in, out, "Reference", ""); err != nil {
						return err
					}
				}
				if strings.TrimSpace(req.Mood) == "" {
					if req.Mood, err = snake.PickMood(in, out, verse.DefaultMoods()); err != nil {
						return err
					}
				}
			}

			g := generate.Generate{
				Fetcher: e.client,
				Request: req,
				Lookup:  do.Lookup,
				JSON:    oo.JSON,
				Style:   "auto",
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(g.Do(contextOf(cmd)))
		},
	}

	options.AddDevotionArgs(cmd, do)
	options.InteractiveArgs(cmd, i)
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
