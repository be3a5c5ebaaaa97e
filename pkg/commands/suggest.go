package commands

import (
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/devo/pkg/commands/options"
	"tableflip.dev/devo/pkg/runner/suggest"
	"tableflip.dev/devo/pkg/snake"
	"tableflip.dev/devo/pkg/verse"
)

func addSuggest(topLevel *cobra.Command) {
	so := &options.SuggestOptions{}
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:       "suggest [mood]",
		Short:     "Suggest verses for a mood.",
		Long:      "Suggest verses for a mood.\n\nPreset moods: " + strings.Join(verse.MoodNames(), ", "),
		ValidArgs: verse.MoodNames(),
		Example: `
devo suggest weary
devo suggest "tired but hopeful" --all
devo suggest -i
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := setup()
			if err != nil {
				return oo.HandleError(err)
			}

			mood := strings.Join(args, " ")
			if mood == "" && i.Interactive {
				if mood, err = snake.PickMood(cmd.InOrStdin(), cmd.OutOrStdout(), verse.DefaultMoods()); err != nil {
					return err
				}
			}

			count := so.Count
			if count <= 0 {
				count = e.cfg.SuggestCount
			}
			s := suggest.Suggest{
				Fetcher: e.client,
				Mood:    mood,
				Count:   count,
				Pages:   so.Pages,
				All:     so.All,
				JSON:    oo.JSON,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(s.Do(contextOf(cmd)))
		},
	}

	options.AddSuggestArgs(cmd, so)
	options.InteractiveArgs(cmd, i)
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
