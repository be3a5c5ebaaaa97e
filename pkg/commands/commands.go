package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

var (
	oo = &base.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "devo",
		Short: base.Wrap80("Find verses for how you feel and write devotions around them."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addMoods(topLevel)
	addSuggest(topLevel)
	addVerse(topLevel)
	addGenerate(topLevel)
	addDaily(topLevel)
	addPrivacy(topLevel)
	addDiscover(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
