package commands

import (
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/devo/pkg/commands/options"
	"tableflip.dev/devo/pkg/runner/privacy"
)

func addPrivacy(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "privacy",
		Short: "List devotions and change who can see them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addPrivacyList(cmd)
	addPrivacySet(cmd)

	topLevel.AddCommand(cmd)
}

func addPrivacyList(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List devotions with their visibility.",
		Example: `
devo privacy list
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := setup()
			if err != nil {
				return oo.HandleError(err)
			}
			p := privacy.Privacy{Service: e.client, JSON: oo.JSON, Out: cmd.OutOrStdout(), Logger: e.log}
			return oo.HandleError(p.Do(contextOf(cmd)))
		},
	}

	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addPrivacySet(topLevel *cobra.Command) {
	vo := &options.VisibilityOptions{}

	cmd := &cobra.Command{
		Use:   "set <id> [id...]",
		Short: "Make devotions public or private.",
		Long: base.Wrap80("Make devotions public or private. Several ids are changed " +
			"together in one request; if it fails none of them change."),
		Example: `
devo privacy set 12 --public
devo privacy set 12 13 14 --private
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ids, err := options.ParseIDs(args)
			if err != nil {
				return oo.HandleError(err)
			}
			public, err := vo.MakePublic()
			if err != nil {
				return oo.HandleError(err)
			}
			e, err := setup()
			if err != nil {
				return oo.HandleError(err)
			}
			p := privacy.Privacy{Service: e.client, IDs: ids, Public: public, JSON: oo.JSON, Out: cmd.OutOrStdout(), Logger: e.log}
			return oo.HandleError(p.Do(contextOf(cmd)))
		},
	}

	options.AddVisibilityArgs(cmd, vo)
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
