package options

import (
	"github.com/spf13/cobra"
)

// SuggestOptions
type SuggestOptions struct {
	Count int
	Pages int
	All   bool
}

func AddSuggestArgs(cmd *cobra.Command, o *SuggestOptions) {
	cmd.Flags().IntVarP(&o.Count, "count", "n", 0,
		"How many verses to ask for, defaults to suggest.count.")
	cmd.Flags().IntVarP(&o.Pages, "pages", "p", 1,
		"How many pages of five to show.")
	cmd.Flags().BoolVarP(&o.All, "all", "a", false,
		"Show every suggestion.")
}
