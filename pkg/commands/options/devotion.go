package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/devo/pkg/verse"
)

// DevotionOptions
type DevotionOptions struct {
	verse.DevotionRequest
	Lookup bool
}

func AddDevotionArgs(cmd *cobra.Command, o *DevotionOptions) {
	cmd.Flags().StringVarP(&o.Mood, "mood", "m", "",
		"The mood the devotion speaks to.")
	cmd.Flags().StringVarP(&o.Content, "content", "c", "",
		"The verse text, looked up from the reference when empty.")
	cmd.Flags().BoolVar(&o.Lookup, "lookup", true,
		"Look up the verse text when --content is not given.")
}
