package options

import (
	"strconv"

	"github.com/spf13/cobra"

	perr "tableflip.dev/devo/pkg/errors"
)

// VisibilityOptions
type VisibilityOptions struct {
	Public  bool
	Private bool
}

func AddVisibilityArgs(cmd *cobra.Command, o *VisibilityOptions) {
	cmd.Flags().BoolVar(&o.Public, "public", false,
		"Make the devotions public.")
	cmd.Flags().BoolVar(&o.Private, "private", false,
		"Make the devotions private.")
	cmd.MarkFlagsMutuallyExclusive("public", "private")
}

// MakePublic resolves the flags; exactly one must be set.
func (o *VisibilityOptions) MakePublic() (bool, error) {
	if o.Public == o.Private {
		return false, perr.Validationf("choose one of --public or --private")
	}
	return o.Public, nil
}

// ParseIDs turns devotion ids given as arguments into numbers.
func ParseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil || id <= 0 {
			return nil, perr.Validationf("%q is not a devotion id", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
