// Package moods prints the preset moods offered by pickers.
package moods

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/devo/pkg/verse"
)

// Moods prints the preset moods as a table.
type Moods struct {
	Out io.Writer
}

func (k *Moods) Do(_ context.Context) error {
	out := k.Out
	if out == nil {
		out = color.Output
	}
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("", bold.Sprint("Mood"), bold.Sprint("Try"))
	for _, m := range verse.DefaultMoods() {
		tbl.AddRow(m.Emoji, m.Name, "devo suggest "+m.Name)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(out, "")
	_, _ = fmt.Fprintln(out, tbl)
	_, _ = fmt.Fprintln(out, "")
	_, _ = fmt.Fprintln(out, "Any other words work too: devo suggest \"tired but hopeful\"")
	return nil
}
