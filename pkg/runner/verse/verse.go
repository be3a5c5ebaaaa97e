// Package verse prints the text of a scripture reference.
package verse

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/fatih/color"

	perr "tableflip.dev/devo/pkg/errors"
	"tableflip.dev/devo/pkg/printers"
)

// Fetcher looks up verse text.
type Fetcher interface {
	VerseContent(ctx context.Context, reference string) (string, error)
}

type Verse struct {
	Fetcher   Fetcher
	Reference string
	JSON      bool
	Out       io.Writer
	Width     int
}

func (v *Verse) Do(ctx context.Context) error {
	if v.Fetcher == nil {
		return perr.Validationf("can not look up verse, no scripture service")
	}
	ref := strings.TrimSpace(v.Reference)
	if ref == "" {
		return perr.Validationf("Please provide a verse reference")
	}

	text, err := v.Fetcher.VerseContent(ctx, ref)
	if err != nil {
		return err
	}

	out := v.Out
	if out == nil {
		out = color.Output
	}
	if v.JSON {
		return json.NewEncoder(out).Encode(map[string]string{"reference": ref, "content": text})
	}
	pp := printers.PrettyPrint{Out: out, Width: v.Width}
	pp.NewLine()
	pp.Verse(ref, text)
	return nil
}
