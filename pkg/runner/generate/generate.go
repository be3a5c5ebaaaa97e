// Package generate asks the scripture service for a devotion and renders it.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	perr "tableflip.dev/devo/pkg/errors"
	"tableflip.dev/devo/pkg/printers"
	"tableflip.dev/devo/pkg/verse"
)

// Fetcher generates devotions. VerseContent fills in missing verse text.
type Fetcher interface {
	VerseContent(ctx context.Context, reference string) (string, error)
	GenerateDevotion(ctx context.Context, req verse.DevotionRequest) (verse.Devotion, error)
}

type Generate struct {
	Fetcher Fetcher
	Request verse.DevotionRequest
	// Lookup fetches the verse text when Request.Content is empty.
	Lookup bool
	JSON   bool
	Out    io.Writer
	Width  int
	Style  string
}

func (g *Generate) Do(ctx context.Context) error {
	if g.Fetcher == nil {
		return perr.Validationf("can not generate, no scripture service")
	}
	req := g.Request.Normalize()

	if g.Lookup && req.Content == "" && req.Reference != "" {
		text, err := g.Fetcher.VerseContent(ctx, req.Reference)
		if err != nil {
			return err
		}
		req.Content = text
	}

	if missing := req.Missing(); len(missing) > 0 {
		return perr.Validationf("Please provide %s before generating a devotion", strings.Join(missing, ", "))
	}

	d, err := g.Fetcher.GenerateDevotion(ctx, req)
	if err != nil {
		return err
	}

	out := g.Out
	if out == nil {
		out = color.Output
	}
	if g.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			verse.DevotionRequest
			Devotion verse.Devotion `json:"devotion"`
		}{req, d})
	}

	pp := printers.PrettyPrint{Out: out, Width: g.Width, Style: g.Style}
	if err := pp.Devotion(d); err != nil {
		return fmt.Errorf("render devotion: %w", err)
	}
	return nil
}
