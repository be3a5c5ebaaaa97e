// Package suggest prints verse suggestions for a mood.
package suggest

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/fatih/color"

	perr "tableflip.dev/devo/pkg/errors"
	"tableflip.dev/devo/pkg/printers"
	"tableflip.dev/devo/pkg/reveal"
	"tableflip.dev/devo/pkg/verse"
)

// Fetcher returns suggestions for a mood.
type Fetcher interface {
	Suggest(ctx context.Context, mood string, count int) (verse.List, error)
}

type Suggest struct {
	Fetcher Fetcher
	Mood    string
	Count   int
	// Pages is how many reveal steps to show, at least one.
	Pages int
	All   bool
	JSON  bool
	Out   io.Writer
	Width int
}

type result struct {
	Mood        string     `json:"mood"`
	Total       int        `json:"total"`
	HasMore     bool       `json:"hasMore"`
	Suggestions verse.List `json:"suggestions"`
}

func (s *Suggest) Do(ctx context.Context) error {
	if s.Fetcher == nil {
		return perr.Validationf("can not suggest, no scripture service")
	}
	mood := strings.TrimSpace(s.Mood)
	if mood == "" {
		return perr.Validationf("Please choose a mood")
	}

	list, err := s.Fetcher.Suggest(ctx, mood, s.Count)
	if err != nil {
		return err
	}

	w := reveal.New(reveal.DefaultStep)
	w.Reset(list.Len())
	if s.All {
		for w.HasMore() {
			w.Expand()
		}
	} else {
		for i := 1; i < s.Pages && w.HasMore(); i++ {
			w.Expand()
		}
	}
	visible := list.Head(w.Visible())

	out := s.Out
	if out == nil {
		out = color.Output
	}
	if s.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result{Mood: mood, Total: list.Len(), HasMore: w.HasMore(), Suggestions: visible})
	}

	pp := printers.PrettyPrint{Out: out, Width: s.Width}
	pp.NewLine()
	pp.TitleWithCount(mood, len(visible), list.Len())
	pp.Suggestions(visible)
	if w.HasMore() {
		pp.Notice("use --pages or --all to see more", false)
	}
	return nil
}
