// Package privacy lists devotions and changes their visibility.
package privacy

import (
	"context"
	"encoding/json"
	"io"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	perr "tableflip.dev/devo/pkg/errors"
	"tableflip.dev/devo/pkg/printers"
	"tableflip.dev/devo/pkg/privacy"
	"tableflip.dev/devo/pkg/verse"
)

// Service lists devotions and persists visibility changes.
type Service interface {
	privacy.Persister
	ListDevotions(ctx context.Context) ([]verse.PrivacyRecord, error)
}

// Privacy makes IDs public or private. With no IDs it only lists.
type Privacy struct {
	Service Service
	IDs     []int64
	Public  bool
	JSON    bool
	Out     io.Writer
	Logger  *zerolog.Logger
}

type result struct {
	Message string                `json:"message,omitempty"`
	Counts  privacy.Counts        `json:"counts"`
	Records []verse.PrivacyRecord `json:"devotions"`
}

func (p *Privacy) Do(ctx context.Context) error {
	if p.Service == nil {
		return perr.Validationf("can not change privacy, no scripture service")
	}
	records, err := p.Service.ListDevotions(ctx)
	if err != nil {
		return err
	}
	c, err := privacy.New(privacy.Options{Persister: p.Service, Records: records, Logger: p.Logger})
	if err != nil {
		return err
	}

	var msg string
	switch len(p.IDs) {
	case 0:
	case 1:
		msg, err = c.SetPrivacy(ctx, p.IDs[0], p.Public)
	default:
		msg, err = c.BulkSetPrivacy(ctx, p.IDs, p.Public)
	}
	if err != nil {
		return err
	}

	out := p.Out
	if out == nil {
		out = color.Output
	}
	if p.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result{Message: msg, Counts: c.Counts(), Records: c.Records()})
	}

	pp := printers.PrettyPrint{Out: out}
	pp.NewLine()
	pp.Privacy(c.Records(), c.Counts())
	if msg != "" {
		pp.NewLine()
		pp.Notice(msg, false)
	}
	return nil
}
