package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	perr "tableflip.dev/devo/pkg/errors"
	"tableflip.dev/devo/pkg/config"
	"tableflip.dev/devo/pkg/dailyverse"
	"tableflip.dev/devo/pkg/store"
)

type Info struct {
	Config      *config.Config
	Persistence store.Persistence
	Out         io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("DEVO_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "DEVO_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "DEVO_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		if n.Config, err = config.Load(); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(out, "Config.path:   ", n.Config.BasePath())
	_, _ = fmt.Fprintln(out, "Service.url:   ", n.Config.ServiceURL)
	_, _ = fmt.Fprintln(out, "Service.token: ", tokenState(n.Config.ServiceToken))
	_, _ = fmt.Fprintln(out, "Daily.theme:   ", n.Config.DailyTheme)

	if n.Persistence == nil {
		return perr.Validationf("Failed to create persistence object.")
	}

	_, _ = fmt.Fprintln(out, "Daily verse:")
	e, ok, err := dailyverse.NewDiskStore(n.Persistence).Load()
	switch {
	case err != nil:
		_, _ = fmt.Fprintf(out, "  unreadable: %s\n", perr.Message(err))
	case !ok:
		_, _ = fmt.Fprintln(out, "  none stored")
	default:
		_, _ = fmt.Fprintf(out, "  %s %s (%s)\n", e.DateKey, e.Verse.Reference, e.Theme)
	}

	keys := n.Persistence.Keys(ctx, dailyverse.Bucket)
	_, _ = fmt.Fprintf(out, "Stored documents in %q: %d\n", dailyverse.Bucket, len(keys))
	return nil
}

func tokenState(tok string) string {
	if tok == "" {
		return "not set"
	}
	return "set"
}
