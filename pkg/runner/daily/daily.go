// Package daily shows the verse of the day from the local cache.
package daily

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	perr "tableflip.dev/devo/pkg/errors"
	"tableflip.dev/devo/pkg/dailyverse"
	"tableflip.dev/devo/pkg/events"
	"tableflip.dev/devo/pkg/printers"
	"tableflip.dev/devo/pkg/store"
)

type Daily struct {
	Fetcher     dailyverse.Fetcher
	Persistence store.Persistence
	Theme       string
	// Refresh replaces today's verse with a new one.
	Refresh bool
	// Calendar prints the month with today marked.
	Calendar bool
	// Follow keeps running and prints every change, including midnight
	// rollovers and writes by other devo processes, until ctx is done.
	Follow bool
	JSON   bool
	Out    io.Writer
	Clock  clockwork.Clock
	Logger *zerolog.Logger
}

func (d *Daily) Do(ctx context.Context) error {
	if d.Persistence == nil {
		return perr.Validationf("can not show daily verse, no persistence")
	}
	clock := d.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	ds := dailyverse.NewDiskStore(d.Persistence)
	stored, ok, _ := ds.Load()
	fresh := !ok || !stored.ValidAt(clock.Now().In(time.Local))

	var bus *events.Bus
	opts := dailyverse.Options{
		Fetcher: d.Fetcher,
		Store:   ds,
		Theme:   d.Theme,
		Clock:   clock,
		Logger:  d.Logger,
		Watch:   d.Follow,
	}
	if d.Follow {
		bus = events.NewBus(16)
		defer bus.Close()
		opts.Sink = bus
	}

	cache, err := dailyverse.New(opts)
	if err != nil {
		return err
	}
	if err := cache.Start(ctx); err != nil {
		return err
	}
	defer cache.Close()

	// Start already fetched when nothing valid was stored.
	if d.Refresh && !fresh {
		if err := cache.Refresh(ctx); err != nil {
			return err
		}
	}

	out := d.Out
	if out == nil {
		out = color.Output
	}
	pp := printers.PrettyPrint{Out: out}

	if !d.Follow {
		if cache.State() != dailyverse.Ready {
			return cache.Err()
		}
		return d.print(&pp, out, cache, clock.Now())
	}

	if err := d.print(&pp, out, cache, clock.Now()); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-bus.Events():
			if !ok {
				return nil
			}
			if _, ok := msg.(events.DailyVerseMsg); !ok {
				continue
			}
			if err := d.print(&pp, out, cache, clock.Now()); err != nil {
				return err
			}
		}
	}
}

type result struct {
	State string           `json:"state"`
	Entry dailyverse.Entry `json:"entry"`
	Error string           `json:"error,omitempty"`
}

func (d *Daily) print(pp *printers.PrettyPrint, out io.Writer, cache *dailyverse.Cache, now time.Time) error {
	state, entry := cache.State(), cache.Entry()
	msg := ""
	if err := cache.Err(); err != nil {
		msg = perr.Message(err)
	}

	if d.JSON {
		return json.NewEncoder(out).Encode(result{State: state.String(), Entry: entry, Error: msg})
	}

	pp.NewLine()
	pp.DailyVerse(state, entry, msg)
	if d.Calendar {
		pp.NewLine()
		pp.Month(now, now)
	}
	return nil
}
