// Package teaui is the interactive discover page: mood suggestions, verse
// lookup and devotion generation, with the verse of the day on top.
package teaui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"tableflip.dev/devo/pkg/dailyverse"
	"tableflip.dev/devo/pkg/discover"
	"tableflip.dev/devo/pkg/events"
	"tableflip.dev/devo/pkg/store"
)

// Discover runs the discover page until the user quits or ctx is done.
type Discover struct {
	Fetcher discover.Fetcher
	Count   int
	Delays  *discover.Delays
	// Persistence enables the verse of the day header when set.
	Persistence store.Persistence
	Theme       string
	Logger      *zerolog.Logger
	In          io.Reader
	Out         io.Writer
}

func (d *Discover) Do(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := events.NewBus(0)
	defer bus.Close()

	sess, err := discover.New(ctx, discover.Options{
		Fetcher: d.Fetcher,
		Count:   d.Count,
		Delays:  d.Delays,
		Sink:    bus,
		Logger:  d.Logger,
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	var daily DailyVerse
	if d.Persistence != nil {
		cache, err := dailyverse.New(dailyverse.Options{
			Fetcher: d.Fetcher,
			Store:   dailyverse.NewDiskStore(d.Persistence),
			Theme:   d.Theme,
			Sink:    bus,
			Logger:  d.Logger,
			Watch:   true,
		})
		if err != nil {
			return err
		}
		// Start fetches synchronously; run it behind the UI.
		started := make(chan struct{})
		go func() {
			defer close(started)
			_ = cache.Start(ctx)
		}()
		defer func() {
			cancel()
			<-started
			cache.Close()
		}()
		daily = cache
	}

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if d.In != nil {
		opts = append(opts, tea.WithInput(d.In))
	}
	if d.Out != nil {
		opts = append(opts, tea.WithOutput(d.Out))
	}
	_, err = tea.NewProgram(New(sess, daily, bus.Events()).WithContext(ctx), opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
