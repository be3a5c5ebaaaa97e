package dailyverse

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	perr "tableflip.dev/devo/pkg/errors"
	"tableflip.dev/devo/pkg/events"
	"tableflip.dev/devo/pkg/slot"
	"tableflip.dev/devo/pkg/verse"
)

// DefaultTheme is the mood used to pick the daily verse.
const DefaultTheme = "encouragement"

// Backstop is the period of the safety timer that re-arms the midnight timer
// in case it was missed (suspend, clock changes).
const Backstop = 24 * time.Hour

// State is the cache lifecycle state.
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
	Unavailable
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Unavailable:
		return "unavailable"
	default:
		return "uninitialized"
	}
}

func stateOf(s slot.Status) State {
	switch s {
	case slot.Loading:
		return Loading
	case slot.Success:
		return Ready
	case slot.Error:
		return Unavailable
	default:
		return Uninitialized
	}
}

// Fetcher supplies verse suggestions for a theme.
type Fetcher interface {
	Suggest(ctx context.Context, mood string, count int) (verse.List, error)
}

// Options configure a Cache. Fetcher and Store are required.
type Options struct {
	Fetcher  Fetcher
	Store    Store
	Theme    string
	Clock    clockwork.Clock
	Location *time.Location
	Sink     events.Sink
	Logger   *zerolog.Logger
	// Watch follows writes by other processes when Store implements Watcher.
	Watch bool
}

// Cache is the daily verse cache. Start it once and Close it when done.
type Cache struct {
	fetch Fetcher
	store Store
	theme string
	clock clockwork.Clock
	loc   *time.Location
	sink  events.Sink
	log   zerolog.Logger
	watch bool

	slot *slot.Slot[verse.Suggestion]

	mu       sync.Mutex
	entry    Entry
	started  bool
	closed   bool
	midnight clockwork.Timer
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New builds an Uninitialized cache.
func New(opts Options) (*Cache, error) {
	if opts.Fetcher == nil || opts.Store == nil {
		return nil, perr.Validationf("dailyverse: fetcher and store required")
	}
	c := &Cache{
		fetch: opts.Fetcher,
		store: opts.Store,
		theme: opts.Theme,
		clock: opts.Clock,
		loc:   opts.Location,
		sink:  opts.Sink,
		log:   zerolog.Nop(),
		watch: opts.Watch,
		slot:  slot.New[verse.Suggestion]("daily-verse"),
	}
	if c.theme == "" {
		c.theme = DefaultTheme
	}
	if c.clock == nil {
		c.clock = clockwork.NewRealClock()
	}
	if c.loc == nil {
		c.loc = time.Local
	}
	if c.sink == nil {
		c.sink = events.Discard
	}
	if opts.Logger != nil {
		c.log = opts.Logger.With().Str("component", "daily-verse").Logger()
	}
	return c, nil
}

// Start mounts the cache. A valid stored entry is served without any request;
// otherwise one verse is fetched before Start returns. Either way the midnight
// and backstop timers are armed. A failed fetch leaves the cache Unavailable,
// it is not returned as an error.
func (c *Cache) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started || c.closed {
		c.mu.Unlock()
		return perr.Validationf("dailyverse: already started or closed")
	}
	c.started = true
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	now := c.now()
	e, ok, err := c.store.Load()
	if err != nil {
		c.log.Warn().Err(err).Msg("stored entry unreadable")
	}
	if ok && e.ValidAt(now) {
		c.adopt(e)
		c.log.Debug().Str("date", e.DateKey).Msg("serving stored entry")
	} else {
		_ = c.refresh(c.ctx)
	}

	c.armMidnight()

	ticker := c.clock.NewTicker(Backstop)
	c.wg.Add(1)
	go c.backstop(ticker)

	if w, ok := c.store.(Watcher); ok && c.watch {
		changes, err := w.Changes(c.ctx)
		if err != nil {
			c.log.Warn().Err(err).Msg("cannot follow other writers")
		} else {
			c.wg.Add(1)
			go c.follow(changes)
		}
	}
	return nil
}

// Refresh fetches a new verse and overwrites the stored entry. It is only
// allowed once the cache has settled (Ready or Unavailable).
func (c *Cache) Refresh(ctx context.Context) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return perr.Validationf("dailyverse: cache closed")
	}
	if c.State() == Uninitialized {
		return perr.Validationf("dailyverse: refresh before start")
	}
	tok, err := c.slot.TryBegin()
	if err != nil {
		return perr.Busyf("The daily verse is already loading")
	}
	return c.fetchEntry(ctx, tok)
}

// State returns the lifecycle state.
func (c *Cache) State() State {
	return stateOf(c.slot.Status())
}

// Entry returns the entry currently served. It is only meaningful in Ready.
func (c *Cache) Entry() Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry
}

// Err is the last fetch failure while Unavailable.
func (c *Cache) Err() error {
	return c.slot.Snapshot().Err
}

// Close stops both timers, stops following other writers and waits for any
// timer-driven refresh to return. It is safe to call more than once.
func (c *Cache) Close() {
	c.mu.Lock()
	c.stopLocked()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

func (c *Cache) stopLocked() {
	c.closed = true
	if c.midnight != nil {
		c.midnight.Stop()
		c.midnight = nil
	}
}

func (c *Cache) now() time.Time {
	return c.clock.Now().In(c.loc)
}

func (c *Cache) refresh(ctx context.Context) error {
	return c.fetchEntry(ctx, c.slot.Begin())
}

func (c *Cache) fetchEntry(ctx context.Context, tok slot.Token) error {
	c.sink.Emit(events.DailyVerseMsg{State: Loading.String()})

	list, err := c.fetch.Suggest(ctx, c.theme, 1)
	if err == nil && list.Len() == 0 {
		err = perr.NotFoundf("No verse available for %q", c.theme)
	}
	if err != nil {
		if c.slot.Complete(tok, verse.Suggestion{}, err) {
			c.log.Warn().Err(err).Msg("daily verse unavailable")
			c.sink.Emit(events.DailyVerseMsg{State: Unavailable.String(), Error: perr.Message(err)})
		}
		return err
	}

	now := c.now()
	e := Entry{
		Verse:     list[0],
		Theme:     c.theme,
		DateKey:   DateKey(now),
		Timestamp: now,
	}
	if !c.slot.Complete(tok, e.Verse, nil) {
		return nil
	}
	c.mu.Lock()
	c.entry = e
	c.mu.Unlock()
	if err := c.store.Save(e); err != nil {
		c.log.Warn().Err(err).Msg("daily verse not persisted")
	}
	c.log.Debug().Str("date", e.DateKey).Str("reference", e.Verse.Reference).Msg("daily verse refreshed")
	c.sink.Emit(events.DailyVerseMsg{State: Ready.String(), Verse: e.Verse, DateKey: e.DateKey})
	return nil
}

func (c *Cache) adopt(e Entry) {
	c.mu.Lock()
	c.entry = e
	c.mu.Unlock()
	c.slot.Resolve(e.Verse)
	c.sink.Emit(events.DailyVerseMsg{State: Ready.String(), Verse: e.Verse, DateKey: e.DateKey})
}

// armMidnight (re)arms the one-shot timer for the next local midnight.
func (c *Cache) armMidnight() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.midnight != nil {
		c.midnight.Stop()
	}
	now := c.now()
	c.midnight = c.clock.AfterFunc(NextMidnight(now).Sub(now), c.onMidnight)
}

func (c *Cache) onMidnight() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()
	defer c.wg.Done()

	c.armMidnight()
	c.log.Debug().Msg("midnight refresh")
	_ = c.refresh(c.ctx)
}

func (c *Cache) backstop(ticker clockwork.Ticker) {
	defer c.wg.Done()
	defer ticker.Stop()
	for {
		select {
		case <-c.ctx.Done():
			c.mu.Lock()
			c.stopLocked()
			c.mu.Unlock()
			return
		case <-ticker.Chan():
			c.armMidnight()
			if c.stale() {
				c.log.Debug().Msg("backstop refresh")
				_ = c.refresh(c.ctx)
			}
		}
	}
}

// stale reports whether the served day is over and nothing is loading.
func (c *Cache) stale() bool {
	if c.State() == Loading {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry.DateKey != DateKey(c.now())
}

func (c *Cache) follow(changes <-chan struct{}) {
	defer c.wg.Done()
	for {
		select {
		case <-c.ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			e, found, err := c.store.Load()
			if err != nil || !found || !e.ValidAt(c.now()) {
				continue
			}
			if cur := c.Entry(); cur.Same(e) {
				continue
			}
			c.log.Debug().Str("date", e.DateKey).Msg("entry written by another process")
			c.adopt(e)
		}
	}
}
