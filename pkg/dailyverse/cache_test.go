package dailyverse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/goleak"

	perr "tableflip.dev/devo/pkg/errors"
	"tableflip.dev/devo/pkg/store"
	"tableflip.dev/devo/pkg/verse"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	err   error
	empty bool
	gate  chan struct{}
}

func (f *fakeFetcher) Suggest(ctx context.Context, mood string, count int) (verse.List, error) {
	f.mu.Lock()
	f.calls++
	n, err, empty, gate := f.calls, f.err, f.empty, f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if empty {
		return verse.List{}, nil
	}
	return verse.List{{Reference: fmt.Sprintf("%s %d", mood, n), Preview: "Be strong and courageous"}}, nil
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeFetcher) set(fn func(f *fakeFetcher)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

type memStore struct {
	mu    sync.Mutex
	entry *Entry
	saves int
}

func (m *memStore) Load() (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entry == nil {
		return Entry{}, false, nil
	}
	return *m.entry, true, nil
}

func (m *memStore) Save(e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry = &e
	m.saves++
	return nil
}

func (m *memStore) stored() Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entry == nil {
		return Entry{}
	}
	return *m.entry
}

var day1 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newCache(t *testing.T, f Fetcher, s Store, clk clockwork.Clock) *Cache {
	t.Helper()
	c, err := New(Options{Fetcher: f, Store: s, Clock: clk, Location: time.UTC})
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStartFetchesWhenNothingStored(t *testing.T) {
	f := &fakeFetcher{}
	s := &memStore{}
	c := newCache(t, f, s, clockwork.NewFakeClockAt(day1))

	if got := c.State(); got != Uninitialized {
		t.Fatalf("expected uninitialized before start, got %s", got)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := c.State(); got != Ready {
		t.Fatalf("expected ready, got %s", got)
	}
	if f.Calls() != 1 {
		t.Fatalf("expected one fetch, got %d", f.Calls())
	}
	e := s.stored()
	if e.DateKey != "2026-03-10" || e.Theme != DefaultTheme || e.Verse.Reference != "encouragement 1" {
		t.Fatalf("unexpected stored entry %+v", e)
	}
}

func TestRemountSameDayMakesNoRequest(t *testing.T) {
	f := &fakeFetcher{}
	s := &memStore{}
	clk := clockwork.NewFakeClockAt(day1)

	first := newCache(t, f, s, clk)
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	first.Close()

	clk.Advance(3 * time.Hour)
	second := newCache(t, f, s, clk)
	if err := second.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if f.Calls() != 1 {
		t.Fatalf("remount on the same day must not fetch, calls=%d", f.Calls())
	}
	if second.State() != Ready || second.Entry().Verse.Reference != "encouragement 1" {
		t.Fatalf("expected the stored verse, got %s %+v", second.State(), second.Entry())
	}
}

func TestNextDayRefetchesAndOverwrites(t *testing.T) {
	f := &fakeFetcher{}
	s := &memStore{entry: &Entry{
		Verse:     verse.Suggestion{Reference: "Joshua 1:9", Preview: "Be strong"},
		Theme:     DefaultTheme,
		DateKey:   "2026-03-10",
		Timestamp: day1,
	}}
	c := newCache(t, f, s, clockwork.NewFakeClockAt(day1.Add(24*time.Hour)))

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if f.Calls() != 1 {
		t.Fatalf("expected exactly one fetch, got %d", f.Calls())
	}
	if e := s.stored(); e.DateKey != "2026-03-11" || e.Verse.Reference == "Joshua 1:9" {
		t.Fatalf("expected the entry to be overwritten, got %+v", e)
	}
}

func TestMidnightTimerForcesRefresh(t *testing.T) {
	f := &fakeFetcher{}
	s := &memStore{}
	clk := clockwork.NewFakeClockAt(time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC))
	c := newCache(t, f, s, clk)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := clk.BlockUntilContext(ctx, 2); err != nil {
		t.Fatalf("timers not armed: %v", err)
	}

	clk.Advance(time.Minute)
	eventually(t, "midnight refresh", func() bool {
		return f.Calls() == 2 && c.State() == Ready && c.Entry().DateKey == "2026-03-11"
	})
	if e := s.stored(); e.DateKey != "2026-03-11" {
		t.Fatalf("expected refreshed entry to be stored, got %+v", e)
	}
}

func TestBackstopKeepsDayCurrent(t *testing.T) {
	f := &fakeFetcher{}
	clk := clockwork.NewFakeClockAt(day1)
	c := newCache(t, f, &memStore{}, clk)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := clk.BlockUntilContext(ctx, 2); err != nil {
		t.Fatalf("timers not armed: %v", err)
	}

	clk.Advance(Backstop)
	eventually(t, "next day entry", func() bool {
		return c.State() == Ready && c.Entry().DateKey == "2026-03-11"
	})
	if f.Calls() < 2 {
		t.Fatalf("expected a refresh, calls=%d", f.Calls())
	}
}

func TestFetchFailureIsUnavailable(t *testing.T) {
	f := &fakeFetcher{err: perr.New(perr.KindFetch, "Failed to fetch verse suggestions")}
	s := &memStore{}
	c := newCache(t, f, s, clockwork.NewFakeClockAt(day1))

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if c.State() != Unavailable {
		t.Fatalf("expected unavailable, got %s", c.State())
	}
	if perr.Message(c.Err()) != "Failed to fetch verse suggestions" {
		t.Fatalf("unexpected error %v", c.Err())
	}
	if s.saves != 0 {
		t.Fatalf("a failed fetch must not write the cache")
	}
}

func TestEmptyResultIsUnavailable(t *testing.T) {
	f := &fakeFetcher{empty: true}
	c := newCache(t, f, &memStore{}, clockwork.NewFakeClockAt(day1))

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if c.State() != Unavailable || !perr.Is(c.Err(), perr.KindNotFound) {
		t.Fatalf("expected unavailable with NotFound, got %s %v", c.State(), c.Err())
	}
}

func TestManualRefresh(t *testing.T) {
	f := &fakeFetcher{}
	s := &memStore{}
	c := newCache(t, f, s, clockwork.NewFakeClockAt(day1))

	if err := c.Refresh(context.Background()); !perr.Is(err, perr.KindValidation) {
		t.Fatalf("refresh before start: expected ValidationError, got %v", err)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Ready: refresh always fetches, even though the entry is still valid.
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if f.Calls() != 2 || s.stored().Verse.Reference != "encouragement 2" {
		t.Fatalf("expected overwrite by second fetch, calls=%d entry=%+v", f.Calls(), s.stored())
	}

	// Unavailable: refresh is allowed and recovers.
	f.set(func(f *fakeFetcher) { f.err = errors.New("offline") })
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh error")
	}
	if c.State() != Unavailable {
		t.Fatalf("expected unavailable, got %s", c.State())
	}
	f.set(func(f *fakeFetcher) { f.err = nil })
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if c.State() != Ready {
		t.Fatalf("expected ready, got %s", c.State())
	}
}

func TestRefreshWhileLoadingIsRejected(t *testing.T) {
	f := &fakeFetcher{}
	c := newCache(t, f, &memStore{}, clockwork.NewFakeClockAt(day1))
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	gate := make(chan struct{})
	f.set(func(f *fakeFetcher) { f.gate = gate })
	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background()) }()

	eventually(t, "loading", func() bool { return c.State() == Loading })
	if err := c.Refresh(context.Background()); !perr.Is(err, perr.KindBusy) {
		t.Fatalf("expected BusyError while loading, got %v", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if f.Calls() != 2 {
		t.Fatalf("rejected refresh must not fetch, calls=%d", f.Calls())
	}
}

func TestCloseReleasesTimers(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c, err := New(Options{Fetcher: &fakeFetcher{}, Store: &memStore{}})
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	c.Close()
	c.Close()

	if err := c.Refresh(context.Background()); err == nil {
		t.Fatalf("refresh after close must fail")
	}
}

func TestContextCancellationReleasesTimers(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	c, err := New(Options{Fetcher: &fakeFetcher{}, Store: &memStore{}})
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	cancel()
	c.Close()
}

func TestFollowsOtherWriters(t *testing.T) {
	base := t.TempDir()
	p, err := store.Load(store.Dir(base))
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	clk := clockwork.NewFakeClockAt(day1)
	c, err := New(Options{
		Fetcher:  &fakeFetcher{},
		Store:    NewDiskStore(p),
		Clock:    clk,
		Location: time.UTC,
		Watch:    true,
	})
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	defer c.Close()
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before writing.
	time.Sleep(50 * time.Millisecond)

	other, err := store.Load(store.Dir(base))
	if err != nil {
		t.Fatalf("load other store: %v", err)
	}
	written := Entry{
		Verse:     verse.Suggestion{Reference: "Isaiah 41:10", Preview: "Fear not, for I am with you"},
		Theme:     DefaultTheme,
		DateKey:   "2026-03-10",
		Timestamp: day1.Add(time.Minute),
	}
	if err := NewDiskStore(other).Save(written); err != nil {
		t.Fatalf("save: %v", err)
	}

	eventually(t, "entry from other writer", func() bool {
		return c.Entry().Verse.Reference == "Isaiah 41:10"
	})
}

func TestEntryValidity(t *testing.T) {
	fetched := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	e := Entry{DateKey: DateKey(fetched), Timestamp: fetched}

	if !e.ValidAt(fetched.Add(30 * time.Minute)) {
		t.Fatalf("entry should be valid before midnight")
	}
	if e.ValidAt(fetched.Add(90 * time.Minute)) {
		t.Fatalf("entry must be invalid after the next midnight")
	}
	if (Entry{}).ValidAt(fetched) {
		t.Fatalf("zero entry must be invalid")
	}
	if got := NextMidnight(time.Date(2026, 12, 31, 12, 0, 0, 0, time.UTC)); !got.Equal(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected next midnight %s", got)
	}
}

func TestEntryTimestampIsEpochMillis(t *testing.T) {
	fetched := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	b, err := json.Marshal(Entry{DateKey: "2026-03-10", Timestamp: fetched})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got, ok := raw["timestamp"].(float64); !ok || int64(got) != fetched.UnixMilli() {
		t.Fatalf("expected epoch milliseconds, got %s", b)
	}

	var e Entry
	if err := json.Unmarshal(b, &e); err != nil || !e.Timestamp.Equal(fetched) {
		t.Fatalf("expected %s back, got %s (%v)", fetched, e.Timestamp, err)
	}

	var old Entry
	if err := json.Unmarshal([]byte(`{"dateKey":"2026-03-10","timestamp":"2026-03-10T09:30:00Z"}`), &old); err != nil || !old.Timestamp.Equal(fetched) {
		t.Fatalf("expected RFC 3339 timestamps to load, got %s (%v)", old.Timestamp, err)
	}
}
