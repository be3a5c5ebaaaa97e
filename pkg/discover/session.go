// Package discover is the page-level discovery session. It turns mood clicks,
// mood typing and reference typing into debounced, token-guarded requests and
// exposes the resulting state to renderers.
package discover

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"tableflip.dev/devo/pkg/debounce"
	perr "tableflip.dev/devo/pkg/errors"
	"tableflip.dev/devo/pkg/events"
	"tableflip.dev/devo/pkg/reveal"
	"tableflip.dev/devo/pkg/slot"
	"tableflip.dev/devo/pkg/verse"
)

// DefaultCount is how many suggestions are requested per mood.
const DefaultCount = 10

// Fetcher is the scripture service as the session uses it.
type Fetcher interface {
	Suggest(ctx context.Context, mood string, count int) (verse.List, error)
	VerseContent(ctx context.Context, reference string) (string, error)
	GenerateDevotion(ctx context.Context, req verse.DevotionRequest) (verse.Devotion, error)
}

// Delays are the debounce intervals per input.
type Delays struct {
	Search    time.Duration
	Custom    time.Duration
	Reference time.Duration
}

// DefaultDelays returns the standard intervals.
func DefaultDelays() Delays {
	return Delays{
		Search:    debounce.SearchDelay,
		Custom:    debounce.CustomDelay,
		Reference: debounce.ReferenceDelay,
	}
}

// Options configure a Session. Fetcher is required.
type Options struct {
	Fetcher Fetcher
	Count   int
	Step    int
	Delays  *Delays
	Clock   clockwork.Clock
	Sink    events.Sink
	Logger  *zerolog.Logger
}

// Session owns every piece of discovery state for one page. It is safe for
// concurrent use. Close releases its timers and waits for in-flight work.
type Session struct {
	fetch  Fetcher
	count  int
	delays Delays
	sink   events.Sink
	log    zerolog.Logger

	suggestions *slot.Slot[verse.List]
	content     *slot.Slot[string]
	devotion    *slot.Slot[verse.Devotion]
	window      *reveal.Window

	search    *debounce.Scheduler
	custom    *debounce.Scheduler
	reference *debounce.Scheduler

	mu     sync.Mutex
	mood   string
	ref    string
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds an idle session bound to ctx.
func New(ctx context.Context, opts Options) (*Session, error) {
	if opts.Fetcher == nil {
		return nil, perr.Validationf("discover: fetcher required")
	}
	s := &Session{
		fetch:       opts.Fetcher,
		count:       opts.Count,
		delays:      DefaultDelays(),
		sink:        opts.Sink,
		log:         zerolog.Nop(),
		suggestions: slot.New[verse.List]("suggestions"),
		content:     slot.New[string]("verse-content"),
		devotion:    slot.New[verse.Devotion]("devotion"),
		window:      reveal.New(opts.Step),
		search:      debounce.New(opts.Clock),
		custom:      debounce.New(opts.Clock),
		reference:   debounce.New(opts.Clock),
	}
	if s.count <= 0 {
		s.count = DefaultCount
	}
	if opts.Delays != nil {
		s.delays = *opts.Delays
	}
	if s.sink == nil {
		s.sink = events.Discard
	}
	if opts.Logger != nil {
		s.log = opts.Logger.With().Str("component", "discover").Logger()
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	return s, nil
}

// SelectMood is an explicit mood click. An empty mood clears the suggestions
// without a request. Selecting the current mood again clears the selection,
// unless its request is still loading, in which case the click is rejected
// with a Busy error. Any other mood supersedes the current request.
func (s *Session) SelectMood(mood string) error {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		s.ClearMood()
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errClosed
	}
	if mood == s.mood {
		if s.suggestions.Status() == slot.Loading {
			s.mu.Unlock()
			return perr.WithOp(perr.Busyf("Suggestions for %q are already loading", mood), "select-mood")
		}
		s.mu.Unlock()
		s.ClearMood()
		return nil
	}
	tok := s.beginMoodLocked(mood)
	s.mu.Unlock()

	s.querySuggestions(tok, mood)
	return nil
}

// SearchMood is free-text mood typing that names a known mood. The query runs
// once the input has been quiet for the search delay, with the last value
// typed. It replaces any pending custom mood query.
func (s *Session) SearchMood(text string) {
	s.custom.Cancel()
	s.debounceMood(s.search, s.delays.Search, text)
}

// CustomMood is the custom mood field. Once quiet it follows the same path as
// a click. Emptying the field cancels the pending query and ignores any
// response still in flight. It replaces any pending search query.
func (s *Session) CustomMood(text string) {
	s.search.Cancel()
	s.debounceMood(s.custom, s.delays.Custom, text)
}

func (s *Session) debounceMood(d *debounce.Scheduler, delay time.Duration, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		d.Cancel()
		s.ClearMood()
		return
	}
	d.Schedule(func() {
		s.mu.Lock()
		if s.closed || (text == s.mood && s.suggestions.Status() != slot.Idle) {
			s.mu.Unlock()
			return
		}
		tok := s.beginMoodLocked(text)
		s.mu.Unlock()
		s.querySuggestions(tok, text)
	}, delay)
}

// beginMoodLocked selects mood and begins its request in one step, so the
// selected mood always owns the current suggestions token. s.mu must be held.
func (s *Session) beginMoodLocked(mood string) slot.Token {
	s.mood = mood
	return s.suggestions.Begin()
}

// ClearMood drops the selection and its suggestions. Responses to requests
// begun earlier are ignored.
func (s *Session) ClearMood() {
	s.search.Cancel()
	s.custom.Cancel()
	s.mu.Lock()
	s.mood = ""
	s.suggestions.Clear()
	s.mu.Unlock()
	s.window.Reset(0)
	s.emitSlot(events.Suggestions, slot.Idle, nil)
	s.sink.Emit(events.SuggestionsMsg{})
}

func (s *Session) querySuggestions(tok slot.Token, mood string) {
	s.emitSlot(events.Suggestions, slot.Loading, nil)
	s.log.Debug().Str("mood", mood).Msg("fetching suggestions")

	s.spawn(func(ctx context.Context) {
		list, err := s.fetch.Suggest(ctx, mood, s.count)
		if !s.suggestions.Complete(tok, list, err) {
			s.log.Debug().Str("mood", mood).Msg("stale suggestions ignored")
			return
		}
		if err != nil {
			s.window.Reset(0)
			s.fail(events.Suggestions, err)
			return
		}
		s.window.Reset(list.Len())
		s.emitSlot(events.Suggestions, slot.Success, nil)
		s.emitSuggestions()
	})
}

// Expand reveals one more page of suggestions.
func (s *Session) Expand() int {
	n := s.window.Expand()
	s.emitSuggestions()
	return n
}

// Collapse returns to the first page of suggestions.
func (s *Session) Collapse() int {
	n := s.window.Collapse()
	s.emitSuggestions()
	return n
}

// TypeReference is the reference field. Once quiet, the verse text is looked
// up. A blank reference clears the content without a request. Editing the
// reference clears a previous lookup or generation error.
func (s *Session) TypeReference(text string) {
	text = strings.TrimSpace(text)
	s.mu.Lock()
	s.ref = text
	s.mu.Unlock()

	s.clearError(s.content.Status, s.content.Clear, events.Content)
	s.clearError(s.devotion.Status, s.devotion.Clear, events.Devotion)
	if text == "" {
		s.reference.Cancel()
		s.content.Clear()
		s.emitSlot(events.Content, slot.Idle, nil)
		return
	}
	s.reference.Schedule(func() { s.lookup(text) }, s.delays.Reference)
}

func (s *Session) lookup(ref string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	tok := s.content.Begin()
	s.emitSlot(events.Content, slot.Loading, nil)
	s.spawn(func(ctx context.Context) {
		text, err := s.fetch.VerseContent(ctx, ref)
		if !s.content.Complete(tok, text, err) {
			return
		}
		if err != nil {
			s.fail(events.Content, err)
			return
		}
		s.emitSlot(events.Content, slot.Success, nil)
	})
}

// SetContent replaces the verse text by hand. It clears a previous generation
// error.
func (s *Session) SetContent(text string) {
	s.content.Resolve(strings.TrimSpace(text))
	s.emitSlot(events.Content, slot.Success, nil)
	s.clearError(s.devotion.Status, s.devotion.Clear, events.Devotion)
}

func (s *Session) clearError(status func() slot.Status, clear func(), c events.ComponentID) {
	if status() != slot.Error {
		return
	}
	clear()
	s.emitSlot(c, slot.Idle, nil)
}

// Generate asks for a devotion on the current reference, content and mood.
// Missing inputs fail immediately with a Validation error and no request; a
// click while generating is rejected with a Busy error.
func (s *Session) Generate() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errClosed
	}
	req := verse.DevotionRequest{
		Reference: s.ref,
		Content:   s.content.Snapshot().Value,
		Mood:      s.mood,
	}.Normalize()
	s.mu.Unlock()

	tok, err := s.devotion.TryBegin()
	if err != nil {
		return err
	}
	if missing := req.Missing(); len(missing) > 0 {
		err := perr.WithOp(perr.Validationf("Please provide %s before generating a devotion", strings.Join(missing, ", ")), "generate")
		s.devotion.Complete(tok, verse.Devotion{}, err)
		s.fail(events.Devotion, err)
		return err
	}

	s.emitSlot(events.Devotion, slot.Loading, nil)
	s.spawn(func(ctx context.Context) {
		d, err := s.fetch.GenerateDevotion(ctx, req)
		if !s.devotion.Complete(tok, d, err) {
			return
		}
		if err != nil {
			s.fail(events.Devotion, err)
			return
		}
		s.emitSlot(events.Devotion, slot.Success, nil)
	})
	return nil
}

// Wait blocks until every request begun so far has settled.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close stops every debouncer, cancels in-flight requests and waits for them.
// Later calls are no-ops and later inputs are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.search.Stop()
	s.custom.Stop()
	s.reference.Stop()
	s.cancel()
	s.wg.Wait()
}

var errClosed = perr.Validationf("discover: session closed")

// spawn runs fn on its own goroutine unless the session is closed.
func (s *Session) spawn(fn func(ctx context.Context)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
}

func (s *Session) fail(c events.ComponentID, err error) {
	s.log.Warn().Err(err).Str("slot", string(c)).Msg("request failed")
	s.emitSlot(c, slot.Error, err)
	s.sink.Emit(events.NoticeMsg{Component: c, Level: events.LevelError, Message: perr.Message(err)})
}

func (s *Session) emitSlot(c events.ComponentID, st slot.Status, err error) {
	s.sink.Emit(events.SlotChangeMsg{Component: c, Status: st.String(), Error: perr.Message(err)})
}

func (s *Session) emitSuggestions() {
	snap := s.Snapshot()
	s.sink.Emit(events.SuggestionsMsg{Mood: snap.Mood, Visible: snap.Visible, Total: snap.Total})
}
