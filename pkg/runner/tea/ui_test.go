package teaui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/devo/pkg/dailyverse"
	"tableflip.dev/devo/pkg/discover"
	perr "tableflip.dev/devo/pkg/errors"
	"tableflip.dev/devo/pkg/events"
	"tableflip.dev/devo/pkg/slot"
	"tableflip.dev/devo/pkg/verse"
)

type fakeSession struct {
	selected  []string
	searched  []string
	custom    []string
	refs      []string
	content   []string
	expanded  int
	collapsed int
	genErr    error
	snap      discover.Snapshot
}

func (f *fakeSession) SelectMood(mood string) error {
	f.selected = append(f.selected, mood)
	return nil
}

func (f *fakeSession) SearchMood(text string)      { f.searched = append(f.searched, text) }
func (f *fakeSession) CustomMood(text string)      { f.custom = append(f.custom, text) }
func (f *fakeSession) Expand() int                 { f.expanded++; return 0 }
func (f *fakeSession) Collapse() int               { f.collapsed++; return 0 }
func (f *fakeSession) TypeReference(text string)   { f.refs = append(f.refs, text) }
func (f *fakeSession) SetContent(text string)      { f.content = append(f.content, text) }
func (f *fakeSession) Generate() error             { return f.genErr }
func (f *fakeSession) Snapshot() discover.Snapshot { return f.snap }

type fakeDaily struct {
	state      dailyverse.State
	entry      dailyverse.Entry
	err        error
	refreshes  int
	refreshErr error
}

func (f *fakeDaily) State() dailyverse.State { return f.state }
func (f *fakeDaily) Entry() dailyverse.Entry { return f.entry }
func (f *fakeDaily) Err() error              { return f.err }

func (f *fakeDaily) Refresh(ctx context.Context) error {
	f.refreshes++
	return f.refreshErr
}

func press(m Model, k tea.KeyMsg) Model {
	next, _ := m.Update(k)
	return next.(Model)
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func loaded(mood string, total, visible int) discover.Snapshot {
	list := make(verse.List, total)
	for i := range list {
		list[i] = verse.Suggestion{Reference: mood + " " + string(rune('a'+i)), Preview: "preview"}
	}
	return discover.Snapshot{
		Mood:        mood,
		Suggestions: slot.Snapshot[verse.List]{Status: slot.Success, Value: list},
		Visible:     list.Head(visible),
		Total:       total,
		Limit:       visible,
		HasMore:     visible < total,
	}
}

func TestPresetMoodSelects(t *testing.T) {
	fs := &fakeSession{}
	m := New(fs, nil, nil)

	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	first := verse.DefaultMoods()[0].Name
	if len(fs.selected) != 1 || fs.selected[0] != first {
		t.Fatalf("expected %q to be selected, got %v", first, fs.selected)
	}
	if m.inputs[focusMood].Value() != first {
		t.Fatalf("mood input should show the preset, got %q", m.inputs[focusMood].Value())
	}
}

func TestTypingMoodIsCustom(t *testing.T) {
	fs := &fakeSession{}
	m := New(fs, nil, nil)

	m = typeText(m, "tired")
	if len(fs.custom) != 5 || fs.custom[4] != "tired" {
		t.Fatalf("expected each keystroke to reach CustomMood, got %v", fs.custom)
	}
	if len(fs.selected) != 0 {
		t.Fatalf("typing must not select, got %v", fs.selected)
	}

	_ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(fs.selected) != 1 || fs.selected[0] != "tired" {
		t.Fatalf("enter should select the typed mood, got %v", fs.selected)
	}
}

func TestTypingPresetNameSearches(t *testing.T) {
	fs := &fakeSession{}
	m := New(fs, nil, nil)

	m = typeText(m, "Weary")
	if len(fs.searched) != 1 || fs.searched[0] != "Weary" {
		t.Fatalf("expected the full preset name to be searched, got %v", fs.searched)
	}
	if len(fs.custom) != 4 {
		t.Fatalf("expected the partial names to go to CustomMood, got %v", fs.custom)
	}
	if m.preset < 0 || m.moods[m.preset].Name != "weary" {
		t.Fatalf("expected the weary preset to be current, got %d", m.preset)
	}
}

func TestBusMessageRefreshesView(t *testing.T) {
	fs := &fakeSession{}
	m := New(fs, nil, nil)

	fs.snap = loaded("weary", 17, 5)
	next, cmd := m.Update(busMsg{msg: events.SuggestionsMsg{Mood: "weary", Total: 17}})
	m = next.(Model)

	view := m.View()
	if !strings.Contains(view, "weary - 5 of 17 verses") {
		t.Fatalf("expected the list header, view=%q", view)
	}
	if !strings.Contains(view, "pgdn for more") || strings.Contains(view, "pgup for fewer") {
		t.Fatalf("unexpected reveal hints, view=%q", view)
	}
	if cmd != nil {
		t.Fatalf("no listener without a bus")
	}
}

func TestPickSuggestionFillsReference(t *testing.T) {
	fs := &fakeSession{snap: loaded("weary", 7, 5)}
	m := New(fs, nil, nil)

	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusList {
		t.Fatalf("expected list focus, got %d", m.focus)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	want := fs.snap.Visible[1].Reference
	if len(fs.refs) != 1 || fs.refs[0] != want {
		t.Fatalf("expected %q to be looked up, got %v", want, fs.refs)
	}
	if m.focus != focusReference || m.inputs[focusReference].Value() != want {
		t.Fatalf("reference input should hold the pick, focus=%d value=%q", m.focus, m.inputs[focusReference].Value())
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyPgDown})
	_ = press(m, tea.KeyMsg{Type: tea.KeyPgUp})
	if fs.expanded != 1 || fs.collapsed != 1 {
		t.Fatalf("expected one expand and one collapse, got %d/%d", fs.expanded, fs.collapsed)
	}
}

func TestContentFollowsLookup(t *testing.T) {
	fs := &fakeSession{}
	m := New(fs, nil, nil)

	fs.snap.Content = slot.Snapshot[string]{Status: slot.Success, Value: "The Lord is my shepherd"}
	next, _ := m.Update(busMsg{msg: events.SlotChangeMsg{Component: events.Content, Status: slot.Success.String()}})
	m = next.(Model)
	if m.inputs[focusContent].Value() != "The Lord is my shepherd" {
		t.Fatalf("content input should follow the lookup, got %q", m.inputs[focusContent].Value())
	}
}

func TestGenerateErrorIsShown(t *testing.T) {
	fs := &fakeSession{genErr: perr.Validationf("Please provide mood before generating a devotion")}
	m := New(fs, nil, nil)

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlG})
	if !m.failed || !strings.Contains(m.View(), "Please provide mood before generating a devotion") {
		t.Fatalf("expected the validation message, view=%q", m.View())
	}
}

func TestDevotionRendered(t *testing.T) {
	fs := &fakeSession{}
	fs.snap.Devotion = slot.Snapshot[verse.Devotion]{Status: slot.Success, Value: verse.Devotion{Title: "Rest", Body: "Come to me."}}
	m := New(fs, nil, nil)

	if view := m.View(); !strings.Contains(view, "Rest") || !strings.Contains(view, "Come to me.") {
		t.Fatalf("expected the devotion, view=%q", view)
	}
}

func TestDailyHeader(t *testing.T) {
	d := &fakeDaily{state: dailyverse.Ready, entry: dailyverse.Entry{
		Verse:     verse.Suggestion{Reference: "Joshua 1:9", Preview: "Be strong"},
		DateKey:   "2026-03-10",
		Timestamp: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}}
	m := New(&fakeSession{}, d, nil)
	if view := m.View(); !strings.Contains(view, "Joshua 1:9") || !strings.Contains(view, "2026-03-10") {
		t.Fatalf("expected the daily verse, view=%q", view)
	}

	m = New(&fakeSession{}, &fakeDaily{state: dailyverse.Unavailable, err: perr.New(perr.KindFetch, "offline")}, nil)
	if view := m.View(); !strings.Contains(view, "unavailable: offline") {
		t.Fatalf("expected the unavailable line, view=%q", view)
	}
}

func TestListenForwardsBus(t *testing.T) {
	bus := events.NewBus(1)
	m := New(&fakeSession{}, nil, bus.Events())

	bus.Emit(events.NoticeMsg{Component: events.Privacy, Level: events.LevelInfo, Message: "Privacy updated"})
	msg := m.listen()()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if m.notice != "Privacy updated" || m.failed {
		t.Fatalf("expected the notice, got %q failed=%t", m.notice, m.failed)
	}
	if cmd == nil {
		t.Fatalf("expected to keep listening")
	}

	bus.Close()
	if got := m.listen()().(busMsg); !got.closed {
		t.Fatalf("expected closed after Close")
	}
}

func TestDailyRetry(t *testing.T) {
	d := &fakeDaily{state: dailyverse.Unavailable, err: perr.New(perr.KindFetch, "offline")}
	m := New(&fakeSession{}, d, nil)
	if view := m.View(); !strings.Contains(view, "ctrl+r to retry") {
		t.Fatalf("expected a retry hint, view=%q", view)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("expected a refresh command")
	}
	if d.refreshes != 0 {
		t.Fatalf("refresh must not run on the UI goroutine")
	}

	d.refreshErr = perr.New(perr.KindFetch, "still offline")
	next, _ = m.Update(cmd())
	m = next.(Model)
	if d.refreshes != 1 {
		t.Fatalf("expected one refresh, got %d", d.refreshes)
	}
	if !m.failed || m.notice != "still offline" {
		t.Fatalf("expected the refresh error, got %q failed=%t", m.notice, m.failed)
	}

	d.state = dailyverse.Loading
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = next.(Model)
	if cmd != nil || d.refreshes != 1 {
		t.Fatalf("refresh while loading must not start, refreshes=%d", d.refreshes)
	}
	if !m.failed || !strings.Contains(m.notice, "already loading") {
		t.Fatalf("expected a busy notice, got %q", m.notice)
	}
}
