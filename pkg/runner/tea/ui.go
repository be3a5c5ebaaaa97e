package teaui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/devo/pkg/dailyverse"
	"tableflip.dev/devo/pkg/discover"
	perr "tableflip.dev/devo/pkg/errors"
	"tableflip.dev/devo/pkg/events"
	"tableflip.dev/devo/pkg/slot"
	"tableflip.dev/devo/pkg/verse"
)

// focus is the pane receiving keys.
type focus int

const (
	focusMood focus = iota
	focusList
	focusReference
	focusContent
	focusCount
)

// Session is the discovery state the UI drives.
type Session interface {
	SelectMood(mood string) error
	SearchMood(text string)
	CustomMood(text string)
	Expand() int
	Collapse() int
	TypeReference(text string)
	SetContent(text string)
	Generate() error
	Snapshot() discover.Snapshot
}

// DailyVerse is the daily verse cache as the page uses it.
type DailyVerse interface {
	State() dailyverse.State
	Entry() dailyverse.Entry
	Err() error
	Refresh(ctx context.Context) error
}

// Model contains UI state.
type Model struct {
	ctx    context.Context
	sess   Session
	daily  DailyVerse
	events <-chan events.Msg

	focus  focus
	inputs [focusCount]textinput.Model
	moods  []verse.Mood
	preset int
	cursor int

	snap   discover.Snapshot
	notice string
	failed bool

	spin  spinner.Model
	theme Theme

	termWidth  int
	termHeight int
}

// New creates a UI model over sess. daily may be nil; msgs is the event bus
// both feed.
func New(sess Session, daily DailyVerse, msgs <-chan events.Msg) Model {
	m := Model{
		ctx:    context.Background(),
		sess:   sess,
		daily:  daily,
		events: msgs,
		moods:  verse.DefaultMoods(),
		preset: -1,
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		theme:  DefaultTheme(),
	}
	placeholders := [focusCount]string{
		focusMood:      "how are you feeling?",
		focusReference: "e.g. Psalm 23:1",
		focusContent:   "verse text",
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 256
		ti.Prompt = ""
		m.inputs[i] = ti
	}
	m.inputs[focusContent].CharLimit = 2048
	m.inputs[focusMood].Focus()
	if sess != nil {
		m.snap = sess.Snapshot()
	}
	return m
}

// WithContext bounds the requests the page starts itself.
func (m Model) WithContext(ctx context.Context) Model {
	m.ctx = ctx
	return m
}

// Init starts listening to the bus.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, m.listen())
}

// dailyRefreshedMsg carries the outcome of a manual daily verse refresh.
type dailyRefreshedMsg struct {
	err error
}

// busMsg wraps one message from the bus; closed is set once the bus is done.
type busMsg struct {
	msg    events.Msg
	closed bool
}

func (m Model) listen() tea.Cmd {
	if m.events == nil {
		return nil
	}
	ch := m.events
	return func() tea.Msg {
		msg, ok := <-ch
		return busMsg{msg: msg, closed: !ok}
	}
}

// Update handles messages and keybindings.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		for i := range m.inputs {
			m.inputs[i].Width = max(10, msg.Width-14)
		}
		return m, nil

	case busMsg:
		if msg.closed {
			return m, nil
		}
		m.observe(msg.msg)
		return m, m.listen()

	case dailyRefreshedMsg:
		m.report(msg.err)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.key(msg)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// observe folds a bus message into the view state.
func (m *Model) observe(msg events.Msg) {
	switch msg := msg.(type) {
	case events.NoticeMsg:
		m.setNotice(msg.Message, msg.Level == events.LevelError)
	case events.SlotChangeMsg:
		if msg.Component == events.Content && msg.Status == slot.Success.String() && m.focus != focusContent {
			m.inputs[focusContent].SetValue(m.sess.Snapshot().Content.Value)
		}
	}
	m.refresh()
}

func (m *Model) refresh() {
	if m.sess == nil {
		return
	}
	m.snap = m.sess.Snapshot()
	if n := len(m.snap.Visible); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m *Model) setNotice(text string, failed bool) {
	m.notice, m.failed = text, failed
}

func (m *Model) report(err error) {
	if err != nil {
		m.setNotice(perr.Message(err), true)
	}
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case "shift+tab":
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	case "ctrl+g":
		m.notice = ""
		m.report(m.sess.Generate())
		m.refresh()
		return m, nil
	case "ctrl+r":
		cmd := m.refreshDaily()
		return m, cmd
	case "pgdown", "ctrl+n":
		m.sess.Expand()
		m.refresh()
		return m, nil
	case "pgup", "ctrl+p":
		m.sess.Collapse()
		m.refresh()
		return m, nil
	}

	switch m.focus {
	case focusMood:
		return m.moodKey(msg)
	case focusList:
		return m.listKey(msg)
	}

	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if after := m.inputs[m.focus].Value(); after != before {
		switch m.focus {
		case focusReference:
			m.sess.TypeReference(after)
		case focusContent:
			m.sess.SetContent(after)
		}
	}
	m.refresh()
	return m, cmd
}

func (m Model) moodKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "down":
		if msg.String() == "down" {
			m.preset = (m.preset + 1) % len(m.moods)
		} else {
			m.preset = (m.preset + len(m.moods) - 1) % len(m.moods)
		}
		name := m.moods[m.preset].Name
		m.inputs[focusMood].SetValue(name)
		m.inputs[focusMood].CursorEnd()
		m.report(m.sess.SelectMood(name))
		m.refresh()
		return m, nil
	case "enter":
		m.report(m.sess.SelectMood(m.inputs[focusMood].Value()))
		m.refresh()
		return m, nil
	}

	before := m.inputs[focusMood].Value()
	var cmd tea.Cmd
	m.inputs[focusMood], cmd = m.inputs[focusMood].Update(msg)
	if after := m.inputs[focusMood].Value(); after != before {
		// A known mood name takes the shorter search delay.
		m.preset = m.presetIndex(after)
		if m.preset >= 0 {
			m.sess.SearchMood(after)
		} else {
			m.sess.CustomMood(after)
		}
	}
	m.refresh()
	return m, cmd
}

func (m Model) presetIndex(text string) int {
	text = strings.TrimSpace(text)
	for i, mood := range m.moods {
		if strings.EqualFold(mood.Name, text) {
			return i
		}
	}
	return -1
}

// refreshDaily retries the daily verse off the UI goroutine.
func (m *Model) refreshDaily() tea.Cmd {
	if m.daily == nil {
		return nil
	}
	if m.daily.State() == dailyverse.Loading {
		m.report(perr.Busyf("The daily verse is already loading"))
		return nil
	}
	m.setNotice("", false)
	daily, ctx := m.daily, m.ctx
	return func() tea.Msg {
		return dailyRefreshedMsg{err: daily.Refresh(ctx)}
	}
}

func (m Model) listKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.snap.Visible)-1 {
			m.cursor++
		}
	case "+", "l":
		m.sess.Expand()
		m.refresh()
	case "-", "h":
		m.sess.Collapse()
		m.refresh()
	case "enter":
		if m.cursor < len(m.snap.Visible) {
			ref := m.snap.Visible[m.cursor].Reference
			m.inputs[focusReference].SetValue(ref)
			m.inputs[focusReference].CursorEnd()
			m.sess.TypeReference(ref)
			m.setFocus(focusReference)
			m.refresh()
		}
	}
	return m, nil
}

func (m *Model) setFocus(f focus) {
	m.inputs[m.focus].Blur()
	m.focus = f
	if f != focusList {
		m.inputs[f].Focus()
	}
}
