// Package events defines the typed messages the discovery components emit and
// the bus that delivers them to renderers.
package events

import (
	"fmt"
	"sync"

	"tableflip.dev/devo/pkg/verse"
)

// ComponentID identifies the component that emitted a message.
type ComponentID string

const (
	// Suggestions is the mood suggestion slot.
	Suggestions ComponentID = "suggestions"
	// Content is the verse content lookup slot.
	Content ComponentID = "content"
	// Devotion is the devotion generation slot.
	Devotion ComponentID = "devotion"
	// DailyVerse is the daily verse cache.
	DailyVerse ComponentID = "daily-verse"
	// Privacy is the optimistic privacy coordinator.
	Privacy ComponentID = "privacy"
)

// Msg is any message carried by the bus. Messages satisfy tea.Msg so a
// Bubble Tea program can consume them directly.
type Msg interface {
	Describe() string
}

// Level grades a notice.
type Level string

const (
	// LevelInfo is a confirmation.
	LevelInfo Level = "info"
	// LevelError is a failure.
	LevelError Level = "error"
)

// NoticeMsg is a transient, toast-style notification.
type NoticeMsg struct {
	Component ComponentID
	Level     Level
	Message   string
}

// Describe renders the notice for logs.
func (m NoticeMsg) Describe() string {
	return fmt.Sprintf(`notice component:%q level:%q message:%q`, m.Component, m.Level, m.Message)
}

// SlotChangeMsg announces that a request slot changed state. Status carries the
// slot status name ("idle", "loading", "success", "error").
type SlotChangeMsg struct {
	Component ComponentID
	Status    string
	Error     string
}

// Describe renders the change for logs.
func (m SlotChangeMsg) Describe() string {
	if m.Error != "" {
		return fmt.Sprintf(`slot component:%q status:%q error:%q`, m.Component, m.Status, m.Error)
	}
	return fmt.Sprintf(`slot component:%q status:%q`, m.Component, m.Status)
}

// SuggestionsMsg carries the visible part of the current suggestion list.
type SuggestionsMsg struct {
	Mood    string
	Visible verse.List
	Total   int
}

// Describe renders the list summary for logs.
func (m SuggestionsMsg) Describe() string {
	return fmt.Sprintf(`suggestions mood:%q visible:%d total:%d`, m.Mood, len(m.Visible), m.Total)
}

// DailyVerseMsg reports a daily verse cache transition.
type DailyVerseMsg struct {
	State   string
	Verse   verse.Suggestion
	DateKey string
	Error   string
}

// Describe renders the transition for logs.
func (m DailyVerseMsg) Describe() string {
	return fmt.Sprintf(`daily-verse state:%q date:%q reference:%q`, m.State, m.DateKey, m.Verse.Reference)
}

// PrivacyMsg reports the privacy aggregate after a local change or rollback.
type PrivacyMsg struct {
	IDs          []int64
	Public       bool
	PrivateCount int
	PublicCount  int
	RolledBack   bool
}

// Describe renders the aggregate for logs.
func (m PrivacyMsg) Describe() string {
	return fmt.Sprintf(`privacy ids:%v public:%t private_count:%d public_count:%d rolled_back:%t`,
		m.IDs, m.Public, m.PrivateCount, m.PublicCount, m.RolledBack)
}

// Sink receives messages.
type Sink interface {
	Emit(Msg)
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Emit(Msg) {}

// Bus is a buffered, non-blocking Sink. When the consumer falls behind,
// messages are dropped; renderers re-read snapshots on the next message.
type Bus struct {
	mu     sync.RWMutex
	ch     chan Msg
	closed bool
}

// NewBus creates a bus with the given buffer size (64 when <= 0).
func NewBus(size int) *Bus {
	if size <= 0 {
		size = 64
	}
	return &Bus{ch: make(chan Msg, size)}
}

// Events exposes the message channel. It is closed by Close.
func (b *Bus) Events() <-chan Msg {
	return b.ch
}

// Emit delivers msg unless the buffer is full or the bus is closed.
func (b *Bus) Emit(msg Msg) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	select {
	case b.ch <- msg:
	default:
	}
}

// Close closes the channel. Later Emits are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.ch)
}
