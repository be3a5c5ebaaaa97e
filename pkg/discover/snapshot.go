package discover

import (
	"tableflip.dev/devo/pkg/slot"
	"tableflip.dev/devo/pkg/verse"
)

// Snapshot is a consistent-enough copy of the session for one render.
type Snapshot struct {
	Mood        string
	Reference   string
	Suggestions slot.Snapshot[verse.List]
	Visible     verse.List
	Total       int
	Limit       int
	HasMore     bool
	CanCollapse bool
	Content     slot.Snapshot[string]
	Devotion    slot.Snapshot[verse.Devotion]
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	mood, ref := s.mood, s.ref
	sugg := s.suggestions.Snapshot()
	s.mu.Unlock()

	return Snapshot{
		Mood:        mood,
		Reference:   ref,
		Suggestions: sugg,
		Visible:     sugg.Value.Head(s.window.Visible()),
		Total:       sugg.Value.Len(),
		Limit:       s.window.Limit(),
		HasMore:     s.window.HasMore(),
		CanCollapse: s.window.CanCollapse(),
		Content:     s.content.Snapshot(),
		Devotion:    s.devotion.Snapshot(),
	}
}
