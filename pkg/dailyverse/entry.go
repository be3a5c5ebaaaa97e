// Package dailyverse keeps a calendar-scoped "verse of the day": it serves a
// persisted entry while the local day lasts, refreshes it at local midnight and
// lets the user force a refresh.
package dailyverse

import (
	"encoding/json"
	"time"

	"tableflip.dev/devo/pkg/verse"
)

// DateLayout formats the local calendar day of an entry.
const DateLayout = "2006-01-02"

// Entry is the persisted daily verse. Timestamp is stored as Unix
// milliseconds.
type Entry struct {
	Verse     verse.Suggestion `json:"verse"`
	Theme     string           `json:"theme"`
	DateKey   string           `json:"dateKey"`
	Timestamp time.Time        `json:"timestamp"`
}

type entryJSON struct {
	Verse     verse.Suggestion `json:"verse"`
	Theme     string           `json:"theme"`
	DateKey   string           `json:"dateKey"`
	Timestamp json.RawMessage  `json:"timestamp,omitempty"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	var ms int64
	if !e.Timestamp.IsZero() {
		ms = e.Timestamp.UnixMilli()
	}
	ts, err := json.Marshal(ms)
	if err != nil {
		return nil, err
	}
	return json.Marshal(entryJSON{Verse: e.Verse, Theme: e.Theme, DateKey: e.DateKey, Timestamp: ts})
}

// UnmarshalJSON also reads timestamps written as RFC 3339 strings.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*e = Entry{Verse: raw.Verse, Theme: raw.Theme, DateKey: raw.DateKey}
	if len(raw.Timestamp) == 0 || string(raw.Timestamp) == "null" {
		return nil
	}
	if raw.Timestamp[0] == '"' {
		return json.Unmarshal(raw.Timestamp, &e.Timestamp)
	}
	var ms int64
	if err := json.Unmarshal(raw.Timestamp, &ms); err != nil {
		return err
	}
	if ms > 0 {
		e.Timestamp = time.UnixMilli(ms)
	}
	return nil
}

// DateKey is the calendar day of t in t's location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// NextMidnight is the first local midnight strictly after t.
func NextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

// ValidAt reports whether the entry may still be served at now. The entry must
// belong to now's calendar day and now must be before the first midnight after
// it was fetched.
func (e Entry) ValidAt(now time.Time) bool {
	if e.DateKey == "" || e.Timestamp.IsZero() {
		return false
	}
	if e.DateKey != DateKey(now) {
		return false
	}
	return now.Before(NextMidnight(e.Timestamp.In(now.Location())))
}

// Same reports whether two entries describe the same fetch.
func (e Entry) Same(o Entry) bool {
	return e.Verse == o.Verse &&
		e.Theme == o.Theme &&
		e.DateKey == o.DateKey &&
		e.Timestamp.UnixMilli() == o.Timestamp.UnixMilli()
}
