// Package verse holds the value types exchanged with the scripture service.
package verse

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Suggestion is a scripture reference plus a short preview of its text.
type Suggestion struct {
	Reference string `json:"reference" validate:"required"`
	Preview   string `json:"preview" validate:"required"`
}

// Validate reports whether both fields are present and non-empty.
func (s Suggestion) Validate() error {
	return validate.Struct(s)
}

func (s Suggestion) String() string {
	return s.Reference + ": " + s.Preview
}

// List is an ordered suggestion list in server response order. It is never
// deduplicated.
type List []Suggestion

// Len is nil-safe.
func (l List) Len() int { return len(l) }

// Head returns at most n items.
func (l List) Head(n int) List {
	if n < 0 {
		n = 0
	}
	if n > len(l) {
		n = len(l)
	}
	return l[:n]
}

// MoodQuery asks for Count suggestions matching Text.
type MoodQuery struct {
	Text  string
	Count int
}

// Empty reports whether the query should clear suggestions instead of fetching.
func (q MoodQuery) Empty() bool {
	return strings.TrimSpace(q.Text) == ""
}

// rawSuggestion keeps fields undecoded so non-string values can be rejected
// per item instead of failing the whole payload.
type rawSuggestion struct {
	Reference json.RawMessage `json:"reference"`
	Preview   json.RawMessage `json:"preview"`
}

// Decode turns raw response items into a List, silently dropping every item
// that is not an object with non-empty string reference and preview fields.
func Decode(items []json.RawMessage) List {
	out := make(List, 0, len(items))
	for _, item := range items {
		var raw rawSuggestion
		if err := json.Unmarshal(item, &raw); err != nil {
			continue
		}
		ref, ok := stringField(raw.Reference)
		if !ok {
			continue
		}
		preview, ok := stringField(raw.Preview)
		if !ok {
			continue
		}
		s := Suggestion{Reference: ref, Preview: preview}
		if s.Validate() != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

// stringField reads a JSON string, trimmed. A whitespace-only value decodes to
// "" and is dropped like an empty one.
func stringField(b json.RawMessage) (string, bool) {
	if len(b) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return "", false
	}
	return strings.TrimSpace(s), true
}
