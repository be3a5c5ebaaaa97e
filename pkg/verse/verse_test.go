package verse

import (
	"encoding/json"
	"testing"
)

func TestDecodeDropsInvalidItems(t *testing.T) {
	payload := `[
		{"reference": "Philippians 4:6", "preview": "Do not be anxious about anything"},
		{"reference": "", "preview": "x"},
		{"reference": "Psalm 23:1", "preview": "The Lord is my shepherd"}
	]`
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := Decode(items)
	if got.Len() != 2 {
		t.Fatalf("expected 2 valid items, got %d", got.Len())
	}
	if got[0].Reference != "Philippians 4:6" || got[1].Reference != "Psalm 23:1" {
		t.Fatalf("expected server order preserved, got %+v", got)
	}
}

func TestDecodeRejectsNonStringAndMissingFields(t *testing.T) {
	payload := `[
		{"reference": 42, "preview": "number reference"},
		{"reference": "John 3:16"},
		{"preview": "no reference"},
		{"reference": null, "preview": "null reference"},
		{"reference": "   ", "preview": "blank reference"},
		"not an object",
		{"reference": "Isaiah 41:10", "preview": "Fear not"},
		{"reference": "Isaiah 41:10", "preview": "Fear not"}
	]`
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := Decode(items)
	if got.Len() != 2 {
		t.Fatalf("expected only the two Isaiah items (no dedupe), got %+v", got)
	}
}

func TestDecodeTrimsValues(t *testing.T) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(`[{"reference": "  Psalm 46:10 ", "preview": " Be still\n"}]`), &items); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := Decode(items)
	if got.Len() != 1 || got[0].Reference != "Psalm 46:10" || got[0].Preview != "Be still" {
		t.Fatalf("expected trimmed values, got %+v", got)
	}
}

func TestListHead(t *testing.T) {
	l := List{{Reference: "a", Preview: "a"}, {Reference: "b", Preview: "b"}}
	if l.Head(5).Len() != 2 {
		t.Fatalf("head should clamp to length")
	}
	if l.Head(-1).Len() != 0 {
		t.Fatalf("negative head should be empty")
	}
	var empty List
	if empty.Head(3).Len() != 0 {
		t.Fatalf("nil list head should be empty")
	}
}

func TestDevotionRequestMissing(t *testing.T) {
	req := DevotionRequest{Reference: "Psalm 23", Content: "  ", Mood: ""}
	missing := req.Missing()
	if len(missing) != 2 || missing[0] != "content" || missing[1] != "mood" {
		t.Fatalf("unexpected missing fields %v", missing)
	}

	full := DevotionRequest{Reference: "Psalm 23", Content: "The Lord is my shepherd", Mood: "weary"}
	if m := full.Missing(); m != nil {
		t.Fatalf("expected nothing missing, got %v", m)
	}
}

func TestMoodQueryEmpty(t *testing.T) {
	if !(MoodQuery{Text: "  "}).Empty() {
		t.Fatalf("whitespace query should be empty")
	}
	if (MoodQuery{Text: "anxious", Count: 10}).Empty() {
		t.Fatalf("anxious should not be empty")
	}
}
