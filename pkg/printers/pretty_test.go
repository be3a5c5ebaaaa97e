package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/devo/pkg/dailyverse"
	"tableflip.dev/devo/pkg/privacy"
	"tableflip.dev/devo/pkg/verse"
)

func init() {
	color.NoColor = true
}

func TestSuggestions(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf, Width: 40}

	pp.TitleWithCount("weary", 5, 17)
	pp.Suggestions(verse.List{
		{Reference: "Matthew 11:28", Preview: "Come to me, all who labor and are heavy laden, and I will give you rest."},
		{Reference: "Isaiah 40:31", Preview: "They who wait for the Lord shall renew their strength."},
	})

	out := buf.String()
	for _, want := range []string{"weary - 5 of 17 verses", " 1. Matthew 11:28", " 2. Isaiah 40:31", "    Come to me"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 40 {
			t.Fatalf("line not wrapped at 40: %q", line)
		}
	}
}

func TestEmptySuggestions(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Suggestions(nil)
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("expected a none marker, got %q", buf.String())
	}
}

func TestPrivacyTable(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Privacy([]verse.PrivacyRecord{
		{ID: 7, Title: "Morning", IsPublic: true},
		{ID: 8, Title: "Evening"},
	}, privacy.Counts{Private: 1, Public: 1})

	out := buf.String()
	for _, want := range []string{"VISIBILITY", "Morning", "public", "private", "1 private, 1 public"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestDevotion(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf, Style: "notty"}
	if err := pp.Devotion(verse.Devotion{Title: "Rest for the weary", Body: "Come and **rest**."}); err != nil {
		t.Fatalf("devotion: %v", err)
	}
	if out := buf.String(); !strings.Contains(out, "Rest for the weary") || !strings.Contains(out, "rest") {
		t.Fatalf("unexpected devotion output:\n%s", out)
	}
}

func TestDailyVerse(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.DailyVerse(dailyverse.Ready, dailyverse.Entry{
		Verse:   verse.Suggestion{Reference: "Joshua 1:9", Preview: "Be strong and courageous."},
		Theme:   "encouragement",
		DateKey: "2026-03-10",
	}, "")
	if out := buf.String(); !strings.Contains(out, "Joshua 1:9") || !strings.Contains(out, "2026-03-10") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	buf.Reset()
	pp.DailyVerse(dailyverse.Unavailable, dailyverse.Entry{}, "offline")
	if !strings.Contains(buf.String(), "unavailable: offline") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestMonth(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	day := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)
	pp.Month(day, day)

	out := buf.String()
	if !strings.Contains(out, "February") || !strings.Contains(out, "28") || strings.Contains(out, "29") {
		t.Fatalf("unexpected calendar:\n%s", out)
	}
	if DaysIn(day) != 28 {
		t.Fatalf("expected 28 days in February 2026, got %d", DaysIn(day))
	}
	if StartDay(day) != time.Sunday {
		t.Fatalf("February 2026 starts on a Sunday, got %s", StartDay(day))
	}
}
