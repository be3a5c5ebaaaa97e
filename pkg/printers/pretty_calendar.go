package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/devo/pkg/dailyverse"
)

const width = len("11 12 13 14 15 16 17") // an example week

// DailyVerse prints the verse of the day with its state and the day it
// belongs to.
func (pp *PrettyPrint) DailyVerse(state dailyverse.State, e dailyverse.Entry, msg string) {
	w := pp.out()
	f := color.New(color.Faint, color.Italic)
	switch state {
	case dailyverse.Ready:
		pp.Title("Verse of the day")
		_, _ = f.Fprintf(w, "%s · %s\n\n", e.DateKey, e.Theme)
		pp.Verse(e.Verse.Reference, e.Verse.Preview)
	case dailyverse.Unavailable:
		_, _ = f.Fprintf(w, "verse of the day unavailable: %s\n", msg)
	default:
		_, _ = f.Fprintf(w, "verse of the day %s\n", state)
	}
}

// Month prints the month of then as a small calendar with marked days in bold.
func (pp *PrettyPrint) Month(then time.Time, marked ...time.Time) {
	w := pp.out()
	days := DaysIn(then)
	hit := make([]bool, days)
	for _, m := range marked {
		if m.Year() == then.Year() && m.Month() == then.Month() {
			hit[m.Day()-1] = true
		}
	}

	tf := color.New(color.FgWhite, color.Italic)
	m := then.Month().String()
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(w, "%s%s%s\n", strings.Repeat(" ", mid), m, strings.Repeat(" ", width-mid-len(m)))

	d := StartDay(then)
	// Pad out the start of the month.
	_, _ = fmt.Fprint(w, strings.Repeat("   ", int(d)))

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)
	for i := 0; i < days; i++ {
		if hit[i] {
			_, _ = l2.Fprintf(w, "%2d ", i+1)
		} else {
			_, _ = l1.Fprintf(w, "%2d ", i+1)
		}
		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(w, "\n")
		}
	}
	_, _ = fmt.Fprint(w, "\n\n")
}

func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.Year(), then.Month(), 1, 1, 0, 0, 0, time.UTC).Weekday()
}
