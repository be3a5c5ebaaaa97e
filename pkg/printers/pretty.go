package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/devo/pkg/privacy"
	"tableflip.dev/devo/pkg/verse"
)

// DefaultWidth is the wrap width for previews and devotion bodies.
const DefaultWidth = 80

type PrettyPrint struct {
	Out io.Writer
	// Width wraps long text; DefaultWidth when zero.
	Width int
	// Style is a glamour style name; "auto" detects the terminal.
	Style string
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) width() int {
	if pp.Width <= 0 {
		return DefaultWidth
	}
	return pp.Width
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count, total int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	if count < total {
		_, _ = c.Fprintf(pp.out(), " - %d of %d", count, total)
	} else {
		_, _ = c.Fprintf(pp.out(), " - %d", total)
	}
	switch total {
	case 1:
		_, _ = c.Fprintln(pp.out(), " verse")
	default:
		_, _ = c.Fprintln(pp.out(), " verses")
	}
}

// Suggestions prints the visible part of a suggestion list.
func (pp *PrettyPrint) Suggestions(visible verse.List) {
	w := pp.out()
	if len(visible) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(w, " none\n\n")
		return
	}

	r := color.New(color.Bold, color.FgHiYellow)
	p := color.New(color.Faint)
	for i, s := range visible {
		_, _ = r.Fprintf(w, "%2d. %s\n", i+1, s.Reference)
		_, _ = p.Fprintln(w, indent(wordwrap.String(s.Preview, pp.width()-4), "    "))
	}
	_, _ = fmt.Fprintln(w, "")
}

// Verse prints a reference and its text.
func (pp *PrettyPrint) Verse(reference, text string) {
	r := color.New(color.Bold, color.FgHiYellow)
	_, _ = r.Fprintln(pp.out(), reference)
	_, _ = fmt.Fprintln(pp.out(), wordwrap.String(text, pp.width()))
	_, _ = fmt.Fprintln(pp.out(), "")
}

// Devotion renders the title and markdown body of a generated devotion.
func (pp *PrettyPrint) Devotion(d verse.Devotion) error {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(pp.width())}
	switch pp.Style {
	case "", "auto":
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStandardStyle(pp.Style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return err
	}
	out, err := r.Render("# " + d.Title + "\n\n" + d.Body)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(pp.out(), out)
	return err
}

// Privacy prints the devotion list as a table followed by the counts.
func (pp *PrettyPrint) Privacy(records []verse.PrivacyRecord, counts privacy.Counts) {
	w := pp.out()
	if len(records) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(w, " no devotions\n\n")
		return
	}

	pub := color.New(color.FgGreen)
	priv := color.New(color.Faint)

	table := uitable.New()
	table.MaxColWidth = uint(pp.width() / 2)
	table.Wrap = true
	table.AddRow("ID", "TITLE", "VISIBILITY")
	for _, r := range records {
		vis := priv.Sprint("private")
		if r.IsPublic {
			vis = pub.Sprint("public")
		}
		table.AddRow(r.ID, r.Title, vis)
	}
	_, _ = fmt.Fprintln(w, table)

	c := color.New(color.Faint)
	_, _ = c.Fprintf(w, "\n%d private, %d public\n", counts.Private, counts.Public)
}

// Notice prints a one-line confirmation or error.
func (pp *PrettyPrint) Notice(msg string, failed bool) {
	if msg == "" {
		return
	}
	c := color.New(color.FgGreen)
	if failed {
		c = color.New(color.FgRed)
	}
	_, _ = c.Fprintln(pp.out(), msg)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
