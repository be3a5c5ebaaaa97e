// Package snake holds the interactive prompts used by --interactive commands.
package snake

import (
	"io"
	"strings"

	"github.com/manifoldco/promptui"

	perr "tableflip.dev/devo/pkg/errors"
	"tableflip.dev/devo/pkg/verse"
)

// otherMood is the picker entry that switches to free text.
const otherMood = "something else..."

// PickMood asks for one of moods, or a custom mood typed by the user.
func PickMood(in io.Reader, out io.Writer, moods []verse.Mood) (string, error) {
	items := append(append([]verse.Mood(nil), moods...), verse.Mood{Name: otherMood, Emoji: "✏️"})

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .Emoji }} {{ .Name | bold | cyan }}",
		Inactive: "   {{ .Emoji }} {{ .Name }}",
		Selected: "{{ .Emoji }} {{ .Name | bold }}",
	}

	prompt := promptui.Select{
		HideHelp:  true,
		Label:     "How are you feeling",
		Items:     items,
		Templates: templates,
		Size:      10,
		Searcher:  moodSearcher(items),
		Stdin:     io.NopCloser(in),
		Stdout:    nopWriteCloser{out},
	}

	i, _, err := prompt.Run()
	if err != nil {
		return "", perr.Wrap(err, perr.KindValidation, "mood prompt failed")
	}
	if items[i].Name != otherMood {
		return items[i].Name, nil
	}
	return PromptText(in, out, "Describe your mood", "")
}

func moodSearcher(items []verse.Mood) func(string, int) bool {
	return func(input string, index int) bool {
		name := strings.ReplaceAll(strings.ToLower(items[index].Name), " ", "")
		input = strings.ReplaceAll(strings.ToLower(input), " ", "")
		return strings.Contains(name, input)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
