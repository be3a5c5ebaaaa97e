package snake

import (
	"errors"
	"io"
	"strings"

	"github.com/manifoldco/promptui"

	perr "tableflip.dev/devo/pkg/errors"
)

// PromptText asks for a line of text. An empty answer takes def; with no
// default an answer is required.
func PromptText(in io.Reader, out io.Writer, label, def string) (string, error) {
	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} : ",
		Valid:   "{{ . | green }} : ",
		Invalid: "{{ . | red }} : ",
		Success: "{{ . | bold }} : ",
	}

	prompt := promptui.Prompt{
		Label:     label,
		Default:   def,
		Templates: templates,
		Validate:  required(def),
		Stdin:     io.NopCloser(in),
		Stdout:    nopWriteCloser{out},
	}

	result, err := prompt.Run()
	if err != nil {
		return "", perr.Wrapf(err, perr.KindValidation, "%s prompt failed", strings.ToLower(label))
	}
	if strings.TrimSpace(result) == "" {
		result = def
	}
	return strings.TrimSpace(result), nil
}

func required(def string) func(string) error {
	return func(input string) error {
		if strings.TrimSpace(input) == "" && def == "" {
			return errors.New("empty")
		}
		return nil
	}
}
