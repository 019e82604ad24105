package prompt

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/example/annotate/internal/ports/secondary"
)

// Terminal asks questions with arrow-key menus. It needs a real terminal on
// both ends; use Line for anything else.
type Terminal struct {
	stdio survey.AskOpt
	line  *Line
}

// Ensure Terminal implements the interface
var _ secondary.Prompter = (*Terminal)(nil)

// NewTerminal creates a Terminal prompter on the given terminal streams.
func NewTerminal(in terminal.FileReader, out terminal.FileWriter, errOut io.Writer) *Terminal {
	return &Terminal{
		stdio: survey.WithStdio(in, out, errOut),
		line:  NewLine(in, out),
	}
}

// Confirm asks a yes/no question.
func (t *Terminal) Confirm(label string, def bool) (bool, error) {
	answer := def
	err := survey.AskOne(&survey.Confirm{
		Message: strings.TrimSuffix(label, " [y/n]"),
		Default: def,
	}, &answer, t.stdio)
	return answer, mapErr(err)
}

// Select shows options as a menu. The cancel entry, when given, is listed
// last and picking it returns -1.
func (t *Terminal) Select(label string, options []string, cancel string) (int, error) {
	entries := slices.Clone(options)
	if cancel != "" {
		entries = append(entries, cancel)
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("no options to choose %s from", strings.TrimSuffix(label, ":"))
	}

	var idx int
	if err := survey.AskOne(&survey.Select{
		Message:  label,
		Options:  entries,
		PageSize: 15,
	}, &idx, t.stdio); err != nil {
		return 0, mapErr(err)
	}
	return optionIndex(idx, len(options)), nil
}

// optionIndex maps a menu position to an option index; positions past the
// options are the cancel entry.
func optionIndex(idx, options int) int {
	if idx >= options {
		return -1
	}
	return idx
}

// Choice shows allowed as a menu with def preselected.
func (t *Terminal) Choice(label string, allowed []string, def string) (string, error) {
	prompt := &survey.Select{Message: label, Options: allowed}
	if slices.Contains(allowed, def) {
		prompt.Default = def
	}
	var answer string
	err := survey.AskOne(prompt, &answer, t.stdio)
	return answer, mapErr(err)
}

// Float asks for a number, rejecting anything that does not parse.
func (t *Terminal) Float(label string, def float64) (float64, error) {
	answer := strconv.FormatFloat(def, 'f', -1, 64)
	err := survey.AskOne(&survey.Input{
		Message: label,
		Default: answer,
	}, &answer, t.stdio, survey.WithValidator(validFloat))
	if err != nil {
		return 0, mapErr(err)
	}
	f, _ := parseFinite(answer)
	return f, nil
}

// Text asks for a single line of free text.
func (t *Terminal) Text(label string) (string, error) {
	var answer string
	err := survey.AskOne(&survey.Input{Message: label}, &answer, t.stdio)
	return answer, mapErr(err)
}

// MultiLine uses the line collector so trailing whitespace reaches the
// continuation check untouched.
func (t *Terminal) MultiLine(title string) (string, error) {
	return t.line.MultiLine(title)
}

func validFloat(ans interface{}) error {
	s, ok := ans.(string)
	if !ok {
		return errors.New("expected text input")
	}
	if _, ok := parseFinite(s); !ok {
		return errors.New("input valid number, please")
	}
	return nil
}

// mapErr turns an interrupted prompt into secondary.ErrCancelled.
func mapErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return secondary.ErrCancelled
	}
	return err
}
