// Package prompt implements the Prompter port for terminals and plain streams.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/example/annotate/internal/ports/secondary"
)

// ErrNoInput is returned when input ends before a prompt is answered.
var ErrNoInput = errors.New("input ended before the prompt was answered")

// continuation matches the suffix that carries a multi-line answer onto the next line.
var continuation = regexp.MustCompile(`(\\|  )$`)

// Line asks questions one line at a time over plain streams. It works with
// pipes and scripted input as well as terminals.
type Line struct {
	in  *bufio.Reader
	out io.Writer

	label  *color.Color
	hint   *color.Color
	option *color.Color
}

// Ensure Line implements the interface
var _ secondary.Prompter = (*Line)(nil)

// NewLine creates a Line prompter reading from in and writing prompts to out.
func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{
		in:     bufio.NewReader(in),
		out:    out,
		label:  color.New(color.Bold),
		hint:   color.New(color.Faint),
		option: color.New(color.FgCyan),
	}
}

// Confirm asks a yes/no question. Accepts y, n, yes and no in any case.
func (l *Line) Confirm(label string, def bool) (bool, error) {
	defInput := "n"
	if def {
		defInput = "y"
	}
	for {
		answer, err := l.ask(label, defInput)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		l.retry("y", "n", "yes", "no")
	}
}

// Select prints numbered options starting at 1. When cancel is non-empty it is
// listed as option 0 and picking it returns -1.
func (l *Line) Select(label string, options []string, cancel string) (int, error) {
	if len(options) == 0 && cancel == "" {
		return 0, fmt.Errorf("no options to choose %s from", strings.TrimSuffix(label, ":"))
	}

	fmt.Fprintln(l.out)
	for i, opt := range options {
		fmt.Fprintf(l.out, "%s %s\n", l.option.Sprintf("[%d]", i+1), opt)
	}
	if cancel != "" {
		fmt.Fprintf(l.out, "%s %s\n", l.option.Sprint("[0]"), cancel)
	}
	fmt.Fprintln(l.out)

	lower := 1
	if cancel != "" {
		lower = 0
	}
	rng := fmt.Sprintf("%d...%d", lower, len(options))
	if cancel != "" && len(options) > 0 {
		rng = fmt.Sprintf("1...%d / 0", len(options))
	}

	for {
		fmt.Fprintf(l.out, "%s %s: ", l.label.Sprint(label), l.hint.Sprintf("[%s]", rng))
		answer, err := l.readLine()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(answer))
		if err == nil && n >= lower && n <= len(options) {
			return n - 1, nil
		}
		l.retry()
	}
}

// Choice asks for one of allowed. An empty answer yields def.
func (l *Line) Choice(label string, allowed []string, def string) (string, error) {
	for {
		answer, err := l.ask(label, def)
		if err != nil {
			return "", err
		}
		if slices.Contains(allowed, answer) {
			return answer, nil
		}
		l.retry(allowed...)
	}
}

// Float asks for a number. An empty answer yields def.
func (l *Line) Float(label string, def float64) (float64, error) {
	defInput := strconv.FormatFloat(def, 'f', -1, 64)
	for {
		answer, err := l.ask(label, defInput)
		if err != nil {
			return 0, err
		}
		if f, ok := parseFinite(answer); ok {
			return f, nil
		}
		fmt.Fprintln(l.out, l.hint.Sprint("Input valid number, please."))
	}
}

// Text asks for a single line of free text.
func (l *Line) Text(label string) (string, error) {
	fmt.Fprintf(l.out, "%s ", l.label.Sprint(label))
	return l.readLine()
}

// MultiLine collects lines until one does not end in a backslash or two
// spaces. The continuation suffix of each carried line becomes a newline.
func (l *Line) MultiLine(title string) (string, error) {
	if title != "" {
		fmt.Fprintln(l.out, l.label.Sprint(title))
	}
	var buf strings.Builder
	for {
		fmt.Fprint(l.out, "> ")
		line, err := l.readLine()
		if err != nil {
			return "", err
		}
		more := continuation.MatchString(line)
		buf.WriteString(continuation.ReplaceAllString(line, "\n"))
		if !more {
			return buf.String(), nil
		}
	}
}

// ask prints label with its default and returns the trimmed answer, or def
// when the answer is empty.
func (l *Line) ask(label, def string) (string, error) {
	fmt.Fprintf(l.out, "%s %s ", l.label.Sprint(label), l.hint.Sprintf("(%s)", def))
	answer, err := l.readLine()
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func (l *Line) retry(allowed ...string) {
	if len(allowed) == 0 {
		fmt.Fprintln(l.out, l.hint.Sprint("Input a number from the list, please."))
		return
	}
	fmt.Fprintln(l.out, l.hint.Sprintf("Input another, please. [%s]", strings.Join(allowed, ", ")))
}

// readLine returns one line without its line terminator. A final line without
// a newline is returned as is; input that has already ended yields ErrNoInput.
func (l *Line) readLine() (string, error) {
	line, err := l.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// parseFinite parses s as a number that can be stored as JSON.
func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
