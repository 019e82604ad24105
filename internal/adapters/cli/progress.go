package cli

import (
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/example/annotate/internal/ports/secondary"
)

// ProgressPrinter reports saves on a writer.
type ProgressPrinter struct {
	out io.Writer
}

// Ensure ProgressPrinter implements the interface
var _ secondary.SaveProgress = (*ProgressPrinter)(nil)

// NewProgressPrinter creates a ProgressPrinter writing to out.
func NewProgressPrinter(out io.Writer) *ProgressPrinter {
	return &ProgressPrinter{out: out}
}

// Saving prints the start of a save.
func (p *ProgressPrinter) Saving(service string) {
	fmt.Fprintln(p.out, "\nupdating...")
}

// Saved prints the end of a save.
func (p *ProgressPrinter) Saved(service string) {
	fmt.Fprintln(p.out, "done...")
	fmt.Fprintln(p.out)
}

// TerminalWidth returns the column count of w, or DefaultWidth when w is not a terminal.
func TerminalWidth(w io.Writer) int {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return DefaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}
