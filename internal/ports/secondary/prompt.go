package secondary

import "errors"

// ErrCancelled is returned when the operator aborts an interactive prompt.
var ErrCancelled = errors.New("cancelled by user")

// Prompter defines the secondary port for collecting answers from the operator.
// Every method blocks until an acceptable answer is given.
type Prompter interface {
	// Confirm asks a yes/no question. An empty answer yields def.
	Confirm(label string, def bool) (bool, error)

	// Select asks for one of options and returns its index. When cancel is
	// non-empty it is offered as an extra choice and picking it returns -1.
	Select(label string, options []string, cancel string) (int, error)

	// Choice asks for a value limited to allowed. An empty answer yields def.
	Choice(label string, allowed []string, def string) (string, error)

	// Float asks for a number. An empty answer yields def.
	Float(label string, def float64) (float64, error)

	// Text asks for a single line of free text.
	Text(label string) (string, error)

	// MultiLine collects text spanning several lines. A line ending in a
	// backslash or two spaces continues onto the next one.
	MultiLine(title string) (string, error)
}
