package annotation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ErrIndexOutOfRange is returned when an index does not address a record.
var ErrIndexOutOfRange = errors.New("annotation index out of range")

// PreviewWidth is the display width of a record preview in selection lists.
const PreviewWidth = 40

// CheckIndex verifies that index addresses one of n records.
func CheckIndex(index, n int) error {
	if index < 0 || index >= n {
		if n == 0 {
			return fmt.Errorf("%w: index %d (list is empty)", ErrIndexOutOfRange, index)
		}
		return fmt.Errorf("%w: index %d (valid: 0..%d)", ErrIndexOutOfRange, index, n-1)
	}
	return nil
}

// Clear returns an empty list. It is never nil so it encodes as [].
func Clear() []Annotation {
	return []Annotation{}
}

// Append adds rec at the end and returns the new list with the index of rec.
func Append(list []Annotation, rec Annotation) ([]Annotation, int) {
	out := make([]Annotation, 0, len(list)+1)
	out = append(out, list...)
	out = append(out, rec)
	return out, len(out) - 1
}

// Replace swaps the record at index for rec.
func Replace(list []Annotation, index int, rec Annotation) ([]Annotation, error) {
	if err := CheckIndex(index, len(list)); err != nil {
		return nil, err
	}
	out := make([]Annotation, len(list))
	copy(out, list)
	out[index] = rec
	return out, nil
}

// Delete removes the record at index. Later records move down by one.
func Delete(list []Annotation, index int) ([]Annotation, Annotation, error) {
	if err := CheckIndex(index, len(list)); err != nil {
		return nil, Annotation{}, err
	}
	removed := list[index]
	out := make([]Annotation, 0, len(list)-1)
	out = append(out, list[:index]...)
	out = append(out, list[index+1:]...)
	return out, removed, nil
}

// Preview renders the first content line of a record for selection lists.
func Preview(a Annotation) string {
	first, _, _ := strings.Cut(a.Content, "\n")
	return runewidth.Truncate("“"+first+"”", PreviewWidth, "…")
}

// Previews renders Preview for every record in list.
func Previews(list []Annotation) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = Preview(a)
	}
	return out
}
