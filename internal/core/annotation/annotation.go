// Package annotation contains the annotation record model and the pure logic
// that operates on annotation lists. Nothing in here performs I/O.
package annotation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Position describes how an annotation is placed on the service canvas.
type Position int

// Position values. The integer values are part of the stored wire format.
const (
	Absolute Position = iota
	Right
	Below
	Left
	Above
)

var positionNames = []string{"absolute", "right", "below", "left", "above"}

// RelativeSides lists the position names that place an annotation next to a block.
var RelativeSides = []string{"right", "below", "left", "above"}

// String returns the position name, or "unknown" for values outside the enum.
func (p Position) String() string {
	if p < Absolute || int(p) >= len(positionNames) {
		return "unknown"
	}
	return positionNames[p]
}

// Relative reports whether the position is anchored to a target block.
func (p Position) Relative() bool {
	return p > Absolute && int(p) < len(positionNames)
}

// Valid reports whether p is one of the known positions.
func (p Position) Valid() bool {
	return p >= Absolute && int(p) < len(positionNames)
}

// ParsePosition resolves a position name.
func ParsePosition(name string) (Position, error) {
	for i, n := range positionNames {
		if n == name {
			return Position(i), nil
		}
	}
	return Absolute, fmt.Errorf("unknown position %q", name)
}

// Align values for annotation text.
const (
	AlignLeft   = "left"
	AlignRight  = "right"
	AlignCenter = "center"
)

// Alignments lists the accepted align values.
var Alignments = []string{AlignLeft, AlignRight, AlignCenter}

// DefaultWidth is used when a record has no width yet.
const DefaultWidth = 200

// Annotation is a single overlay annotation attached to a service.
//
// Fields this package does not know about are kept and written back after the
// known ones, so records touched by other tools survive a round trip.
type Annotation struct {
	Position Position
	Target   *string
	Left     float64
	Top      float64
	Width    float64
	Align    string
	Content  string

	extra map[string]json.RawMessage
}

// wireAnnotation mirrors the stored JSON layout.
type wireAnnotation struct {
	Position Position `json:"position"`
	Target   *string  `json:"target"`
	Left     float64  `json:"left"`
	Top      float64  `json:"top"`
	Width    float64  `json:"width"`
	Align    string   `json:"align"`
	Content  string   `json:"content"`
}

var knownFields = map[string]bool{
	"position": true,
	"target":   true,
	"left":     true,
	"top":      true,
	"width":    true,
	"align":    true,
	"content":  true,
}

// TargetName returns the target block name, or "" when there is none.
func (a Annotation) TargetName() string {
	if a.Target == nil {
		return ""
	}
	return *a.Target
}

// Extra returns a copy of the fields preserved from the stored record.
func (a Annotation) Extra() map[string]json.RawMessage {
	if len(a.extra) == 0 {
		return nil
	}
	out := make(map[string]json.RawMessage, len(a.extra))
	for k, v := range a.extra {
		out[k] = v
	}
	return out
}

// WithContent returns a copy of the record with new content; unknown fields are kept.
func (a Annotation) WithContent(content string) Annotation {
	a.Content = content
	a.extra = a.Extra()
	return a
}

// StringPtr is a small helper for building targets.
func StringPtr(s string) *string {
	return &s
}

// MarshalJSON writes the known fields in their canonical order followed by any
// preserved unknown fields.
func (a Annotation) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(wireAnnotation{
		Position: a.Position,
		Target:   a.Target,
		Left:     a.Left,
		Top:      a.Top,
		Width:    a.Width,
		Align:    a.Align,
		Content:  a.Content,
	})
	if err != nil {
		return nil, err
	}
	if len(a.extra) == 0 {
		return known, nil
	}

	keys := make([]string, 0, len(a.extra))
	for k := range a.extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(known[:len(known)-1])
	for _, k := range keys {
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(a.extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a stored record, keeping fields it does not model.
func (a *Annotation) UnmarshalJSON(data []byte) error {
	var w wireAnnotation
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	*a = Annotation{
		Position: w.Position,
		Target:   w.Target,
		Left:     w.Left,
		Top:      w.Top,
		Width:    w.Width,
		Align:    w.Align,
		Content:  w.Content,
	}
	for k, v := range all {
		if knownFields[k] {
			continue
		}
		if a.extra == nil {
			a.extra = make(map[string]json.RawMessage)
		}
		a.extra[k] = v
	}
	return nil
}
