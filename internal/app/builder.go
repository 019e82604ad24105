package app

import (
	"fmt"

	"github.com/example/annotate/internal/core/annotation"
	"github.com/example/annotate/internal/core/document"
	"github.com/example/annotate/internal/ports/secondary"
)

// RecordBuilder collects a complete annotation record through a Prompter.
type RecordBuilder struct {
	prompter secondary.Prompter
}

// NewRecordBuilder creates a new RecordBuilder.
func NewRecordBuilder(prompter secondary.Prompter) *RecordBuilder {
	return &RecordBuilder{prompter: prompter}
}

// Build produces a record for doc's service. When existing is non-nil its
// values are offered as defaults; otherwise built-in defaults apply. Existing
// content is kept as is.
//
// The target list is read from the current document. A stored target that
// no longer names a block is still offered as the "keep current" choice.
func (b *RecordBuilder) Build(doc *document.Document, existing *annotation.Annotation) (annotation.Annotation, error) {
	var cur annotation.Annotation
	if existing != nil {
		cur = *existing
	}

	relative, err := b.prompter.Confirm("Position relatively? [y/n]", existing == nil || cur.Position != annotation.Absolute)
	if err != nil {
		return annotation.Annotation{}, err
	}

	rec := cur
	rec.Position = annotation.Absolute
	rec.Target = nil

	if relative {
		blocks := doc.Blocks()
		if err := annotation.CanPositionRelative(blocks).Error(); err != nil {
			return annotation.Annotation{}, err
		}

		cancel := ""
		if cur.TargetName() != "" {
			cancel = "current: " + cur.TargetName()
		}
		idx, err := b.prompter.Select("target:", blocks, cancel)
		if err != nil {
			return annotation.Annotation{}, err
		}
		if idx < 0 {
			rec.Target = annotation.StringPtr(cur.TargetName())
		} else {
			rec.Target = annotation.StringPtr(blocks[idx])
		}

		side := annotation.Right.String()
		if cur.Position.Relative() {
			side = cur.Position.String()
		}
		side, err = b.prompter.Choice("side:", annotation.RelativeSides, side)
		if err != nil {
			return annotation.Annotation{}, err
		}
		if rec.Position, err = annotation.ParsePosition(side); err != nil {
			return annotation.Annotation{}, err
		}
	}

	xLabel, yLabel := "x:", "y:"
	if relative {
		xLabel, yLabel = "x-offset:", "y-offset:"
	}
	if rec.Left, err = b.prompter.Float(xLabel, cur.Left); err != nil {
		return annotation.Annotation{}, err
	}
	if rec.Top, err = b.prompter.Float(yLabel, cur.Top); err != nil {
		return annotation.Annotation{}, err
	}

	width := cur.Width
	if width == 0 {
		width = annotation.DefaultWidth
	}
	if rec.Width, err = b.prompter.Float("width:", width); err != nil {
		return annotation.Annotation{}, err
	}

	align := cur.Align
	if align == "" {
		align = annotation.AlignLeft
	}
	if rec.Align, err = b.prompter.Choice("align:", annotation.Alignments, align); err != nil {
		return annotation.Annotation{}, err
	}

	if cur.Content == "" {
		if rec.Content, err = b.prompter.Text("content:"); err != nil {
			return annotation.Annotation{}, err
		}
	}

	if rec.Position == annotation.Absolute {
		return rec, nil
	}
	if rec.TargetName() == "" {
		return annotation.Annotation{}, fmt.Errorf("%s annotation requires a target block", rec.Position)
	}
	return rec, nil
}
