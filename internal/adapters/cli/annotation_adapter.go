// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting, but delegate
// business logic to services.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-wordwrap"

	"github.com/example/annotate/internal/core/annotation"
	"github.com/example/annotate/internal/ports/primary"
)

// DefaultWidth is the wrap width used when the terminal size is unknown.
const DefaultWidth = 80

const separator = "------------------------"

// AnnotationAdapter is a thin adapter that translates CLI operations to AnnotationService calls.
// It depends only on the AnnotationService interface, enabling easy testing with mocks.
type AnnotationAdapter struct {
	service primary.AnnotationService
	out     io.Writer
	width   int

	index *color.Color
	dim   *color.Color
}

// NewAnnotationAdapter creates a new AnnotationAdapter writing to out and
// wrapping content at width columns.
func NewAnnotationAdapter(service primary.AnnotationService, out io.Writer, width int) *AnnotationAdapter {
	if width <= 0 {
		width = DefaultWidth
	}
	return &AnnotationAdapter{
		service: service,
		out:     out,
		width:   width,
		index:   color.New(color.FgGreen),
		dim:     color.New(color.Faint),
	}
}

// Services lists the editable services.
func (a *AnnotationAdapter) Services(ctx context.Context, asJSON bool) error {
	names, err := a.service.ListServices(ctx)
	if err != nil {
		return err
	}

	if asJSON {
		if names == nil {
			names = []string{}
		}
		return a.writeJSON(names)
	}

	if len(names) == 0 {
		fmt.Fprintln(a.out, "No services found")
		return nil
	}
	for _, n := range names {
		fmt.Fprintln(a.out, n)
	}
	return nil
}

// List prints every annotation of a service.
func (a *AnnotationAdapter) List(ctx context.Context, service string, asJSON bool) error {
	resp, err := a.service.ListAnnotations(ctx, primary.ServiceRef{Service: service})
	if err != nil {
		return err
	}

	list := resp.Annotations
	if list == nil {
		list = annotation.Clear()
	}
	if asJSON {
		return a.writeJSON(list)
	}

	if len(list) == 0 {
		fmt.Fprintf(a.out, "\nNo annotations on %s\n\n", resp.Service)
		return nil
	}
	fmt.Fprintf(a.out, "\n%s\n\n", a.format(0, list))
	return nil
}

// Show prints a single annotation, or only its content.
func (a *AnnotationAdapter) Show(ctx context.Context, ref primary.AnnotationRef, contentOnly, asJSON bool) error {
	resp, err := a.service.GetAnnotation(ctx, ref)
	if err != nil {
		return err
	}

	switch {
	case contentOnly && asJSON:
		return a.writeJSON(resp.Annotation.Content)
	case contentOnly:
		fmt.Fprintln(a.out, resp.Annotation.Content)
	case asJSON:
		return a.writeJSON(resp.Annotation)
	default:
		fmt.Fprintln(a.out, a.format(resp.Index, []annotation.Annotation{resp.Annotation}))
	}
	return nil
}

// Add builds and appends a new annotation.
func (a *AnnotationAdapter) Add(ctx context.Context, service string) error {
	resp, err := a.service.AddAnnotation(ctx, primary.ServiceRef{Service: service})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "added annotation at: %d\n", resp.Index)
	return nil
}

// Update rebuilds an annotation from its current values.
func (a *AnnotationAdapter) Update(ctx context.Context, ref primary.AnnotationRef) error {
	_, err := a.service.UpdateAnnotation(ctx, ref)
	return err
}

// SetContent replaces the content of an annotation. An empty path collects
// the content interactively.
func (a *AnnotationAdapter) SetContent(ctx context.Context, ref primary.AnnotationRef, path string) error {
	_, err := a.service.SetContent(ctx, primary.SetContentRequest{AnnotationRef: ref, Path: path})
	return err
}

// Replace swaps an annotation for one typed as JSON.
func (a *AnnotationAdapter) Replace(ctx context.Context, ref primary.AnnotationRef) error {
	resp, err := a.service.ReplaceAnnotation(ctx, ref)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "replaced annotation at: %d\n", resp.Index)
	return nil
}

// Delete removes an annotation.
func (a *AnnotationAdapter) Delete(ctx context.Context, ref primary.AnnotationRef) error {
	resp, err := a.service.DeleteAnnotation(ctx, ref)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "removed annotation %d: %s\n", resp.Index, annotation.Preview(resp.Annotation))
	return nil
}

// Clear removes every annotation of a service.
func (a *AnnotationAdapter) Clear(ctx context.Context, service string) error {
	resp, err := a.service.ClearAnnotations(ctx, primary.ServiceRef{Service: service})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "cleared %d annotation(s) from %s\n", resp.Removed, resp.Service)
	return nil
}

// format renders list in the human layout, numbering from first.
func (a *AnnotationAdapter) format(first int, list []annotation.Annotation) string {
	blocks := make([]string, 0, len(list))
	for i, rec := range list {
		lines := []string{
			a.index.Sprintf("%d:", first+i),
			a.dim.Sprint("position:") + " " + rec.Position.String(),
		}
		if rec.Position != annotation.Absolute {
			lines = append(lines, a.dim.Sprint("target:")+" "+rec.TargetName())
		}
		lines = append(lines,
			a.dim.Sprint("position:")+fmt.Sprintf(" [%spx, %spx]", num(rec.Left), num(rec.Top)),
			a.dim.Sprint("width:")+fmt.Sprintf(" %spx", num(rec.Width)),
			a.dim.Sprint("align:")+" "+rec.Align,
			a.dim.Sprint("content:"),
			wordwrap.WrapString(rec.Content, uint(a.width)),
			a.dim.Sprint(separator),
		)
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n")
}

func (a *AnnotationAdapter) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(a.out, string(data))
	return nil
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
