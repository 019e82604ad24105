package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/example/annotate/internal/core/annotation"
	"github.com/example/annotate/internal/ports/primary"
	"github.com/example/annotate/internal/ports/secondary"
)

// MaxSelectableServices is the largest services index offered for interactive selection.
const MaxSelectableServices = 35

var (
	// ErrServiceSelectionUnavailable is returned when a service cannot be picked interactively.
	ErrServiceSelectionUnavailable = errors.New("interactive service selection unavailable")
	// ErrNoAnnotations is returned when an annotation must be picked from an empty list.
	ErrNoAnnotations = errors.New("this service has no annotations")
)

const replacePrompt = `annotation JSON (end a line with \ or two spaces to continue):`

// AnnotationServiceImpl implements the AnnotationService interface.
type AnnotationServiceImpl struct {
	gateway  *Gateway
	builder  *RecordBuilder
	prompter secondary.Prompter
	content  secondary.ContentSource
}

// NewAnnotationService creates a new AnnotationService with injected dependencies.
func NewAnnotationService(
	gateway *Gateway,
	builder *RecordBuilder,
	prompter secondary.Prompter,
	content secondary.ContentSource,
) *AnnotationServiceImpl {
	return &AnnotationServiceImpl{
		gateway:  gateway,
		builder:  builder,
		prompter: prompter,
		content:  content,
	}
}

// ListServices returns the names of editable services, sorted.
func (s *AnnotationServiceImpl) ListServices(ctx context.Context) ([]string, error) {
	return s.gateway.ListServices(ctx)
}

// ListAnnotations returns every annotation of a service.
func (s *AnnotationServiceImpl) ListAnnotations(ctx context.Context, ref primary.ServiceRef) (*primary.AnnotationList, error) {
	snap, err := s.load(ctx, ref.Service)
	if err != nil {
		return nil, err
	}
	return &primary.AnnotationList{Service: snap.Name, Annotations: snap.Annotations}, nil
}

// GetAnnotation returns a single annotation.
func (s *AnnotationServiceImpl) GetAnnotation(ctx context.Context, ref primary.AnnotationRef) (*primary.AnnotationEntry, error) {
	snap, err := s.load(ctx, ref.Service)
	if err != nil {
		return nil, err
	}
	idx, err := s.resolveIndex(snap, ref.Index)
	if err != nil {
		return nil, err
	}
	return s.entry(snap, idx, snap.Annotations[idx]), nil
}

// AddAnnotation builds a new annotation interactively and appends it.
func (s *AnnotationServiceImpl) AddAnnotation(ctx context.Context, ref primary.ServiceRef) (*primary.AnnotationEntry, error) {
	snap, err := s.load(ctx, ref.Service)
	if err != nil {
		return nil, err
	}

	rec, err := s.builder.Build(snap.Document, nil)
	if err != nil {
		return nil, err
	}

	list, idx := annotation.Append(snap.Annotations, rec)
	if err := s.gateway.Persist(ctx, snap, list); err != nil {
		return nil, err
	}
	return s.entry(snap, idx, rec), nil
}

// UpdateAnnotation rebuilds an annotation using its current values as defaults.
func (s *AnnotationServiceImpl) UpdateAnnotation(ctx context.Context, ref primary.AnnotationRef) (*primary.AnnotationEntry, error) {
	snap, err := s.load(ctx, ref.Service)
	if err != nil {
		return nil, err
	}
	idx, err := s.resolveIndex(snap, ref.Index)
	if err != nil {
		return nil, err
	}

	existing := snap.Annotations[idx]
	rec, err := s.builder.Build(snap.Document, &existing)
	if err != nil {
		return nil, err
	}

	return s.replaceAt(ctx, snap, idx, rec)
}

// SetContent replaces the content of an annotation, keeping every other field.
func (s *AnnotationServiceImpl) SetContent(ctx context.Context, req primary.SetContentRequest) (*primary.AnnotationEntry, error) {
	var content string
	if req.Path != "" {
		c, err := s.content.ReadContent(ctx, req.Path)
		if err != nil {
			return nil, err
		}
		content = c
	}

	snap, err := s.load(ctx, req.Service)
	if err != nil {
		return nil, err
	}
	idx, err := s.resolveIndex(snap, req.Index)
	if err != nil {
		return nil, err
	}

	if req.Path == "" {
		c, err := s.prompter.MultiLine("content:")
		if err != nil {
			return nil, err
		}
		content = c
	}

	rec := snap.Annotations[idx].WithContent(content)
	return s.replaceAt(ctx, snap, idx, rec)
}

// ReplaceAnnotation replaces an annotation with a record typed as JSON.
func (s *AnnotationServiceImpl) ReplaceAnnotation(ctx context.Context, ref primary.AnnotationRef) (*primary.AnnotationEntry, error) {
	snap, err := s.load(ctx, ref.Service)
	if err != nil {
		return nil, err
	}
	idx, err := s.resolveIndex(snap, ref.Index)
	if err != nil {
		return nil, err
	}

	text, err := s.prompter.MultiLine(replacePrompt)
	if err != nil {
		return nil, err
	}

	var rec annotation.Annotation
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &rec); err != nil {
		return nil, fmt.Errorf("invalid annotation JSON: %w", err)
	}
	if err := annotation.CanPlace(annotation.PlacementContext{
		Position: rec.Position,
		Target:   rec.Target,
		Blocks:   snap.Document.Blocks(),
	}).Error(); err != nil {
		return nil, err
	}
	if err := annotation.CanAlign(rec.Align).Error(); err != nil {
		return nil, err
	}

	return s.replaceAt(ctx, snap, idx, rec)
}

// DeleteAnnotation removes an annotation. Later annotations shift down by one.
func (s *AnnotationServiceImpl) DeleteAnnotation(ctx context.Context, ref primary.AnnotationRef) (*primary.AnnotationEntry, error) {
	snap, err := s.load(ctx, ref.Service)
	if err != nil {
		return nil, err
	}
	idx, err := s.resolveIndex(snap, ref.Index)
	if err != nil {
		return nil, err
	}

	list, removed, err := annotation.Delete(snap.Annotations, idx)
	if err != nil {
		return nil, err
	}
	if err := s.gateway.Persist(ctx, snap, list); err != nil {
		return nil, err
	}
	return s.entry(snap, idx, removed), nil
}

// ClearAnnotations removes every annotation of a service.
func (s *AnnotationServiceImpl) ClearAnnotations(ctx context.Context, ref primary.ServiceRef) (*primary.ClearResult, error) {
	snap, err := s.load(ctx, ref.Service)
	if err != nil {
		return nil, err
	}

	if err := s.gateway.Persist(ctx, snap, annotation.Clear()); err != nil {
		return nil, err
	}
	return &primary.ClearResult{Service: snap.Name, Removed: len(snap.Annotations)}, nil
}

func (s *AnnotationServiceImpl) replaceAt(ctx context.Context, snap *Snapshot, idx int, rec annotation.Annotation) (*primary.AnnotationEntry, error) {
	list, err := annotation.Replace(snap.Annotations, idx, rec)
	if err != nil {
		return nil, err
	}
	if err := s.gateway.Persist(ctx, snap, list); err != nil {
		return nil, err
	}
	return s.entry(snap, idx, rec), nil
}

func (s *AnnotationServiceImpl) entry(snap *Snapshot, idx int, rec annotation.Annotation) *primary.AnnotationEntry {
	return &primary.AnnotationEntry{Service: snap.Name, Index: idx, Annotation: rec}
}

// load resolves the service name, asking the operator when none was given,
// and fetches its snapshot.
func (s *AnnotationServiceImpl) load(ctx context.Context, service string) (*Snapshot, error) {
	if service == "" {
		chosen, err := s.chooseService(ctx)
		if err != nil {
			return nil, err
		}
		service = chosen
	}
	return s.gateway.Load(ctx, service)
}

func (s *AnnotationServiceImpl) chooseService(ctx context.Context) (string, error) {
	names, err := s.gateway.ListServices(ctx)
	if err != nil {
		return "", err
	}

	switch {
	case len(names) == 0:
		return "", fmt.Errorf("%w: no services found\nHint: pass --service <name>", ErrServiceSelectionUnavailable)
	case len(names) > MaxSelectableServices:
		return "", fmt.Errorf("%w: %d services is too many to list (max %d)\nHint: pass --service <name>",
			ErrServiceSelectionUnavailable, len(names), MaxSelectableServices)
	}

	idx, err := s.prompter.Select("service:", names, "[CANCEL]")
	if err != nil {
		return "", err
	}
	if idx < 0 {
		return "", secondary.ErrCancelled
	}
	return names[idx], nil
}

// resolveIndex checks an explicit index or asks the operator to pick one.
func (s *AnnotationServiceImpl) resolveIndex(snap *Snapshot, index *int) (int, error) {
	if index != nil {
		if err := annotation.CheckIndex(*index, len(snap.Annotations)); err != nil {
			return 0, err
		}
		return *index, nil
	}

	if len(snap.Annotations) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoAnnotations, snap.Name)
	}

	idx, err := s.prompter.Select("annotation:", annotation.Previews(snap.Annotations), "[CANCEL]")
	if err != nil {
		return 0, err
	}
	if idx < 0 {
		return 0, secondary.ErrCancelled
	}
	return idx, nil
}
