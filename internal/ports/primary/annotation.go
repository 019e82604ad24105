// Package primary defines the primary ports (driving side) of the application.
package primary

import (
	"context"

	"github.com/example/annotate/internal/core/annotation"
)

// AnnotationService defines the primary port for annotation operations.
//
// Each call fetches the service document once and, when it changes anything,
// writes the whole document back once.
type AnnotationService interface {
	// ListServices returns the names of editable services, sorted.
	ListServices(ctx context.Context) ([]string, error)

	// ListAnnotations returns every annotation of a service.
	ListAnnotations(ctx context.Context, ref ServiceRef) (*AnnotationList, error)

	// GetAnnotation returns a single annotation.
	GetAnnotation(ctx context.Context, ref AnnotationRef) (*AnnotationEntry, error)

	// AddAnnotation builds a new annotation interactively and appends it.
	AddAnnotation(ctx context.Context, ref ServiceRef) (*AnnotationEntry, error)

	// UpdateAnnotation rebuilds an annotation using its current values as defaults.
	UpdateAnnotation(ctx context.Context, ref AnnotationRef) (*AnnotationEntry, error)

	// SetContent replaces the content of an annotation, keeping every other field.
	SetContent(ctx context.Context, req SetContentRequest) (*AnnotationEntry, error)

	// ReplaceAnnotation replaces an annotation with a record typed as JSON.
	ReplaceAnnotation(ctx context.Context, ref AnnotationRef) (*AnnotationEntry, error)

	// DeleteAnnotation removes an annotation. Later annotations shift down by one.
	DeleteAnnotation(ctx context.Context, ref AnnotationRef) (*AnnotationEntry, error)

	// ClearAnnotations removes every annotation of a service and returns how many were removed.
	ClearAnnotations(ctx context.Context, ref ServiceRef) (*ClearResult, error)
}

// ServiceRef names a service. An empty Service asks the operator to pick one.
type ServiceRef struct {
	Service string
}

// AnnotationRef addresses one annotation. A nil Index asks the operator to pick one.
type AnnotationRef struct {
	Service string
	Index   *int
}

// SetContentRequest contains parameters for replacing annotation content.
type SetContentRequest struct {
	AnnotationRef
	// Path is read through the content source. Empty means collect the
	// content interactively.
	Path string
}

// AnnotationList is the annotation list of one service.
type AnnotationList struct {
	Service     string
	Annotations []annotation.Annotation
}

// AnnotationEntry is one annotation with its position in the list.
type AnnotationEntry struct {
	Service    string
	Index      int
	Annotation annotation.Annotation
}

// ClearResult contains the result of clearing a service's annotations.
type ClearResult struct {
	Service string
	Removed int
}
