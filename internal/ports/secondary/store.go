// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"

	"github.com/example/annotate/internal/core/document"
)

// ServiceStore defines the secondary port for the remote service configuration store.
//
// The store only supports whole-document replacement. Two writers editing the
// same service race and the last PutService wins.
type ServiceStore interface {
	// ListServices returns the keys of the services index, unfiltered and unsorted.
	ListServices(ctx context.Context) ([]string, error)

	// FetchService retrieves the configuration document of a service.
	FetchService(ctx context.Context, name string) (*document.Document, error)

	// PutService replaces the configuration document of a service.
	PutService(ctx context.Context, name string, doc *document.Document) error
}

// ContentSource defines the secondary port for reading annotation content from outside the terminal.
type ContentSource interface {
	// ReadContent returns the content stored at path.
	ReadContent(ctx context.Context, path string) (string, error)
}

// SaveProgress is told when a service document is about to be replaced and
// when the replacement succeeded.
type SaveProgress interface {
	Saving(service string)
	Saved(service string)
}
