package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/example/annotate/internal/core/annotation"
	"github.com/example/annotate/internal/core/document"
	"github.com/example/annotate/internal/ports/secondary"
)

// instanceMetadataKey is a services index entry that is not a service.
const instanceMetadataKey = "__instance_metadata__"

// Snapshot is a fetched service document together with its decoded annotations.
// It lives only for the duration of one command.
type Snapshot struct {
	Name        string
	Document    *document.Document
	Annotations []annotation.Annotation
}

// Gateway bridges the remote service store and in-memory annotation lists.
type Gateway struct {
	store    secondary.ServiceStore
	progress secondary.SaveProgress
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithSaveProgress reports the start and end of every save to p.
func WithSaveProgress(p secondary.SaveProgress) GatewayOption {
	return func(g *Gateway) {
		g.progress = p
	}
}

// NewGateway creates a new Gateway over the given store.
func NewGateway(store secondary.ServiceStore, opts ...GatewayOption) *Gateway {
	g := &Gateway{store: store}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ListServices returns the sorted service names, without the instance metadata entry.
func (g *Gateway) ListServices(ctx context.Context) ([]string, error) {
	keys, err := g.store.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	names := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == instanceMetadataKey {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)
	return names, nil
}

// Load fetches a service and extracts its annotations.
func (g *Gateway) Load(ctx context.Context, name string) (*Snapshot, error) {
	doc, err := g.store.FetchService(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service %s: %w", name, err)
	}

	list, err := doc.Annotations()
	if err != nil {
		return nil, fmt.Errorf("failed to read annotations of %s: %w", name, err)
	}

	return &Snapshot{Name: name, Document: doc, Annotations: list}, nil
}

// Persist writes list back into the snapshot's document and replaces the
// remote document with it.
func (g *Gateway) Persist(ctx context.Context, snap *Snapshot, list []annotation.Annotation) error {
	next, err := snap.Document.WithAnnotations(list)
	if err != nil {
		return fmt.Errorf("failed to merge annotations into %s: %w", snap.Name, err)
	}

	if g.progress != nil {
		g.progress.Saving(snap.Name)
	}
	if err := g.store.PutService(ctx, snap.Name, next); err != nil {
		return fmt.Errorf("failed to save service %s: %w", snap.Name, err)
	}
	if g.progress != nil {
		g.progress.Saved(snap.Name)
	}
	return nil
}
