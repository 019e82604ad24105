package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/example/annotate/internal/core/document"
	"github.com/example/annotate/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// Ensure mocks implement the interfaces
var (
	_ secondary.ServiceStore  = (*mockServiceStore)(nil)
	_ secondary.Prompter      = (*scriptedPrompter)(nil)
	_ secondary.ContentSource = (*mockContentSource)(nil)
)

// mockServiceStore implements secondary.ServiceStore over in-memory documents.
type mockServiceStore struct {
	docs     map[string]string
	keys     []string
	listErr  error
	fetchErr error
	putErr   error

	fetches int
	puts    []string
}

func newMockServiceStore() *mockServiceStore {
	return &mockServiceStore{docs: make(map[string]string)}
}

func (m *mockServiceStore) ListServices(ctx context.Context) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if m.keys != nil {
		return m.keys, nil
	}
	keys := make([]string, 0, len(m.docs))
	for k := range m.docs {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *mockServiceStore) FetchService(ctx context.Context, name string) (*document.Document, error) {
	m.fetches++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	raw, ok := m.docs[name]
	if !ok {
		return nil, errors.New("Not Found")
	}
	return document.Parse([]byte(raw))
}

func (m *mockServiceStore) PutService(ctx context.Context, name string, doc *document.Document) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.docs[name] = string(doc.Bytes())
	m.puts = append(m.puts, name)
	return nil
}

// current decodes the stored document of a service.
func (m *mockServiceStore) current(t *testing.T, name string) *document.Document {
	t.Helper()
	doc, err := document.Parse([]byte(m.docs[name]))
	if err != nil {
		t.Fatalf("stored document for %s is invalid: %v", name, err)
	}
	return doc
}

// keep is a scripted answer that accepts the offered default.
type keep struct{}

// scriptedPrompter implements secondary.Prompter by replaying answers in order.
// Each answer is a value of the type the prompt returns, an error, or keep{}.
type scriptedPrompter struct {
	answers []any
	asked   []string
	cancels []string
}

func newScriptedPrompter(answers ...any) *scriptedPrompter {
	return &scriptedPrompter{answers: answers}
}

func (p *scriptedPrompter) next(label string) (any, error) {
	p.asked = append(p.asked, label)
	if len(p.answers) == 0 {
		return nil, fmt.Errorf("no scripted answer for %q", label)
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	if err, ok := a.(error); ok {
		return nil, err
	}
	return a, nil
}

func (p *scriptedPrompter) Confirm(label string, def bool) (bool, error) {
	a, err := p.next(label)
	if err != nil {
		return false, err
	}
	if _, ok := a.(keep); ok {
		return def, nil
	}
	return a.(bool), nil
}

func (p *scriptedPrompter) Select(label string, options []string, cancel string) (int, error) {
	p.cancels = append(p.cancels, cancel)
	a, err := p.next(label)
	if err != nil {
		return 0, err
	}
	idx := a.(int)
	if idx < 0 && cancel == "" {
		return 0, fmt.Errorf("cancel picked for %q but none offered", label)
	}
	if idx >= len(options) {
		return 0, fmt.Errorf("option %d out of range for %q", idx, label)
	}
	return idx, nil
}

func (p *scriptedPrompter) Choice(label string, allowed []string, def string) (string, error) {
	a, err := p.next(label)
	if err != nil {
		return "", err
	}
	if _, ok := a.(keep); ok {
		return def, nil
	}
	return a.(string), nil
}

func (p *scriptedPrompter) Float(label string, def float64) (float64, error) {
	a, err := p.next(label)
	if err != nil {
		return 0, err
	}
	if _, ok := a.(keep); ok {
		return def, nil
	}
	return a.(float64), nil
}

func (p *scriptedPrompter) Text(label string) (string, error) {
	a, err := p.next(label)
	if err != nil {
		return "", err
	}
	return a.(string), nil
}

func (p *scriptedPrompter) MultiLine(title string) (string, error) {
	a, err := p.next(title)
	if err != nil {
		return "", err
	}
	return a.(string), nil
}

// mockContentSource implements secondary.ContentSource.
type mockContentSource struct {
	files map[string]string
}

func (m *mockContentSource) ReadContent(ctx context.Context, path string) (string, error) {
	c, ok := m.files[path]
	if !ok {
		return "", fmt.Errorf("failed to read %s: no such file", path)
	}
	return c, nil
}
