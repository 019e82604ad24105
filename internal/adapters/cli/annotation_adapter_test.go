package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/annotate/internal/core/annotation"
	"github.com/example/annotate/internal/ports/primary"
)

// mockAnnotationService implements primary.AnnotationService for testing
type mockAnnotationService struct {
	listServicesFn    func(ctx context.Context) ([]string, error)
	listAnnotationsFn func(ctx context.Context, ref primary.ServiceRef) (*primary.AnnotationList, error)
	getAnnotationFn   func(ctx context.Context, ref primary.AnnotationRef) (*primary.AnnotationEntry, error)
	addAnnotationFn   func(ctx context.Context, ref primary.ServiceRef) (*primary.AnnotationEntry, error)
	deleteFn          func(ctx context.Context, ref primary.AnnotationRef) (*primary.AnnotationEntry, error)
	clearFn           func(ctx context.Context, ref primary.ServiceRef) (*primary.ClearResult, error)

	// Track calls for verification
	lastSetContentReq primary.SetContentRequest
	lastRef           primary.AnnotationRef
}

func (m *mockAnnotationService) ListServices(ctx context.Context) ([]string, error) {
	if m.listServicesFn != nil {
		return m.listServicesFn(ctx)
	}
	return []string{}, nil
}

func (m *mockAnnotationService) ListAnnotations(ctx context.Context, ref primary.ServiceRef) (*primary.AnnotationList, error) {
	if m.listAnnotationsFn != nil {
		return m.listAnnotationsFn(ctx, ref)
	}
	return &primary.AnnotationList{Service: ref.Service}, nil
}

func (m *mockAnnotationService) GetAnnotation(ctx context.Context, ref primary.AnnotationRef) (*primary.AnnotationEntry, error) {
	m.lastRef = ref
	if m.getAnnotationFn != nil {
		return m.getAnnotationFn(ctx, ref)
	}
	return nil, errors.New("not found")
}

func (m *mockAnnotationService) AddAnnotation(ctx context.Context, ref primary.ServiceRef) (*primary.AnnotationEntry, error) {
	if m.addAnnotationFn != nil {
		return m.addAnnotationFn(ctx, ref)
	}
	return &primary.AnnotationEntry{Service: ref.Service}, nil
}

func (m *mockAnnotationService) UpdateAnnotation(ctx context.Context, ref primary.AnnotationRef) (*primary.AnnotationEntry, error) {
	m.lastRef = ref
	return &primary.AnnotationEntry{Service: ref.Service}, nil
}

func (m *mockAnnotationService) SetContent(ctx context.Context, req primary.SetContentRequest) (*primary.AnnotationEntry, error) {
	m.lastSetContentReq = req
	return &primary.AnnotationEntry{Service: req.Service}, nil
}

func (m *mockAnnotationService) ReplaceAnnotation(ctx context.Context, ref primary.AnnotationRef) (*primary.AnnotationEntry, error) {
	m.lastRef = ref
	idx := 0
	if ref.Index != nil {
		idx = *ref.Index
	}
	return &primary.AnnotationEntry{Service: ref.Service, Index: idx}, nil
}

func (m *mockAnnotationService) DeleteAnnotation(ctx context.Context, ref primary.AnnotationRef) (*primary.AnnotationEntry, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, ref)
	}
	return &primary.AnnotationEntry{Service: ref.Service}, nil
}

func (m *mockAnnotationService) ClearAnnotations(ctx context.Context, ref primary.ServiceRef) (*primary.ClearResult, error) {
	if m.clearFn != nil {
		return m.clearFn(ctx, ref)
	}
	return &primary.ClearResult{Service: ref.Service}, nil
}

func newTestAdapter(service *mockAnnotationService) (*AnnotationAdapter, *bytes.Buffer) {
	color.NoColor = true
	out := &bytes.Buffer{}
	return NewAnnotationAdapter(service, out, 20), out
}

func sampleList() []annotation.Annotation {
	return []annotation.Annotation{
		{Position: annotation.Absolute, Left: 10, Top: 20, Width: 150, Align: "left", Content: "hello"},
		{Position: annotation.Below, Target: annotation.StringPtr("Filter"), Left: 0, Top: 1.5, Width: 200, Align: "center", Content: "a rather long note that needs wrapping"},
	}
}

func TestList_JSONEmpty(t *testing.T) {
	adapter, out := newTestAdapter(&mockAnnotationService{})

	require.NoError(t, adapter.List(context.Background(), "svc1", true))
	assert.Equal(t, "[]\n", out.String())
}

func TestList_JSON(t *testing.T) {
	service := &mockAnnotationService{
		listAnnotationsFn: func(ctx context.Context, ref primary.ServiceRef) (*primary.AnnotationList, error) {
			return &primary.AnnotationList{Service: ref.Service, Annotations: sampleList()[:1]}, nil
		},
	}
	adapter, out := newTestAdapter(service)

	require.NoError(t, adapter.List(context.Background(), "svc1", true))
	assert.Equal(t, `[{"position":0,"target":null,"left":10,"top":20,"width":150,"align":"left","content":"hello"}]`+"\n", out.String())
}

func TestList_Human(t *testing.T) {
	service := &mockAnnotationService{
		listAnnotationsFn: func(ctx context.Context, ref primary.ServiceRef) (*primary.AnnotationList, error) {
			return &primary.AnnotationList{Service: ref.Service, Annotations: sampleList()}, nil
		},
	}
	adapter, out := newTestAdapter(service)

	require.NoError(t, adapter.List(context.Background(), "svc1", false))

	expected := strings.Join([]string{
		"",
		"0:",
		"position: absolute",
		"position: [10px, 20px]",
		"width: 150px",
		"align: left",
		"content:",
		"hello",
		separator,
		"1:",
		"position: below",
		"target: Filter",
		"position: [0px, 1.5px]",
		"width: 200px",
		"align: center",
		"content:",
		"a rather long note",
		"that needs wrapping",
		separator,
		"",
		"",
	}, "\n")
	assert.Equal(t, expected, out.String())
}

func TestList_HumanEmpty(t *testing.T) {
	adapter, out := newTestAdapter(&mockAnnotationService{})

	require.NoError(t, adapter.List(context.Background(), "svc1", false))
	assert.Contains(t, out.String(), "No annotations on svc1")
}

func TestShow(t *testing.T) {
	entry := &primary.AnnotationEntry{Service: "svc1", Index: 3, Annotation: annotation.Annotation{
		Position: annotation.Absolute, Width: 200, Align: "left", Content: "line 1\nline \"2\"",
	}}

	tcs := []struct {
		Description string
		ContentOnly bool
		JSON        bool
		Expected    string
	}{
		{Description: "content only", ContentOnly: true, Expected: "line 1\nline \"2\"\n"},
		{Description: "content only json", ContentOnly: true, JSON: true, Expected: `"line 1\nline \"2\""` + "\n"},
		{Description: "json", JSON: true, Expected: `{"position":0,"target":null,"left":0,"top":0,"width":200,"align":"left","content":"line 1\nline \"2\""}` + "\n"},
	}

	for _, tc := range tcs {
		t.Run(tc.Description, func(t *testing.T) {
			service := &mockAnnotationService{
				getAnnotationFn: func(ctx context.Context, ref primary.AnnotationRef) (*primary.AnnotationEntry, error) {
					return entry, nil
				},
			}
			adapter, out := newTestAdapter(service)

			require.NoError(t, adapter.Show(context.Background(), primary.AnnotationRef{Service: "svc1"}, tc.ContentOnly, tc.JSON))
			assert.Equal(t, tc.Expected, out.String())
		})
	}
}

func TestShow_HumanUsesIndex(t *testing.T) {
	service := &mockAnnotationService{
		getAnnotationFn: func(ctx context.Context, ref primary.AnnotationRef) (*primary.AnnotationEntry, error) {
			return &primary.AnnotationEntry{Service: "svc1", Index: 3, Annotation: sampleList()[0]}, nil
		},
	}
	adapter, out := newTestAdapter(service)

	require.NoError(t, adapter.Show(context.Background(), primary.AnnotationRef{Service: "svc1"}, false, false))
	assert.True(t, strings.HasPrefix(out.String(), "3:\n"))
}

func TestAdd_PrintsIndex(t *testing.T) {
	service := &mockAnnotationService{
		addAnnotationFn: func(ctx context.Context, ref primary.ServiceRef) (*primary.AnnotationEntry, error) {
			return &primary.AnnotationEntry{Service: ref.Service, Index: 4}, nil
		},
	}
	adapter, out := newTestAdapter(service)

	require.NoError(t, adapter.Add(context.Background(), "svc1"))
	assert.Equal(t, "added annotation at: 4\n", out.String())
}

func TestSetContent_PassesPath(t *testing.T) {
	service := &mockAnnotationService{}
	adapter, _ := newTestAdapter(service)
	idx := 2

	require.NoError(t, adapter.SetContent(context.Background(), primary.AnnotationRef{Service: "svc1", Index: &idx}, "note.md"))
	assert.Equal(t, "note.md", service.lastSetContentReq.Path)
	assert.Equal(t, 2, *service.lastSetContentReq.Index)
}

func TestDelete_PrintsPreview(t *testing.T) {
	service := &mockAnnotationService{
		deleteFn: func(ctx context.Context, ref primary.AnnotationRef) (*primary.AnnotationEntry, error) {
			return &primary.AnnotationEntry{Service: ref.Service, Index: 1, Annotation: sampleList()[0]}, nil
		},
	}
	adapter, out := newTestAdapter(service)

	require.NoError(t, adapter.Delete(context.Background(), primary.AnnotationRef{Service: "svc1"}))
	assert.Equal(t, "removed annotation 1: “hello”\n", out.String())
}

func TestClear_PrintsCount(t *testing.T) {
	service := &mockAnnotationService{
		clearFn: func(ctx context.Context, ref primary.ServiceRef) (*primary.ClearResult, error) {
			return &primary.ClearResult{Service: ref.Service, Removed: 2}, nil
		},
	}
	adapter, out := newTestAdapter(service)

	require.NoError(t, adapter.Clear(context.Background(), "svc1"))
	assert.Equal(t, "cleared 2 annotation(s) from svc1\n", out.String())
}

func TestServices(t *testing.T) {
	service := &mockAnnotationService{
		listServicesFn: func(ctx context.Context) ([]string, error) {
			return []string{"a", "b"}, nil
		},
	}
	adapter, out := newTestAdapter(service)

	require.NoError(t, adapter.Services(context.Background(), false))
	assert.Equal(t, "a\nb\n", out.String())

	out.Reset()
	require.NoError(t, adapter.Services(context.Background(), true))
	assert.Equal(t, `["a","b"]`+"\n", out.String())
}

func TestErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	service := &mockAnnotationService{
		listAnnotationsFn: func(ctx context.Context, ref primary.ServiceRef) (*primary.AnnotationList, error) {
			return nil, boom
		},
	}
	adapter, out := newTestAdapter(service)

	assert.ErrorIs(t, adapter.List(context.Background(), "svc1", false), boom)
	assert.Empty(t, out.String())
}

func TestProgressPrinter(t *testing.T) {
	out := &bytes.Buffer{}
	p := NewProgressPrinter(out)

	p.Saving("svc1")
	p.Saved("svc1")
	assert.Equal(t, "\nupdating...\ndone...\n\n", out.String())
}

func TestTerminalWidth_NotATerminal(t *testing.T) {
	assert.Equal(t, DefaultWidth, TerminalWidth(nil))
	assert.Equal(t, DefaultWidth, TerminalWidth(&bytes.Buffer{}))
}
