// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/example/annotate/internal/ports/secondary"
)

// StdinPath is the content path that reads from standard input.
const StdinPath = "-"

// ContentAdapter implements secondary.ContentSource for local files.
type ContentAdapter struct {
	baseDir string
	stdin   io.Reader
}

// Ensure ContentAdapter implements the interface
var _ secondary.ContentSource = (*ContentAdapter)(nil)

// NewContentAdapter creates a new filesystem content adapter.
// Relative paths resolve against baseDir; if baseDir is empty, the working directory is used.
func NewContentAdapter(baseDir string, stdin io.Reader) (*ContentAdapter, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}

	return &ContentAdapter{
		baseDir: baseDir,
		stdin:   stdin,
	}, nil
}

// ReadContent returns the file at path verbatim, including any trailing newline.
func (a *ContentAdapter) ReadContent(ctx context.Context, path string) (string, error) {
	if path == StdinPath {
		if a.stdin == nil {
			return "", fmt.Errorf("failed to read content: no standard input")
		}
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read content from standard input: %w", err)
		}
		return string(data), nil
	}

	full := a.resolve(path)
	info, err := os.Stat(full)
	if err != nil {
		return "", fmt.Errorf("failed to read content file %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("failed to read content file %s: is a directory", path)
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("failed to read content file %s: %w", path, err)
	}
	return string(data), nil
}

func (a *ContentAdapter) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.baseDir, path)
}
