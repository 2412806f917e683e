// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubtator

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pdiddy/pubtator-editor/pkg/types"
)

// ReadFile reads and parses a PubTator file. Only I/O failures are
// returned as errors; line problems are in Result.Errors.
func ReadFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(string(data)), nil
}

// WriteFile exports docs to path. When path cannot be written the same
// content is delivered to fallbackDir under the base name of path, and
// that location is returned. An empty fallbackDir uses os.TempDir().
func WriteFile(path, fallbackDir string, docs []types.Document, format Format) (string, error) {
	var buf bytes.Buffer
	if err := Export(&buf, docs, format); err != nil {
		return "", err
	}

	primaryErr := os.WriteFile(path, buf.Bytes(), 0o644)
	if primaryErr == nil {
		return path, nil
	}

	if fallbackDir == "" {
		fallbackDir = os.TempDir()
	}
	fallback := filepath.Join(fallbackDir, filepath.Base(path))
	slog.Warn("export target not writable, using fallback",
		"path", path, "fallback", fallback, "error", primaryErr)

	if err := os.MkdirAll(fallbackDir, 0o755); err != nil {
		return "", errors.Join(
			fmt.Errorf("writing %s: %w", path, primaryErr),
			fmt.Errorf("creating fallback directory: %w", err))
	}
	if err := os.WriteFile(fallback, buf.Bytes(), 0o644); err != nil {
		return "", errors.Join(
			fmt.Errorf("writing %s: %w", path, primaryErr),
			fmt.Errorf("writing fallback %s: %w", fallback, err))
	}
	return fallback, nil
}
