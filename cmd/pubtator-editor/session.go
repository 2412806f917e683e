// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/pubtator-editor/internal/annotate"
	"github.com/pdiddy/pubtator-editor/internal/pubtator"
	"github.com/pdiddy/pubtator-editor/pkg/types"
)

// openSession parses path into a session. Line errors are logged as
// warnings; with strict set they also fail the call.
func openSession(path string, c types.EditorConfig, strict bool) (*annotate.Session, *pubtator.Result, error) {
	res, err := pubtator.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	for _, le := range res.Errors {
		slog.Warn("skipped line", "file", path, "line", le.Line, "error", le.Err)
	}
	if strict && len(res.Errors) > 0 {
		return nil, res, fmt.Errorf("%s: %d malformed line(s): %w", path, len(res.Errors), res.Err())
	}

	reg := newRegistry(c)
	reg.RegisterAll(res.EntityTypes)
	s := annotate.NewSession(res.Documents, reg, sessionOptions(c))
	slog.Debug("loaded", "file", path,
		"documents", len(res.Documents), "annotations", res.AnnotationCount(), "types", reg.Len())
	return s, res, nil
}

// errSkippedLines guards against rewriting a file whose skipped lines
// would be lost.
var errSkippedLines = errors.New("input has skipped lines")

// openDocument opens path and selects the document with the given id.
func openDocument(path, docID string, c types.EditorConfig) (*annotate.Session, *pubtator.Result, error) {
	s, res, err := openSession(path, c, false)
	if err != nil {
		return nil, nil, err
	}
	if docID == "" {
		if s.Len() == 0 {
			return nil, nil, annotate.ErrNoCurrentDocument
		}
		return s, res, nil
	}
	if err := s.SelectByID(docID); err != nil {
		return nil, nil, err
	}
	return s, res, nil
}

// checkOverwrite refuses to write out over input when parsing input
// skipped lines, since the rewrite would drop them. force overrides.
func checkOverwrite(input, out string, res *pubtator.Result, force bool) error {
	if force || res == nil || len(res.Errors) == 0 {
		return nil
	}
	if filepath.Clean(input) != filepath.Clean(out) {
		return nil
	}
	lines := make([]string, len(res.Errors))
	for i, le := range res.Errors {
		lines[i] = strconv.Itoa(le.Line)
	}
	return fmt.Errorf("refusing to overwrite %s: %w (line %s) would be lost; use --out or --force",
		input, errSkippedLines, strings.Join(lines, ", "))
}

// saveDocuments writes docs to out, falling back to the configured
// directory when out is not writable. It prints where the file went.
func saveDocuments(w io.Writer, out string, docs []types.Document, format pubtator.Format, c types.EditorConfig) error {
	written, err := pubtator.WriteFile(out, c.Export.FallbackDir, docs, format)
	if err != nil {
		return err
	}
	if written != out {
		fmt.Fprintf(w, "Could not write %s; saved to %s instead\n", out, written)
		return nil
	}
	fmt.Fprintf(w, "Wrote %s\n", written)
	return nil
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// defaultExportPath derives an output name from the input file name.
func defaultExportPath(input string, format pubtator.Format) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	switch format {
	case pubtator.FormatJSON:
		return base + ".json"
	case pubtator.FormatYAML:
		return base + ".yaml"
	default:
		return base + ".export.txt"
	}
}
