// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubtator reads and writes the line-oriented PubTator interchange
// format:
//
//	<id>|t|<title>
//	<id>|a|<abstract>
//	<id>\t<start>\t<end>\t<text>\t<type>[\t<normalizedId>]
//	<blank line>
//
// Parsing is lenient: a malformed line is reported as a LineError and
// skipped, and every recoverable document is still returned.
package pubtator

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/pubtator-editor/pkg/types"
)

const (
	titleTag    = "|t|"
	abstractTag = "|a|"

	minAnnotationFields = 5
)

// Line errors.
var (
	// ErrMalformedRecord indicates an annotation line with fewer than five
	// tab-separated fields, or a title/abstract line with too few fields.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrInvalidOffset indicates a non-integer start or end field.
	ErrInvalidOffset = errors.New("invalid offset")

	// ErrNoCurrentDocument indicates an abstract or annotation line that
	// appears before any title line.
	ErrNoCurrentDocument = errors.New("no current document")
)

// LineError reports a problem with one input line. Line is 1-based and
// counts every line of the input, blank ones included.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Result is the outcome of Parse.
type Result struct {
	// Documents lists the parsed documents in file order.
	Documents []types.Document

	// EntityTypes is the deduplicated set of annotation types encountered.
	EntityTypes map[string]struct{}

	// Errors lists the skipped lines in input order.
	Errors []*LineError
}

// SortedTypes returns the entity types in lexicographic order.
func (r *Result) SortedTypes() []string {
	out := make([]string, 0, len(r.EntityTypes))
	for t := range r.EntityTypes {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// AnnotationCount returns the total number of annotations parsed.
func (r *Result) AnnotationCount() int {
	n := 0
	for i := range r.Documents {
		n += len(r.Documents[i].Annotations)
	}
	return n
}

// Err joins all line errors, or returns nil when the parse was clean.
func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Parse converts PubTator content into documents. It never fails as a
// whole; problems are collected in Result.Errors.
func Parse(content string) *Result {
	res := &Result{EntityTypes: make(map[string]struct{})}

	var current *types.Document
	flush := func() {
		if current != nil {
			res.Documents = append(res.Documents, *current)
			current = nil
		}
	}
	fail := func(lineNo int, line string, err error) {
		res.Errors = append(res.Errors, &LineError{Line: lineNo, Text: line, Err: err})
	}

	for i, raw := range strings.Split(content, "\n") {
		lineNo := i + 1
		line := strings.TrimSuffix(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		switch {
		case strings.Contains(line, titleTag):
			id, text, ok := splitTextRecord(line)
			if !ok {
				fail(lineNo, line, ErrMalformedRecord)
				continue
			}
			flush()
			current = &types.Document{ID: id, Title: text}

		case strings.Contains(line, abstractTag):
			_, text, ok := splitTextRecord(line)
			if !ok {
				fail(lineNo, line, ErrMalformedRecord)
				continue
			}
			if current == nil {
				fail(lineNo, line, ErrNoCurrentDocument)
				continue
			}
			current.Abstract = text

		default:
			ann, err := parseAnnotation(line)
			if err != nil {
				fail(lineNo, line, err)
				continue
			}
			if current == nil {
				fail(lineNo, line, ErrNoCurrentDocument)
				continue
			}
			res.EntityTypes[ann.Type] = struct{}{}
			current.Annotations = append(current.Annotations, ann)
		}
	}
	flush()

	return res
}

// splitTextRecord splits "id|t|text" or "id|a|text". Fields past the
// second separator are rejoined so text containing '|' survives.
func splitTextRecord(line string) (id, text string, ok bool) {
	parts := strings.SplitN(line, "|", 3)
	if len(parts) < 3 {
		return "", "", false
	}
	return parts[0], parts[2], true
}

func parseAnnotation(line string) (types.Annotation, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < minAnnotationFields {
		return types.Annotation{}, fmt.Errorf("%w: %d tab-separated fields, want at least %d",
			ErrMalformedRecord, len(fields), minAnnotationFields)
	}

	start, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return types.Annotation{}, fmt.Errorf("%w: start %q", ErrInvalidOffset, fields[1])
	}
	end, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return types.Annotation{}, fmt.Errorf("%w: end %q", ErrInvalidOffset, fields[2])
	}

	ann := types.Annotation{
		ID:    fields[0],
		Start: start,
		End:   end,
		Text:  fields[3],
		Type:  fields[4],
	}
	if len(fields) > minAnnotationFields {
		ann.NormalizedID = types.StringPtr(fields[5])
	}
	return ann, nil
}

// Serialize writes documents in PubTator format. Every document block,
// including the last, is followed by one blank line.
func Serialize(docs []types.Document) string {
	var sb strings.Builder
	for i := range docs {
		d := &docs[i]
		sb.WriteString(d.ID + titleTag + d.Title + "\n")
		sb.WriteString(d.ID + abstractTag + d.Abstract + "\n")
		for _, a := range d.Annotations {
			fmt.Fprintf(&sb, "%s\t%d\t%d\t%s\t%s", d.ID, a.Start, a.End, a.Text, a.Type)
			if n := a.Normalized(); n != "" {
				sb.WriteString("\t" + n)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
