// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment partitions a document's combined text into typed spans
// for rendering. Three highlight sources are reconciled, in priority
// order: explicit annotations, potential matches (unannotated re-occurrences
// of annotated text), and matches of an ad-hoc search pattern. The result
// is a single ordered, non-overlapping sequence of segments whose texts
// concatenate back to the input.
package segment

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/pubtator-editor/pkg/types"
)

const (
	// DefaultMaxPotentialLength is the longest annotation text, in
	// characters, that is searched for as a potential match.
	DefaultMaxPotentialLength = 50

	// ReconcileTolerance bounds how far, in bytes, Reconcile looks from a
	// segment position for an annotation with matching text.
	ReconcileTolerance = 5
)

// Options tunes a segmentation pass. The zero value selects the defaults.
type Options struct {
	// MaxPotentialLength overrides DefaultMaxPotentialLength when positive.
	MaxPotentialLength int

	// DisablePotential skips the potential-match pass.
	DisablePotential bool
}

func (o Options) maxPotentialLength() int {
	if o.MaxPotentialLength > 0 {
		return o.MaxPotentialLength
	}
	return DefaultMaxPotentialLength
}

// span is a highlight candidate over text[start:end].
type span struct {
	start, end int
	kind       types.SegmentKind
	entityType *string
}

// spanSet is an unordered list of accepted spans.
type spanSet []span

// overlaps reports whether [start, end) intersects any span in the set.
func (ss spanSet) overlaps(start, end int) bool {
	for _, s := range ss {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}

// Segment computes the partition of text for the given annotations and
// optional search pattern. An invalid pattern yields no pattern matches.
// Empty text yields no segments.
func Segment(text string, annotations []types.Annotation, pattern string, opts Options) []types.Segment {
	if text == "" {
		return nil
	}

	explicit := explicitSpans(text, annotations)

	var potential spanSet
	if !opts.DisablePotential {
		potential = potentialSpans(text, annotations, explicit, opts.maxPotentialLength())
	}

	matches := patternSpans(text, pattern, explicit, potential)

	all := make([]span, 0, len(explicit)+len(potential)+len(matches))
	all = append(all, explicit...)
	all = append(all, potential...)
	all = append(all, matches...)
	// Ties at a start go to the longer span; only overlapping explicit
	// annotations can tie.
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		return all[i].end > all[j].end
	})

	return walk(text, all)
}

// explicitSpans returns one span per annotation, clamped to the text.
// Annotations that are empty after clamping are dropped.
func explicitSpans(text string, annotations []types.Annotation) spanSet {
	out := make(spanSet, 0, len(annotations))
	for _, a := range annotations {
		start, end := max(a.Start, 0), min(a.End, len(text))
		if start >= end {
			continue
		}
		out = append(out, span{
			start:      start,
			end:        end,
			kind:       types.SegmentAnnotation,
			entityType: types.StringPtr(a.Type),
		})
	}
	return out
}

// candidate is one entry of the lowercase text to entity type mapping.
type candidate struct {
	text       string
	entityType string
	length     int
}

// potentialCandidates builds the deduplicated mapping from lowercase
// annotation text to type, ordered longest first. The first annotation
// seen for a text decides its type; equal lengths keep first-seen order.
func potentialCandidates(annotations []types.Annotation, maxLen int) []candidate {
	seen := make(map[string]bool)
	var out []candidate
	for _, a := range annotations {
		key := strings.ToLower(a.Text)
		n := utf8.RuneCountInString(key)
		if n < 1 || n > maxLen {
			continue
		}
		// Single characters are noise unless they carry a digit.
		if n == 1 && !strings.ContainsFunc(key, unicode.IsDigit) {
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, candidate{text: key, entityType: a.Type, length: n})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].length > out[j].length })
	return out
}

func potentialSpans(text string, annotations []types.Annotation, explicit spanSet, maxLen int) spanSet {
	var accepted spanSet
	for _, c := range potentialCandidates(annotations, maxLen) {
		re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(c.text))
		if err != nil {
			continue
		}
		for _, m := range re.FindAllStringIndex(text, -1) {
			if explicit.overlaps(m[0], m[1]) || accepted.overlaps(m[0], m[1]) {
				continue
			}
			accepted = append(accepted, span{
				start:      m[0],
				end:        m[1],
				kind:       types.SegmentPotential,
				entityType: types.StringPtr(c.entityType),
			})
		}
	}
	return accepted
}

func patternSpans(text, pattern string, explicit, potential spanSet) spanSet {
	if pattern == "" {
		return nil
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil
	}

	var accepted spanSet
	for _, m := range re.FindAllStringIndex(text, -1) {
		if m[0] == m[1] {
			continue
		}
		if explicit.overlaps(m[0], m[1]) || potential.overlaps(m[0], m[1]) || accepted.overlaps(m[0], m[1]) {
			continue
		}
		accepted = append(accepted, span{start: m[0], end: m[1], kind: types.SegmentPattern})
	}
	return accepted
}

// walk emits the sorted spans left to right with plain gaps between them.
// A span starting before the previous one ended can only come from two
// overlapping annotations; it is skipped so the output stays a partition.
// With the sort in Segment, the earliest-starting and then longest
// annotation is the one shown.
func walk(text string, spans []span) []types.Segment {
	var out []types.Segment
	pos := 0
	for _, s := range spans {
		if s.start < pos {
			continue
		}
		if s.start > pos {
			out = append(out, plain(text, pos, s.start))
		}
		out = append(out, types.Segment{
			Text:       text[s.start:s.end],
			Start:      s.start,
			End:        s.end,
			Kind:       s.kind,
			EntityType: s.entityType,
		})
		pos = s.end
	}
	if pos < len(text) {
		out = append(out, plain(text, pos, len(text)))
	}
	return out
}

func plain(text string, start, end int) types.Segment {
	return types.Segment{Text: text[start:end], Start: start, End: end, Kind: types.SegmentPlain}
}

// Concatenate returns the texts of segs joined in order.
func Concatenate(segs []types.Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Reconcile maps a rendered segment back to an annotation by content. It
// returns the index of the first annotation whose stored text equals
// seg.Text and whose start lies within ReconcileTolerance of position.
// It is a best-effort repair for offsets that drifted after a text edit.
func Reconcile(seg types.Segment, position int, annotations []types.Annotation) (int, bool) {
	for i, a := range annotations {
		if a.Text != seg.Text {
			continue
		}
		d := a.Start - position
		if d < 0 {
			d = -d
		}
		if d < ReconcileTolerance {
			return i, true
		}
	}
	return -1, false
}
