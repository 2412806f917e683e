// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"sort"
	"strings"

	"github.com/pdiddy/pubtator-editor/pkg/types"
)

// Reanchor relocates annotations after the text they refer to changed
// from oldText to newText. Each annotation is first checked at its
// position shifted by the edit; failing that, the occurrence of its text
// nearest to that position wins. Annotations whose text no longer occurs
// are returned in lost, untouched. kept is sorted by start.
func Reanchor(oldText, newText string, annotations []types.Annotation) (kept, lost []types.Annotation) {
	_, oldEnd, newEnd := editRegion(oldText, newText)
	delta := newEnd - oldEnd

	for _, a := range annotations {
		expected := a.Start
		if a.Start >= oldEnd {
			expected = a.Start + delta
		}

		start, ok := locate(newText, a.Text, expected)
		if !ok {
			lost = append(lost, a)
			continue
		}
		a.Start = start
		a.End = start + len(a.Text)
		kept = append(kept, a)
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	return kept, lost
}

// editRegion finds the single contiguous edit turning oldText into
// newText: bytes [prefix, oldEnd) of oldText became [prefix, newEnd) of
// newText.
func editRegion(oldText, newText string) (prefix, oldEnd, newEnd int) {
	n := min(len(oldText), len(newText))
	for prefix < n && oldText[prefix] == newText[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < n-prefix && oldText[len(oldText)-1-suffix] == newText[len(newText)-1-suffix] {
		suffix++
	}
	return prefix, len(oldText) - suffix, len(newText) - suffix
}

// locate returns the start of the occurrence of needle in text closest to
// expected, preferring an exact hit at expected.
func locate(text, needle string, expected int) (int, bool) {
	if needle == "" {
		return 0, false
	}
	if expected >= 0 && expected+len(needle) <= len(text) && text[expected:expected+len(needle)] == needle {
		return expected, true
	}

	best, bestDist := -1, 0
	for from := 0; from <= len(text)-len(needle); {
		i := strings.Index(text[from:], needle)
		if i < 0 {
			break
		}
		pos := from + i
		d := pos - expected
		if d < 0 {
			d = -d
		}
		if best < 0 || d < bestDist {
			best, bestDist = pos, d
		}
		from = pos + 1
	}
	return best, best >= 0
}
