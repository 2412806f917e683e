// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the PubTator editor core:
// documents, annotations, and the segments produced for rendering.
//
// All annotation offsets are byte offsets into Document.CombinedText,
// 0-indexed and half-open [Start, End).
package types

// Document is one PubTator record: a title, an optional abstract, and the
// entity annotations defined against their combined text.
type Document struct {
	// ID identifies the document within a loaded set and prefixes every
	// exported line of its record.
	ID string `json:"id" yaml:"id"`

	// Title is the text of the |t| line.
	Title string `json:"title" yaml:"title"`

	// Abstract is the text of the |a| line. It may be empty.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Annotations holds the document's entity spans. The store keeps them
	// sorted by Start after every insertion.
	Annotations []Annotation `json:"annotations" yaml:"annotations"`

	// nextKey is the next stable annotation key handed out by the store.
	nextKey int
}

// CombinedText returns the text all annotation offsets refer to: the title,
// followed by a single space and the abstract when the abstract is non-empty.
func (d *Document) CombinedText() string {
	if d.Abstract == "" {
		return d.Title
	}
	return d.Title + " " + d.Abstract
}

// NextKey returns a fresh annotation key, unique within this document.
// Keys start at 1 so the zero value marks an unkeyed annotation.
func (d *Document) NextKey() int {
	if d.nextKey == 0 {
		for _, a := range d.Annotations {
			if a.Key > d.nextKey {
				d.nextKey = a.Key
			}
		}
	}
	d.nextKey++
	return d.nextKey
}

// Annotation is an entity span within a document's combined text.
type Annotation struct {
	// ID is the owning document's ID. It is not unique per annotation.
	ID string `json:"id" yaml:"id"`

	// Key is a stable per-document identifier assigned by the store. It
	// survives deletes and edits of sibling annotations and is never
	// written to the PubTator format. Zero means unassigned.
	Key int `json:"key,omitempty" yaml:"key,omitempty"`

	// Start is the inclusive start offset.
	Start int `json:"start" yaml:"start"`

	// End is the exclusive end offset.
	End int `json:"end" yaml:"end"`

	// Text is the covered substring at the time the annotation was created.
	// It can drift from the live text when title or abstract are edited.
	Text string `json:"text" yaml:"text"`

	// Type is the entity type label (e.g. "Gene", "Disease").
	Type string `json:"type" yaml:"type"`

	// NormalizedID is the optional ontology identifier; nil when absent.
	NormalizedID *string `json:"normalized_id,omitempty" yaml:"normalized_id,omitempty"`
}

// Normalized returns the normalized identifier, or "" when absent.
func (a Annotation) Normalized() string {
	if a.NormalizedID == nil {
		return ""
	}
	return *a.NormalizedID
}

// Len returns the span length in bytes.
func (a Annotation) Len() int {
	return a.End - a.Start
}

// StringPtr returns a pointer to s. It is a convenience for populating
// Annotation.NormalizedID.
func StringPtr(s string) *string {
	return &s
}
