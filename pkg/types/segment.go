// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SegmentKind classifies a span of rendered text.
type SegmentKind string

const (
	SegmentPlain      SegmentKind = "plain"
	SegmentAnnotation SegmentKind = "annotation"
	SegmentPotential  SegmentKind = "potential"
	SegmentPattern    SegmentKind = "pattern"
)

// Highlighted reports whether the kind is one of the highlight kinds.
func (k SegmentKind) Highlighted() bool {
	return k != SegmentPlain && k != ""
}

// Segment is one piece of a linear, non-overlapping partition of a
// document's combined text. Segments are recomputed on demand and never
// persisted.
type Segment struct {
	// Text is CombinedText[Start:End].
	Text string `json:"text" yaml:"text"`

	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`

	// Kind selects how the span is highlighted.
	Kind SegmentKind `json:"kind" yaml:"kind"`

	// EntityType is set for annotation and potential segments; nil otherwise.
	EntityType *string `json:"entity_type,omitempty" yaml:"entity_type,omitempty"`
}

// Type returns the entity type, or "" when the segment carries none.
func (s Segment) Type() string {
	if s.EntityType == nil {
		return ""
	}
	return *s.EntityType
}
