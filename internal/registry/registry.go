// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry tracks the entity type labels known to an editing
// session. The set starts from a seed vocabulary and only grows.
package registry

import (
	"hash/fnv"
	"sort"
)

// DefaultSeed is the vocabulary used when no seed is configured.
var DefaultSeed = []string{"Gene", "Disease", "Chemical", "Species", "Mutation", "CellLine"}

// Registry is a deduplicated, monotonically growing set of type labels.
// The zero value is an empty registry ready for use.
type Registry struct {
	types map[string]struct{}
}

// New returns a registry holding seed. A nil seed uses DefaultSeed.
func New(seed ...string) *Registry {
	if seed == nil {
		seed = DefaultSeed
	}
	r := &Registry{types: make(map[string]struct{}, len(seed))}
	for _, t := range seed {
		r.Register(t)
	}
	return r
}

// Register adds t when it is not already present. Matching is exact and
// case-sensitive. It reports whether t was newly added; the empty label is
// never registered.
func (r *Registry) Register(t string) bool {
	if t == "" {
		return false
	}
	if r.types == nil {
		r.types = make(map[string]struct{})
	}
	if _, ok := r.types[t]; ok {
		return false
	}
	r.types[t] = struct{}{}
	return true
}

// RegisterAll adds every label in set and returns how many were new.
func (r *Registry) RegisterAll(set map[string]struct{}) int {
	n := 0
	for t := range set {
		if r.Register(t) {
			n++
		}
	}
	return n
}

// Contains reports whether t is registered.
func (r *Registry) Contains(t string) bool {
	_, ok := r.types[t]
	return ok
}

// Len returns the number of registered labels.
func (r *Registry) Len() int {
	return len(r.types)
}

// Sorted returns the labels in lexicographic order, for choice lists.
func (r *Registry) Sorted() []string {
	out := make([]string, 0, len(r.types))
	for t := range r.types {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// knownColors assigns fixed colours to common biomedical types.
var knownColors = map[string]string{
	"Gene":            "#4e79a7",
	"Disease":         "#e15759",
	"Chemical":        "#59a14f",
	"Species":         "#f28e2b",
	"Mutation":        "#b07aa1",
	"CellLine":        "#76b7b2",
	"DNAMutation":     "#9c755f",
	"ProteinMutation": "#ff9da7",
}

// fallbackPalette is indexed by a hash of unknown type labels.
var fallbackPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Color maps a type label to a display colour. Well-known types use a
// fixed palette; any other label hashes into fallbackPalette, so the same
// label always gets the same colour.
func Color(t string) string {
	if c, ok := knownColors[t]; ok {
		return c
	}
	h := fnv.New32a()
	h.Write([]byte(t))
	return fallbackPalette[h.Sum32()%uint32(len(fallbackPalette))]
}
