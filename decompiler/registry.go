// Copyright © 2024 The ELPS authors

package decompiler

import (
	"github.com/luthersystems/blueprint/typeres"
)

// Handler prints the local syntax of one element.
type Handler func(ctx *Ctx, el *Element) error

// Entry associates a handler with the elements it accepts.
type Entry struct {
	Tag string
	// ParentType, when set, restricts the entry to elements whose
	// enclosing object type is assignable to this fully qualified type.
	ParentType string
	// CData restricts the entry to leaf elements and leaves their
	// character data to the handler.
	CData   bool
	Handler Handler
}

// Registry holds decompiler entries.  It is filled once and then only
// read.
type Registry struct {
	entries []Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an entry.
func (r *Registry) Register(e Entry) {
	r.entries = append(r.entries, e)
}

// Tags returns the distinct tags with registered entries.
func (r *Registry) Tags() []string {
	var tags []string
	seen := map[string]bool{}
	for _, e := range r.entries {
		if !seen[e.Tag] {
			seen[e.Tag] = true
			tags = append(tags, e.Tag)
		}
	}
	return tags
}

// lookup selects the most specific eligible entry.  A parent type
// constraint scores 2 and character data on a leaf scores 1.  Ties go to
// the entry registered first.
func (r *Registry) lookup(catalog *typeres.Catalog, enclosing *typeres.Type, el *Element) (Entry, bool) {
	best, bestScore := -1, -1
	for i, e := range r.entries {
		if e.Tag != el.Tag {
			continue
		}
		score := 0
		if e.ParentType != "" {
			want, ok := catalog.Lookup(e.ParentType)
			if !ok || !enclosing.AssignableTo(want) {
				continue
			}
			score += 2
		}
		if e.CData {
			if !el.IsLeaf() {
				continue
			}
			score++
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return Entry{}, false
	}
	return r.entries[best], true
}
