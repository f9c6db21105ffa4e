// Package index holds the deduplicated set of parsed context elements and
// answers identifier and path lookups against it.
package index

import (
	"github.com/classbridge/classbridge/internal/context/domain"
)

// Set is a set of elements keyed by (identifier, identifier path) identity.
// Insertion is idempotent; elements are never removed, only superseded by
// re-parsing into a fresh Set.
//
// Set is not safe for concurrent mutation; the owning session serializes
// access.
type Set struct {
	elements map[string]domain.Element
	// order preserves insertion order so Elements and FirstMatching are
	// deterministic across runs.
	order []string
}

// NewSet creates an empty element set.
func NewSet() *Set {
	return &Set{elements: make(map[string]domain.Element)}
}

// Insert adds element if no equal element is present. It reports whether the
// set grew.
func (s *Set) Insert(element domain.Element) bool {
	key := element.Key()
	if _, ok := s.elements[key]; ok {
		return false
	}
	s.elements[key] = element
	s.order = append(s.order, key)
	return true
}

// Len returns the number of distinct elements.
func (s *Set) Len() int {
	return len(s.elements)
}

// Elements returns all elements in insertion order.
func (s *Set) Elements() []domain.Element {
	out := make([]domain.Element, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.elements[key])
	}
	return out
}

// FirstMatching returns the first inserted element whose identifier equals
// identifier. When several elements share an identifier under different
// parents the choice is arbitrary from the caller's point of view; bare
// identifiers are only unique in practice, not by construction.
func (s *Set) FirstMatching(identifier string) (domain.Element, bool) {
	for _, key := range s.order {
		if element := s.elements[key]; element.Identifier == identifier {
			return element, true
		}
	}
	return domain.Element{}, false
}

// Descendant resolves remaining one segment at a time starting from the
// given element. An empty remaining path returns from unchanged. A segment
// with no matching element aborts the walk; there is no partial match and no
// backtracking.
func (s *Set) Descendant(from domain.Element, remaining []string) (domain.Element, bool) {
	if len(remaining) == 0 {
		return from, true
	}
	child, ok := s.FirstMatching(remaining[0])
	if !ok {
		return domain.Element{}, false
	}
	return s.Descendant(child, remaining[1:])
}
