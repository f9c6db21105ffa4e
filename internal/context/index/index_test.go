package index

import (
	"testing"

	"github.com/classbridge/classbridge/internal/context/domain"
)

func mustElement(t *testing.T, title string, path ...string) domain.Element {
	t.Helper()
	element, err := domain.NewElement(title, domain.TypeChapter, "", 0, path)
	if err != nil {
		t.Fatalf("new element %v: %v", path, err)
	}
	return element
}

func TestInsertIdempotent(t *testing.T) {
	set := NewSet()
	algebra := mustElement(t, "Algebra", "math", "algebra")

	if !set.Insert(algebra) {
		t.Fatal("expected first insert to grow the set")
	}
	if set.Insert(algebra) {
		t.Fatal("expected duplicate insert to be a no-op")
	}
	// Same identity, different decoration: still a duplicate.
	renamed := mustElement(t, "Algebra I", "math", "algebra")
	if set.Insert(renamed) {
		t.Fatal("expected equal element to be a no-op")
	}
	if set.Len() != 1 {
		t.Fatalf("expected 1 element, got %d", set.Len())
	}
}

func TestInsertDistinguishesPaths(t *testing.T) {
	set := NewSet()
	set.Insert(mustElement(t, "Algebra", "math", "algebra"))
	set.Insert(mustElement(t, "Algebra", "history", "algebra"))
	if set.Len() != 2 {
		t.Fatalf("expected 2 elements for distinct paths, got %d", set.Len())
	}
}

func TestFirstMatching(t *testing.T) {
	set := NewSet()
	math := mustElement(t, "Mathematics", "math")
	algebra := mustElement(t, "Algebra", "math", "algebra")
	set.Insert(math)
	set.Insert(algebra)

	found, ok := set.FirstMatching("algebra")
	if !ok {
		t.Fatal("expected to find algebra")
	}
	if !found.Equal(algebra) {
		t.Fatalf("unexpected element: %+v", found)
	}

	if _, ok := set.FirstMatching("geometry"); ok {
		t.Fatal("expected no match for geometry")
	}
}

func TestDescendantEmptyPathIdentity(t *testing.T) {
	set := NewSet()
	math := mustElement(t, "Mathematics", "math")
	set.Insert(math)

	found, ok := set.Descendant(math, nil)
	if !ok {
		t.Fatal("expected identity resolution")
	}
	if !found.Equal(math) {
		t.Fatalf("expected root element back, got %+v", found)
	}
}

func TestDescendantWalksSegments(t *testing.T) {
	set := NewSet()
	math := mustElement(t, "Mathematics", "math")
	algebra := mustElement(t, "Algebra", "math", "algebra")
	linear := mustElement(t, "Linear Equations", "math", "algebra", "linear")
	set.Insert(math)
	set.Insert(algebra)
	set.Insert(linear)

	found, ok := set.Descendant(math, []string{"algebra", "linear"})
	if !ok {
		t.Fatal("expected full path to resolve")
	}
	if !found.Equal(linear) {
		t.Fatalf("unexpected element: %+v", found)
	}
}

func TestDescendantNoPartialMatch(t *testing.T) {
	set := NewSet()
	math := mustElement(t, "Mathematics", "math")
	algebra := mustElement(t, "Algebra", "math", "algebra")
	set.Insert(math)
	set.Insert(algebra)

	if _, ok := set.Descendant(math, []string{"algebra", "missing"}); ok {
		t.Fatal("expected no partial match for unresolved tail")
	}
	if _, ok := set.Descendant(math, []string{"missing"}); ok {
		t.Fatal("expected no match for unknown segment")
	}
}

func TestElementsInsertionOrder(t *testing.T) {
	set := NewSet()
	set.Insert(mustElement(t, "Mathematics", "math"))
	set.Insert(mustElement(t, "Algebra", "math", "algebra"))
	set.Insert(mustElement(t, "Mathematics", "math")) // duplicate

	elements := set.Elements()
	if len(elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(elements))
	}
	if elements[0].Identifier != "math" || elements[1].Identifier != "algebra" {
		t.Fatalf("unexpected order: %v %v", elements[0].Identifier, elements[1].Identifier)
	}
}
