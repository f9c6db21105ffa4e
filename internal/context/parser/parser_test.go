package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/classbridge/classbridge/internal/context/domain"
)

const sampleDocument = `<root>
  <context title="Mathematics" identifierPath="math" type="1" topic="math" displayOrder="0"/>
  <context title="Algebra" identifierPath="math,algebra" type="2" topic="math" displayOrder="1"/>
  <context title="Linear Equations" identifierPath="math, algebra , linear" type="5" displayOrder="2"/>
</root>`

func TestParseWellFormedDocument(t *testing.T) {
	set, err := Parse(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if set.Len() != 3 {
		t.Fatalf("expected 3 elements, got %d", set.Len())
	}

	algebra, ok := set.FirstMatching("algebra")
	if !ok {
		t.Fatal("expected algebra element")
	}
	if algebra.Title != "Algebra" {
		t.Fatalf("unexpected title: %q", algebra.Title)
	}
	if algebra.Type != domain.TypeChapter {
		t.Fatalf("expected chapter type, got %v", algebra.Type)
	}
	if algebra.Topic != domain.TopicMath {
		t.Fatalf("expected math topic, got %q", algebra.Topic)
	}
	if algebra.DisplayOrder != 1 {
		t.Fatalf("expected display order 1, got %d", algebra.DisplayOrder)
	}

	// Path segments are trimmed of surrounding whitespace.
	linear, ok := set.FirstMatching("linear")
	if !ok {
		t.Fatal("expected linear element")
	}
	want := []string{"math", "algebra", "linear"}
	for i, segment := range want {
		if linear.IdentifierPath[i] != segment {
			t.Fatalf("unexpected path: %v", linear.IdentifierPath)
		}
	}
}

func TestParseAttributeOrderIrrelevant(t *testing.T) {
	reordered := `<root>
  <context displayOrder="1" topic="math" type="2" identifierPath="math,algebra" title="Algebra"/>
</root>`
	set, err := Parse(strings.NewReader(reordered))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	algebra, ok := set.FirstMatching("algebra")
	if !ok {
		t.Fatal("expected algebra element")
	}
	if algebra.Type != domain.TypeChapter || algebra.DisplayOrder != 1 {
		t.Fatalf("unexpected element: %+v", algebra)
	}
}

func TestParseDeduplicatesElements(t *testing.T) {
	duplicated := `<root>
  <context title="Algebra" identifierPath="math,algebra" type="2"/>
  <context title="Algebra" identifierPath="math,algebra" type="2"/>
</root>`
	set, err := Parse(strings.NewReader(duplicated))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("expected 1 element after dedup, got %d", set.Len())
	}
}

func TestParseUnexpectedElementDiscardsResult(t *testing.T) {
	document := `<root>
  <context title="Mathematics" identifierPath="math"/>
  <chapter title="Rogue"></chapter>
</root>`
	_, err := Parse(strings.NewReader(document))
	var unexpected *UnexpectedElementError
	if !errors.As(err, &unexpected) {
		t.Fatalf("expected UnexpectedElementError, got %v", err)
	}
	if unexpected.Name != "chapter" {
		t.Fatalf("unexpected element name: %q", unexpected.Name)
	}
}

func TestParseLateStructuralErrorStillFails(t *testing.T) {
	// The rogue element appears after every valid context element; the whole
	// result is still discarded.
	document := `<root>
  <context title="Mathematics" identifierPath="math"/>
  <context title="Algebra" identifierPath="math,algebra"/>
  <rogue/>
</root>`
	if _, err := Parse(strings.NewReader(document)); err == nil {
		t.Fatal("expected structural error")
	}
}

func TestParseMalformedDocument(t *testing.T) {
	_, err := Parse(strings.NewReader(`<root><context title="x"`))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if errors.Is(err, ErrDocumentNotFound) {
		t.Fatal("malformed document must not report not-found")
	}
}

func TestParseSkipsElementsWithoutPath(t *testing.T) {
	document := `<root>
  <context title="No Path"/>
  <context title="Empty Path" identifierPath=""/>
  <context title="Mathematics" identifierPath="math"/>
</root>`
	set, err := Parse(strings.NewReader(document))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("expected only the element with a path, got %d", set.Len())
	}
}

func TestParseUnknownAttributesIgnored(t *testing.T) {
	document := `<root>
  <context title="Mathematics" identifierPath="math" color="blue" weight="7"/>
</root>`
	set, err := Parse(strings.NewReader(document))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("expected 1 element, got %d", set.Len())
	}
}

func TestParseFileNotFound(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.xml"))
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contexts.xml")
	if err := os.WriteFile(path, []byte(sampleDocument), 0o600); err != nil {
		t.Fatalf("write document: %v", err)
	}
	set, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse file: %v", err)
	}
	if set.Len() != 3 {
		t.Fatalf("expected 3 elements, got %d", set.Len())
	}
}
