// Package parser streams a context document and extracts the flat element
// records describing the context tree.
//
// The document is a root wrapper element containing repeated context
// elements:
//
//	<root>
//	  <context title="Algebra" identifierPath="math,algebra" type="2"
//	           topic="math" displayOrder="1"/>
//	</root>
//
// No tree pointers are built here; each element carries its full identifier
// path and the set deduplicates by (identifier, path) identity.
package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/classbridge/classbridge/internal/context/domain"
	"github.com/classbridge/classbridge/internal/context/index"
)

const (
	rootElementName    = "root"
	contextElementName = "context"
)

// ErrDocumentNotFound indicates the context document does not exist. It is
// distinct from malformed-document errors.
var ErrDocumentNotFound = errors.New("context document not found")

// UnexpectedElementError indicates the document contains an element name
// other than the root wrapper or a context element.
type UnexpectedElementError struct {
	Name string
}

func (e *UnexpectedElementError) Error() string {
	return fmt.Sprintf("unexpected element %q in context document", e.Name)
}

// ParseFile parses the context document at path.
func ParseFile(path string) (*index.Set, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
		}
		return nil, fmt.Errorf("open context document: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads the document element by element and returns the deduplicated
// element set. A structural error anywhere in the document discards the
// whole result, even when it is encountered after valid elements; the
// traversal still runs to completion so the decoder validates the remainder.
func Parse(r io.Reader) (*index.Set, error) {
	decoder := xml.NewDecoder(r)
	set := index.NewSet()
	depth := 0
	var structural error

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse context document: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch {
			case depth == 0 && t.Name.Local == rootElementName:
				depth++
			case t.Name.Local == contextElementName:
				if element, ok := elementFromAttributes(t.Attr); ok {
					set.Insert(element)
				}
				depth++
			default:
				if structural == nil {
					structural = &UnexpectedElementError{Name: t.Name.Local}
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case rootElementName, contextElementName:
				depth--
			default:
				if structural == nil {
					structural = &UnexpectedElementError{Name: t.Name.Local}
				}
			}
		}
	}

	if structural != nil {
		return nil, structural
	}
	return set, nil
}

// elementFromAttributes derives an element from a context element's
// attribute bag. Attribute order does not matter and unknown attributes are
// ignored. Elements without a usable identifier path are skipped with a
// warning rather than emitted as degenerate elements.
func elementFromAttributes(attributes []xml.Attr) (domain.Element, bool) {
	var (
		title        string
		typ          = domain.TypeNone
		topic        domain.Topic
		displayOrder int
		path         []string
	)

	for _, attr := range attributes {
		switch attr.Name.Local {
		case "title":
			title = attr.Value
		case "identifierPath":
			if attr.Value == "" {
				continue
			}
			for _, segment := range strings.Split(attr.Value, ",") {
				path = append(path, strings.TrimSpace(segment))
			}
		case "type":
			if ordinal, err := strconv.Atoi(attr.Value); err == nil {
				typ = domain.ParseType(ordinal)
			}
		case "topic":
			if parsed, ok := domain.ParseTopic(attr.Value); ok {
				topic = parsed
			}
		case "displayOrder":
			if order, err := strconv.Atoi(attr.Value); err == nil {
				displayOrder = order
			}
		}
	}

	element, err := domain.NewElement(title, typ, topic, displayOrder, path)
	if err != nil {
		slog.Warn("skipping context element without identifier path", "title", title)
		return domain.Element{}, false
	}
	return element, true
}
