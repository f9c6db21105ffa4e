// Package resolver materializes node descriptors for identifier paths by
// walking the parsed element set. The store invokes it once per missing path
// segment as it lazily expands its tree top-down.
package resolver

import (
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/classbridge/classbridge/internal/context/domain"
	"github.com/classbridge/classbridge/internal/context/index"
)

// Resolver answers node-materialization requests against a shared element
// set. It holds no per-call state and never memoizes: every request re-walks
// the set.
type Resolver struct {
	mu        sync.RWMutex
	set       *index.Set
	urlPrefix string
}

// New creates a resolver over the given element set.
func New(set *index.Set) *Resolver {
	return &Resolver{set: set}
}

// SetElements swaps in a freshly parsed element set.
func (r *Resolver) SetElements(set *index.Set) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set = set
}

// Elements returns the current element set.
func (r *Resolver) Elements() *index.Set {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.set
}

// SetURLPrefix configures the deep-link URL prefix. An empty prefix disables
// link construction.
func (r *Resolver) SetURLPrefix(prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.urlPrefix = strings.TrimSpace(prefix)
}

// CreateNode resolves the element at parentPath + [identifier] and returns a
// descriptor the store can build its native node from. It reports false when
// any path segment does not resolve; the store treats that as "no such
// node".
func (r *Resolver) CreateNode(identifier string, parentPath []string) (domain.Descriptor, bool) {
	r.mu.RLock()
	set := r.set
	prefix := r.urlPrefix
	r.mu.RUnlock()

	fullPath := make([]string, 0, len(parentPath)+1)
	fullPath = append(fullPath, parentPath...)
	fullPath = append(fullPath, identifier)

	if set == nil {
		slog.Warn("no elements installed, cannot materialize node", "path", strings.Join(fullPath, "/"))
		return domain.Descriptor{}, false
	}

	root, ok := set.FirstMatching(fullPath[0])
	if !ok {
		slog.Warn("could not materialize node", "identifier", fullPath[0])
		return domain.Descriptor{}, false
	}
	element, ok := set.Descendant(root, fullPath[1:])
	if !ok {
		slog.Warn("could not materialize node", "path", strings.Join(fullPath, "/"))
		return domain.Descriptor{}, false
	}

	return domain.Descriptor{
		Type:           element.Type,
		Identifier:     element.Identifier,
		Title:          element.Title,
		DisplayOrder:   element.DisplayOrder,
		Topic:          element.Topic,
		IdentifierPath: fullPath,
		Link:           deepLink(prefix, fullPath),
	}, true
}

// deepLink joins the path with slashes, percent-encodes each segment and
// appends it to the configured prefix. Returns empty when no prefix is set.
func deepLink(prefix string, path []string) string {
	if prefix == "" {
		return ""
	}
	escaped := make([]string, len(path))
	for i, segment := range path {
		escaped[i] = url.PathEscape(segment)
	}
	return prefix + strings.Join(escaped, "/")
}
