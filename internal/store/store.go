// Package store implements the context tree store: a lazily materialized
// tree of nodes, each able to host a tracked activity. Nodes are created
// top-down on demand by asking a NodeProvider for descriptors, one call per
// missing path segment.
//
// The store assumes a single logical owner: the activity session serializes
// all mutating operations. The internal lock only protects tree shape;
// snapshot captures read live activity state, so they run on the owner's
// goroutine and only the persisted write may be detached.
package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/classbridge/classbridge/internal/context/domain"
	"github.com/classbridge/classbridge/internal/platform/id"
	"github.com/classbridge/classbridge/internal/storage"
)

// ErrNodeNotFound indicates an identifier path that does not resolve to any
// node, either materialized or materializable.
var ErrNodeNotFound = errors.New("node not found")

// NodeProvider materializes node descriptors on demand. The store calls it
// once per missing path segment while walking an identifier path.
type NodeProvider interface {
	CreateNode(identifier string, parentPath []string) (domain.Descriptor, bool)
}

// Node is one materialized tree node with an optional current activity.
type Node struct {
	Descriptor      domain.Descriptor
	Active          bool
	CurrentActivity *Activity
	CreatedAt       time.Time

	parent   *Node
	children map[string]*Node
}

// IdentifierPath returns the node's full path; empty for the root.
func (n *Node) IdentifierPath() []string {
	return n.Descriptor.IdentifierPath
}

// Store is the context tree store.
type Store struct {
	mu        sync.Mutex
	provider  NodeProvider
	snapshots storage.SnapshotStore
	root      *Node
	clock     func() time.Time
	newID     func() (string, error)
}

// New creates a store backed by the given provider. snapshots may be nil, in
// which case Save is a no-op.
func New(provider NodeProvider, snapshots storage.SnapshotStore) *Store {
	s := &Store{
		provider:  provider,
		snapshots: snapshots,
		clock:     time.Now,
		newID:     id.NewID,
	}
	s.root = &Node{children: make(map[string]*Node), CreatedAt: s.clock()}
	return s
}

// Descendant resolves identifierPath from the root, materializing missing
// nodes through the provider. It fails with ErrNodeNotFound as soon as a
// segment cannot be materialized; nodes created for earlier segments are
// kept.
func (s *Store) Descendant(ctx context.Context, identifierPath []string) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(identifierPath) == 0 {
		return nil, ErrNodeNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.root
	for i, segment := range identifierPath {
		child, ok := current.children[segment]
		if !ok {
			descriptor, ok := s.provider.CreateNode(segment, identifierPath[:i])
			if !ok {
				return nil, ErrNodeNotFound
			}
			child = &Node{
				Descriptor: descriptor,
				CreatedAt:  s.clock(),
				parent:     current,
				children:   make(map[string]*Node),
			}
			current.children[segment] = child
		}
		current = child
	}
	return current, nil
}

// Contexts returns all materialized nodes matching the predicate, excluding
// the root. A nil predicate matches everything.
func (s *Store) Contexts(ctx context.Context, predicate func(*Node) bool) ([]*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*Node
	var walk func(*Node)
	walk = func(node *Node) {
		if node != s.root && (predicate == nil || predicate(node)) {
			matched = append(matched, node)
		}
		for _, child := range node.children {
			walk(child)
		}
	}
	walk(s.root)
	return matched, nil
}

// Remove detaches node from the tree along with its subtree. Removing the
// root is a no-op.
func (s *Store) Remove(node *Node) {
	if node == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	parent := node.parent
	if parent == nil {
		return
	}
	delete(parent.children, node.Descriptor.Identifier)
	node.parent = nil
}

// SetActive flags or clears node as an active context. The write happens
// under the tree lock so concurrent snapshot walks read a settled value.
func (s *Store) SetActive(node *Node, active bool) {
	s.mu.Lock()
	node.Active = active
	s.mu.Unlock()
}

// NewActivity creates a fresh activity and installs it as node's current
// activity, replacing any existing one.
func (s *Store) NewActivity(node *Node) (*Activity, error) {
	activityID, err := s.newID()
	if err != nil {
		return nil, err
	}
	activity := &Activity{ID: activityID, clock: s.clock}

	s.mu.Lock()
	node.CurrentActivity = activity
	s.mu.Unlock()

	return activity, nil
}

// Snapshot captures the whole materialized tree as detached snapshot
// records. The walk reads live node and activity state, so callers that
// mutate that state must not do so concurrently; the activity session
// captures while holding its own lock and hands the copies to a background
// write.
func (s *Store) Snapshot() ([]storage.NodeSnapshot, []storage.ActivitySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var nodes []storage.NodeSnapshot
	var activities []storage.ActivitySnapshot
	var walk func(*Node)
	walk = func(node *Node) {
		if node != s.root {
			nodes = append(nodes, nodeSnapshot(node))
			if node.CurrentActivity != nil {
				activities = append(activities, activitySnapshot(node))
			}
		}
		for _, child := range node.children {
			walk(child)
		}
	}
	walk(s.root)
	return nodes, activities
}

// SaveSnapshot writes a previously captured snapshot. A nil snapshot store
// makes it a no-op so the store can run purely in memory.
func (s *Store) SaveSnapshot(ctx context.Context, nodes []storage.NodeSnapshot, activities []storage.ActivitySnapshot) error {
	if s.snapshots == nil {
		return nil
	}
	return s.snapshots.ReplaceTree(ctx, nodes, activities)
}

// Save captures the tree and writes it in one step.
func (s *Store) Save(ctx context.Context) error {
	nodes, activities := s.Snapshot()
	return s.SaveSnapshot(ctx, nodes, activities)
}

func joinPath(path []string) string {
	return strings.Join(path, "/")
}

func nodeSnapshot(node *Node) storage.NodeSnapshot {
	descriptor := node.Descriptor
	return storage.NodeSnapshot{
		Path:         joinPath(descriptor.IdentifierPath),
		Identifier:   descriptor.Identifier,
		Title:        descriptor.Title,
		Type:         int(descriptor.Type),
		Topic:        string(descriptor.Topic),
		DisplayOrder: descriptor.DisplayOrder,
		Link:         descriptor.Link,
		Active:       node.Active,
		CreatedAt:    node.CreatedAt,
	}
}

func activitySnapshot(node *Node) storage.ActivitySnapshot {
	activity := node.CurrentActivity
	snapshot := storage.ActivitySnapshot{
		ID:        activity.ID,
		NodePath:  joinPath(node.Descriptor.IdentifierPath),
		Progress:  activity.Progress(),
		Started:   activity.IsStarted(),
		StartedAt: activity.StartedAt(),
		StoppedAt: activity.StoppedAt(),
	}
	if primary, ok := activity.PrimaryItem(); ok {
		item := itemSnapshot(primary)
		snapshot.PrimaryItem = &item
	}
	for _, item := range activity.AdditionalItems() {
		snapshot.AdditionalItems = append(snapshot.AdditionalItems, itemSnapshot(item))
	}
	return snapshot
}

func itemSnapshot(item Item) storage.ItemSnapshot {
	return storage.ItemSnapshot{
		Kind:       item.Kind.String(),
		Identifier: item.Identifier,
		Title:      item.Title,
		BinaryType: int(item.BinaryType),
		Correct:    item.Correct,
		Score:      item.Score,
		MaxScore:   item.MaxScore,
		Quantity:   item.Quantity,
	}
}
