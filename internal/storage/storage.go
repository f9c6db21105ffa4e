// Package storage defines the persistence boundary for context tree
// snapshots. The live tree is owned by the store; snapshots are a write-side
// durability record saved after mutating operations.
package storage

import (
	"context"
	"time"
)

// NodeSnapshot is the persisted form of one materialized tree node.
type NodeSnapshot struct {
	// Path is the slash-joined identifier path and the primary key.
	Path         string
	Identifier   string
	Title        string
	Type         int
	Topic        string
	DisplayOrder int
	Link         string
	Active       bool
	CreatedAt    time.Time
}

// ItemSnapshot is the persisted form of one activity outcome item.
type ItemSnapshot struct {
	Kind       string  `json:"kind"`
	Identifier string  `json:"identifier"`
	Title      string  `json:"title"`
	BinaryType int     `json:"binaryType,omitempty"`
	Correct    bool    `json:"correct,omitempty"`
	Score      float64 `json:"score,omitempty"`
	MaxScore   float64 `json:"maxScore,omitempty"`
	Quantity   float64 `json:"quantity,omitempty"`
}

// ActivitySnapshot is the persisted form of a node's current activity.
type ActivitySnapshot struct {
	ID              string
	NodePath        string
	Progress        float64
	Started         bool
	StartedAt       time.Time
	StoppedAt       time.Time
	PrimaryItem     *ItemSnapshot
	AdditionalItems []ItemSnapshot
}

// SnapshotStore persists context tree snapshots.
type SnapshotStore interface {
	// ReplaceTree atomically replaces all persisted nodes and activities
	// with the given state.
	ReplaceTree(ctx context.Context, nodes []NodeSnapshot, activities []ActivitySnapshot) error
	// ListNodes returns all persisted node snapshots.
	ListNodes(ctx context.Context) ([]NodeSnapshot, error)
	// ListActivities returns all persisted activity snapshots.
	ListActivities(ctx context.Context) ([]ActivitySnapshot, error)
}
