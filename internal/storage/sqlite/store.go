// Package sqlite provides SQLite-backed persistence for context tree
// snapshots.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/classbridge/classbridge/internal/platform/storage/sqlitemigrate"
	"github.com/classbridge/classbridge/internal/storage"
	"github.com/classbridge/classbridge/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for context tree snapshots.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates a snapshot SQLite store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// ReplaceTree atomically replaces all persisted nodes and activities.
func (s *Store) ReplaceTree(ctx context.Context, nodes []storage.NodeSnapshot, activities []storage.ActivitySnapshot) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM activities"); err != nil {
		return fmt.Errorf("clear activities: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM nodes"); err != nil {
		return fmt.Errorf("clear nodes: %w", err)
	}

	for _, node := range nodes {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO nodes (path, identifier, title, type, topic, display_order, link, active, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			node.Path,
			node.Identifier,
			node.Title,
			node.Type,
			node.Topic,
			node.DisplayOrder,
			node.Link,
			boolToInt(node.Active),
			node.CreatedAt.UTC().UnixMilli(),
		); err != nil {
			return fmt.Errorf("insert node %s: %w", node.Path, err)
		}
	}

	for _, activity := range activities {
		primaryJSON, err := marshalPrimaryItem(activity.PrimaryItem)
		if err != nil {
			return fmt.Errorf("marshal primary item for %s: %w", activity.NodePath, err)
		}
		additionalJSON, err := marshalAdditionalItems(activity.AdditionalItems)
		if err != nil {
			return fmt.Errorf("marshal additional items for %s: %w", activity.NodePath, err)
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO activities (id, node_path, progress, started, started_at, stopped_at, primary_item, additional_items)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			activity.ID,
			activity.NodePath,
			activity.Progress,
			boolToInt(activity.Started),
			timeToUnixMillis(activity.StartedAt),
			timeToUnixMillis(activity.StoppedAt),
			primaryJSON,
			additionalJSON,
		); err != nil {
			return fmt.Errorf("insert activity %s: %w", activity.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// ListNodes returns all persisted node snapshots ordered by path.
func (s *Store) ListNodes(ctx context.Context) ([]storage.NodeSnapshot, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT path, identifier, title, type, topic, display_order, link, active, created_at
		 FROM nodes ORDER BY path`,
	)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	defer rows.Close()

	var nodes []storage.NodeSnapshot
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}
	return nodes, nil
}

// ListActivities returns all persisted activity snapshots ordered by node path.
func (s *Store) ListActivities(ctx context.Context) ([]storage.ActivitySnapshot, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, node_path, progress, started, started_at, stopped_at, primary_item, additional_items
		 FROM activities ORDER BY node_path`,
	)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []storage.ActivitySnapshot
	for rows.Next() {
		var (
			activity       storage.ActivitySnapshot
			startedInt     int64
			startedAt      int64
			stoppedAt      int64
			primaryJSON    sql.NullString
			additionalJSON string
		)
		if err := rows.Scan(
			&activity.ID,
			&activity.NodePath,
			&activity.Progress,
			&startedInt,
			&startedAt,
			&stoppedAt,
			&primaryJSON,
			&additionalJSON,
		); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activity.Started = startedInt != 0
		activity.StartedAt = unixMillisToTime(startedAt)
		activity.StoppedAt = unixMillisToTime(stoppedAt)
		if primaryJSON.Valid && primaryJSON.String != "" {
			var item storage.ItemSnapshot
			if err := json.Unmarshal([]byte(primaryJSON.String), &item); err != nil {
				return nil, fmt.Errorf("unmarshal primary item: %w", err)
			}
			activity.PrimaryItem = &item
		}
		if additionalJSON != "" {
			if err := json.Unmarshal([]byte(additionalJSON), &activity.AdditionalItems); err != nil {
				return nil, fmt.Errorf("unmarshal additional items: %w", err)
			}
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return activities, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (storage.NodeSnapshot, error) {
	var (
		node      storage.NodeSnapshot
		activeInt int64
		createdAt int64
	)
	if err := row.Scan(
		&node.Path,
		&node.Identifier,
		&node.Title,
		&node.Type,
		&node.Topic,
		&node.DisplayOrder,
		&node.Link,
		&activeInt,
		&createdAt,
	); err != nil {
		return storage.NodeSnapshot{}, err
	}
	node.Active = activeInt != 0
	node.CreatedAt = unixMillisToTime(createdAt)
	return node, nil
}

func marshalPrimaryItem(item *storage.ItemSnapshot) (any, error) {
	if item == nil {
		return nil, nil
	}
	data, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func marshalAdditionalItems(items []storage.ItemSnapshot) (string, error) {
	if items == nil {
		items = []storage.ItemSnapshot{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value == 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}
