// Package service implements the activity session: a single active context
// whose current activity receives progress updates and outcome items.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/classbridge/classbridge/internal/activity/domain"
	apperrors "github.com/classbridge/classbridge/internal/errors"
	"github.com/classbridge/classbridge/internal/storage"
	"github.com/classbridge/classbridge/internal/store"
)

const persistTimeout = 5 * time.Second

// ContextStore is the store surface the session drives.
type ContextStore interface {
	Descendant(ctx context.Context, identifierPath []string) (*store.Node, error)
	NewActivity(node *store.Node) (*store.Activity, error)
	SetActive(node *store.Node, active bool)
	Snapshot() ([]storage.NodeSnapshot, []storage.ActivitySnapshot)
	SaveSnapshot(ctx context.Context, nodes []storage.NodeSnapshot, activities []storage.ActivitySnapshot) error
}

// Session tracks at most one active context at a time. It holds only the
// active identifier path and re-resolves the node from the store on every
// operation. All operations are serialized through a mutex.
type Session struct {
	mu     sync.Mutex
	store  ContextStore
	logger *slog.Logger

	activePath []string
}

// NewSession creates a session over the given store. A nil logger falls back
// to slog's default.
func NewSession(st ContextStore, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{store: st, logger: logger}
}

// ActivePath returns the identifier path of the active context, nil when no
// context is active.
func (s *Session) ActivePath() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activePath == nil {
		return nil
	}
	return append([]string(nil), s.activePath...)
}

// Begin activates the context at identifierPath and starts an activity on it.
// With asNew false an existing current activity is resumed in place;
// otherwise a fresh activity replaces it. Reports whether an existing
// activity was restarted.
func (s *Session) Begin(ctx context.Context, identifierPath []string, asNew bool) (restarted bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, err := s.resolve(ctx, identifierPath)
	if err != nil {
		return false, err
	}

	if !asNew && node.CurrentActivity != nil {
		node.CurrentActivity.Start()
		restarted = true
	} else {
		activity, err := s.store.NewActivity(node)
		if err != nil {
			return false, apperrors.Wrap(apperrors.CodeStoreFailure, "could not create activity", err)
		}
		activity.Start()
	}

	// Session state changes only once the activity exists, so a failed
	// begin leaves no active context behind.
	s.store.SetActive(node, true)
	s.activePath = append([]string(nil), identifierPath...)

	s.persist(ctx)
	return restarted, nil
}

// End stops the active context's activity, deactivates the context and
// clears the session. Outcome items, progress and duration are logged before
// the activity stops.
func (s *Session) End(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, activity, err := s.currentActivity(ctx)
	if err != nil {
		return err
	}

	for _, item := range activity.AdditionalItems() {
		s.logger.Info("activity item", "path", s.activePath, "item", item.String())
	}
	if primary, ok := activity.PrimaryItem(); ok {
		s.logger.Info("activity primary item", "path", s.activePath, "item", primary.String())
	}
	s.logger.Info("activity ended",
		"path", s.activePath,
		"progress", activity.Progress(),
		"duration", activity.Duration(),
	)

	activity.Stop()
	s.store.SetActive(node, false)
	s.activePath = nil

	s.persist(ctx)
	return nil
}

// SetProgress overwrites the started activity's progress with an absolute
// value.
func (s *Session) SetProgress(ctx context.Context, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, activity, err := s.startedActivity(ctx)
	if err != nil {
		return err
	}
	activity.SetProgress(value)
	s.logger.Debug("progress set", "path", s.activePath, "progress", activity.Progress())
	return nil
}

// AddProgressRange accumulates the sub-range [start, end] into the started
// activity's cumulative progress.
func (s *Session) AddProgressRange(ctx context.Context, start, end float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, activity, err := s.startedActivity(ctx)
	if err != nil {
		return err
	}
	activity.AddProgressRange(start, end)
	s.logger.Debug("progress range added", "path", s.activePath, "progress", activity.Progress())
	return nil
}

// SetBinaryItem attaches a binary outcome item to the started activity. The
// record is validated before the store is touched.
func (s *Session) SetBinaryItem(ctx context.Context, record domain.BinaryItemRecord) error {
	item, err := record.Item()
	if err != nil {
		return err
	}
	return s.setItem(ctx, item, record.Primary)
}

// SetScoreItem attaches a score outcome item to the started activity.
func (s *Session) SetScoreItem(ctx context.Context, record domain.ScoreItemRecord) error {
	item, err := record.Item()
	if err != nil {
		return err
	}
	return s.setItem(ctx, item, record.Primary)
}

// SetQuantityItem attaches a quantity outcome item to the started activity.
func (s *Session) SetQuantityItem(ctx context.Context, record domain.QuantityItemRecord) error {
	item, err := record.Item()
	if err != nil {
		return err
	}
	return s.setItem(ctx, item, record.Primary)
}

func (s *Session) setItem(ctx context.Context, item store.Item, primary bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, activity, err := s.startedActivity(ctx)
	if err != nil {
		return err
	}
	if primary {
		activity.SetPrimaryItem(item)
	} else {
		activity.AddAdditionalItem(item)
	}
	s.logger.Debug("activity item set", "path", s.activePath, "item", item.String(), "primary", primary)
	return nil
}

func (s *Session) resolve(ctx context.Context, identifierPath []string) (*store.Node, error) {
	node, err := s.store.Descendant(ctx, identifierPath)
	if err != nil {
		if errors.Is(err, store.ErrNodeNotFound) {
			message := fmt.Sprintf("could not find context for identifier path %q", identifierPath)
			return nil, apperrors.Wrap(apperrors.CodeContextNotFound, message, err)
		}
		return nil, apperrors.Wrap(apperrors.CodeStoreFailure, "could not resolve context", err)
	}
	return node, nil
}

// currentActivity re-resolves the active node and returns it with its
// current activity. Callers must hold the mutex.
func (s *Session) currentActivity(ctx context.Context) (*store.Node, *store.Activity, error) {
	if len(s.activePath) == 0 {
		return nil, nil, apperrors.New(apperrors.CodeNoActiveContext, "no active context, begin an activity first")
	}
	node, err := s.resolve(ctx, s.activePath)
	if err != nil {
		return nil, nil, err
	}
	if node.CurrentActivity == nil {
		return nil, nil, apperrors.New(apperrors.CodeActivityNotStarted, "active context has no activity")
	}
	return node, node.CurrentActivity, nil
}

// startedActivity is currentActivity plus a running check, for operations
// that mutate an in-flight activity.
func (s *Session) startedActivity(ctx context.Context) (*store.Node, *store.Activity, error) {
	node, activity, err := s.currentActivity(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !activity.IsStarted() {
		return nil, nil, apperrors.New(apperrors.CodeActivityNotStarted, "activity is not started, begin an activity first")
	}
	return node, activity, nil
}

// persist writes a snapshot without blocking the caller. The capture happens
// synchronously while the caller still holds the session lock, so the
// detached write only ever touches the copied records, never live activity
// state. Failures are logged, never surfaced.
func (s *Session) persist(ctx context.Context) {
	nodes, activities := s.store.Snapshot()
	detached := context.WithoutCancel(ctx)
	go func() {
		saveCtx, cancel := context.WithTimeout(detached, persistTimeout)
		defer cancel()
		if err := s.store.SaveSnapshot(saveCtx, nodes, activities); err != nil {
			s.logger.Warn("could not persist context tree", "error", err)
		}
	}()
}
