package progress

import (
	"context"
	"log/slog"
)

// SaveStore is the persistence port for progress. Load returns nil with no
// error when no usable saved state exists; corrupt data is the backend's
// problem to report as absent. Implementations live in internal/storage and
// pkg/storage (mock).
type SaveStore interface {
	Load(ctx context.Context) (*Progress, error)
	Save(ctx context.Context, p *Progress) error
	Clear(ctx context.Context) error
}

// Store owns the live Progress value for a session. All mutation goes
// through Mutate or Reset, and every mutation is handed to the save port.
// Persistence failures are logged, never fatal: the in-memory state is
// authoritative for the running session.
type Store struct {
	saves   SaveStore
	logger  *slog.Logger
	current *Progress
}

// NewStore restores prior progress from the save port, falling back to fresh
// progress at the given opening scene when nothing usable is saved.
func NewStore(ctx context.Context, firstSceneID string, saves SaveStore, logger *slog.Logger) *Store {
	s := &Store{
		saves:  saves,
		logger: logger,
	}

	restored, err := saves.Load(ctx)
	if err != nil {
		logger.Warn("Failed to load saved progress, starting fresh", "error", err)
	}
	if restored != nil && restored.Current != "" {
		s.current = restored
		logger.Debug("Restored saved progress",
			"current", restored.Current,
			"flags", len(restored.Flags),
			"visited", len(restored.History))
	} else {
		s.current = New(firstSceneID)
	}

	return s
}

// Progress returns the live progress value. Callers other than the
// transition controller must treat it as read-only.
func (s *Store) Progress() *Progress { return s.current }

// Current returns the current scene id (or the terminal marker).
func (s *Store) Current() string { return s.current.Current }

// Flags returns the earned flag set in insertion order.
func (s *Store) Flags() []string { return s.current.Flags }

// History returns the ordered visit history, duplicates included.
func (s *Store) History() []string { return s.current.History }

// IsComplete reports whether the terminal marker has been reached.
func (s *Store) IsComplete() bool { return s.current.Complete }

// Mutate applies fn to the progress value and persists the result.
func (s *Store) Mutate(ctx context.Context, fn func(*Progress)) {
	fn(s.current)
	if err := s.saves.Save(ctx, s.current); err != nil {
		s.logger.Error("Failed to persist progress", "error", err)
	}
}

// Reset clears persisted state and replaces the progress value with fresh
// progress at the given opening scene.
func (s *Store) Reset(ctx context.Context, firstSceneID string) {
	if err := s.saves.Clear(ctx); err != nil {
		s.logger.Error("Failed to clear saved progress", "error", err)
	}
	s.current = New(firstSceneID)
}
