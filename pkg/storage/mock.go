// Package storage provides an in-memory save store for testing.
package storage

import (
	"context"
	"sync"

	"github.com/ametrine/resonance/pkg/progress"
)

// MockSaveStore is an in-memory implementation of progress.SaveStore for
// testing. It stores a deep copy so tests observe persisted state rather
// than shared pointers.
type MockSaveStore struct {
	mu       sync.RWMutex
	saved    *progress.Progress
	loadErr  error
	saveErr  error
	clearErr error
}

// Ensure MockSaveStore implements the save port
var _ progress.SaveStore = (*MockSaveStore)(nil)

// NewMockSaveStore creates an empty mock save store.
func NewMockSaveStore() *MockSaveStore {
	return &MockSaveStore{}
}

// SetLoadError configures Load to fail with the given error.
func (m *MockSaveStore) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// SetSaveError configures Save to fail with the given error.
func (m *MockSaveStore) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// SetClearError configures Clear to fail with the given error.
func (m *MockSaveStore) SetClearError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearErr = err
}

// Seed pre-populates the store with saved progress (for testing restore).
func (m *MockSaveStore) Seed(p *progress.Progress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = clone(p)
}

// Load returns the saved progress, or nil when nothing is stored.
func (m *MockSaveStore) Load(ctx context.Context) (*progress.Progress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return clone(m.saved), nil
}

// Save stores a copy of the progress value.
func (m *MockSaveStore) Save(ctx context.Context, p *progress.Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = clone(p)
	return nil
}

// Clear removes any stored progress.
func (m *MockSaveStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clearErr != nil {
		return m.clearErr
	}
	m.saved = nil
	return nil
}

func clone(p *progress.Progress) *progress.Progress {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Flags = append([]string(nil), p.Flags...)
	cp.History = append([]string(nil), p.History...)
	return &cp
}
