package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ametrine/resonance/pkg/progress"
)

// FileSaveStore persists progress as a single JSON file in a save directory.
// It is the zero-dependency backend for local play.
type FileSaveStore struct {
	path   string
	logger *slog.Logger
}

// Ensure FileSaveStore implements the save port
var _ progress.SaveStore = (*FileSaveStore)(nil)

// NewFileSaveStore creates a file-backed save store for the given chapter
// file. The save filename carries the same versioned key as the Redis
// backend, flattened for the filesystem.
func NewFileSaveStore(saveDir string, chapterFile string, logger *slog.Logger) *FileSaveStore {
	name := strings.ReplaceAll(SaveKeyPrefix+chapterFile, ":", "_")
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return &FileSaveStore{
		path:   filepath.Join(saveDir, name),
		logger: logger,
	}
}

// Load reads the save file. A missing file or unparseable contents yield nil.
func (f *FileSaveStore) Load(ctx context.Context) (*progress.Progress, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read save file: %w", err)
	}

	var p progress.Progress
	if err := json.Unmarshal(data, &p); err != nil {
		f.logger.Warn("Discarding corrupt save file", "path", f.path, "error", err)
		return nil, nil
	}

	return &p, nil
}

// Save writes the full progress value, creating the save directory if
// needed.
func (f *FileSaveStore) Save(ctx context.Context, p *progress.Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write save file: %w", err)
	}

	return nil
}

// Clear removes the save file if present.
func (f *FileSaveStore) Clear(ctx context.Context) error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove save file: %w", err)
	}
	return nil
}
