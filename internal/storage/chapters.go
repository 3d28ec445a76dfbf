package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ametrine/resonance/pkg/chapter"
)

// IndexFileName is the chapter index written by cmd/indexgen. The index is
// the source of truth for chapter ordering and display titles.
const IndexFileName = "index.json"

// IndexEntry is one row of the chapter index.
type IndexEntry struct {
	Title string `json:"title"`
	File  string `json:"file"`
}

// ChapterStore loads authored chapter data from the filesystem.
type ChapterStore struct {
	dataDir string
	logger  *slog.Logger
}

// NewChapterStore creates a chapter store over the given data directory.
func NewChapterStore(dataDir string, logger *slog.Logger) *ChapterStore {
	if dataDir == "" {
		dataDir = "./data/chapters"
	}
	return &ChapterStore{
		dataDir: dataDir,
		logger:  logger,
	}
}

// ListChapters reads the chapter index and returns its entries in order.
func (c *ChapterStore) ListChapters() ([]IndexEntry, error) {
	path := filepath.Join(c.dataDir, IndexFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chapter index: %w", err)
	}

	var entries []IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chapter index: %w", err)
	}

	return entries, nil
}

// GetChapter reads and unmarshals a single chapter file by name.
func (c *ChapterStore) GetChapter(filename string) (*chapter.Chapter, error) {
	path := filepath.Join(c.dataDir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("chapter not found: %s", filename)
		}
		return nil, fmt.Errorf("failed to read chapter file: %w", err)
	}

	var ch chapter.Chapter
	if err := json.Unmarshal(data, &ch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chapter: %w", err)
	}

	if len(ch.Scenes) == 0 {
		return nil, fmt.Errorf("chapter %s has no scenes", filename)
	}

	return &ch, nil
}
