package storage

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testChapterJSON = `{
	"chapter": "1",
	"title": "test_chapter",
	"scenes": [
		{"id": "intro", "title": "Intro", "text": "hello",
		 "choices": [{"label": "go", "next": "chapter_end"}]}
	]
}`

const testIndexJSON = `[
	{"title": "test_chapter", "file": "chapter1.json"}
]`

func newTestChapterStore(t *testing.T) (*ChapterStore, string) {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewChapterStore(dir, logger), dir
}

func TestChapterStore_ListChapters(t *testing.T) {
	store, dir := newTestChapterStore(t)

	assert.NoError(t, os.WriteFile(filepath.Join(dir, IndexFileName), []byte(testIndexJSON), 0o644))

	entries, err := store.ListChapters()
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "test_chapter", entries[0].Title)
	assert.Equal(t, "chapter1.json", entries[0].File)
}

func TestChapterStore_ListChapters_MissingIndex(t *testing.T) {
	store, _ := newTestChapterStore(t)

	_, err := store.ListChapters()
	assert.Error(t, err)
}

func TestChapterStore_GetChapter(t *testing.T) {
	store, dir := newTestChapterStore(t)

	assert.NoError(t, os.WriteFile(filepath.Join(dir, "chapter1.json"), []byte(testChapterJSON), 0o644))

	ch, err := store.GetChapter("chapter1.json")
	assert.NoError(t, err)
	assert.Equal(t, "test_chapter", ch.Title)
	assert.Equal(t, "intro", ch.FirstSceneID())
}

func TestChapterStore_GetChapter_NotFound(t *testing.T) {
	store, _ := newTestChapterStore(t)

	_, err := store.GetChapter("missing.json")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "chapter not found")
}

func TestChapterStore_GetChapter_NoScenes(t *testing.T) {
	store, dir := newTestChapterStore(t)

	assert.NoError(t, os.WriteFile(filepath.Join(dir, "empty.json"),
		[]byte(`{"chapter": "0", "title": "empty", "scenes": []}`), 0o644))

	_, err := store.GetChapter("empty.json")
	assert.Error(t, err)
}
