package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ametrine/resonance/internal/storage"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", name, err)
	}
}

func TestScanChapters_ExcludesIndexFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "chapter1.json", `{"chapter":"1","title":"the_quiet_antenna","scenes":[{"id":"intro"}]}`)
	writeFile(t, dir, "chapter2.json", `{"chapter":"2","title":"the_second_dish","scenes":[{"id":"gate"}]}`)
	// A stale index must never index itself.
	writeFile(t, dir, storage.IndexFileName, `[{"title":"old","file":"old.json"}]`)

	entries, err := scanChapters(dir)
	assert.NoError(t, err)
	assert.Equal(t, []storage.IndexEntry{
		{Title: "the_quiet_antenna", File: "chapter1.json"},
		{Title: "the_second_dish", File: "chapter2.json"},
	}, entries)
}

func TestScanChapters_SkipsUnparseableAndNonJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "chapter1.json", `{"chapter":"1","title":"the_quiet_antenna","scenes":[{"id":"intro"}]}`)
	writeFile(t, dir, "broken.json", `{not json`)
	writeFile(t, dir, "notes.txt", "not a chapter")

	entries, err := scanChapters(dir)
	assert.NoError(t, err)
	assert.Equal(t, []storage.IndexEntry{
		{Title: "the_quiet_antenna", File: "chapter1.json"},
	}, entries)
}

func TestScanChapters_TitleFallsBackToFilename(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "untitled.json", `{"chapter":"1","scenes":[{"id":"intro"}]}`)

	entries, err := scanChapters(dir)
	assert.NoError(t, err)
	assert.Equal(t, []storage.IndexEntry{
		{Title: "untitled.json", File: "untitled.json"},
	}, entries)
}
