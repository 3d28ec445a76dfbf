// Command indexgen scans a chapter directory and writes index.json, the
// ordered chapter listing consumed by the player. The index file itself is
// excluded from the scan.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ametrine/resonance/internal/storage"
	"github.com/ametrine/resonance/pkg/chapter"
)

func main() {
	dir := flag.String("dir", "./data/chapters", "directory containing chapter JSON files")
	flag.Parse()

	entries, err := scanChapters(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "indexgen: %v\n", err)
		os.Exit(1)
	}

	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "indexgen: no chapter files found in %s\n", *dir)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "indexgen: failed to marshal index: %v\n", err)
		os.Exit(1)
	}
	data = append(data, '\n')

	out := filepath.Join(*dir, storage.IndexFileName)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "indexgen: failed to write %s: %v\n", out, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s (%d chapters)\n", out, len(entries))
}

func scanChapters(dir string) ([]storage.IndexEntry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var names []string
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || filepath.Ext(name) != ".json" || name == storage.IndexFileName {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var entries []storage.IndexEntry
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "indexgen: skipping %s: %v\n", name, err)
			continue
		}

		var ch chapter.Chapter
		if err := json.Unmarshal(data, &ch); err != nil {
			fmt.Fprintf(os.Stderr, "indexgen: skipping %s: %v\n", name, err)
			continue
		}

		title := ch.Title
		if title == "" {
			title = name
		}
		entries = append(entries, storage.IndexEntry{Title: title, File: name})
	}

	return entries, nil
}
