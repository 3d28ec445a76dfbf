package storage

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/ametrine/resonance/pkg/progress"
)

func setupTestRedis(t *testing.T) (*RedisSaveStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store := NewRedisSaveStore(mr.Addr(), "chapter1.json", logger)

	return store, mr
}

func TestRedisSaveStore_SaveLoadClear(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer func() {
		_ = store.Close() // Ignore error in defer for test
	}()

	ctx := context.Background()

	// Nothing saved yet.
	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load on empty store should not error: %v", err)
	}
	if loaded != nil {
		t.Errorf("Expected nil progress, got %+v", loaded)
	}

	p := progress.New("intro")
	p.Visit("console")
	p.AddFlags([]string{"read_the_trace"})

	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("Failed to save progress: %v", err)
	}

	loaded, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load progress: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected non-nil progress")
	}
	if loaded.Current != "console" {
		t.Errorf("Expected current 'console', got %q", loaded.Current)
	}
	if len(loaded.History) != 2 {
		t.Errorf("Expected 2 history entries, got %d", len(loaded.History))
	}
	if len(loaded.Flags) != 1 || loaded.Flags[0] != "read_the_trace" {
		t.Errorf("Expected flags [read_the_trace], got %v", loaded.Flags)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Failed to clear progress: %v", err)
	}

	loaded, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("Load after clear should not error: %v", err)
	}
	if loaded != nil {
		t.Error("Expected nil progress after clear")
	}
}

func TestRedisSaveStore_VersionedKey(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer func() {
		_ = store.Close()
	}()

	ctx := context.Background()
	if err := store.Save(ctx, progress.New("intro")); err != nil {
		t.Fatalf("Failed to save progress: %v", err)
	}

	if !mr.Exists("save:v1:chapter1.json") {
		t.Error("Expected progress under the versioned save key")
	}
}

func TestRedisSaveStore_Ping(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer func() {
		_ = store.Close()
	}()

	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping against a running server should succeed: %v", err)
	}
}

func TestRedisSaveStore_WaitForConnection(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer func() {
		_ = store.Close()
	}()

	if err := store.WaitForConnection(context.Background()); err != nil {
		t.Fatalf("WaitForConnection against a running server should succeed: %v", err)
	}

	// With the server gone, the wait gives up when the context expires
	// rather than burning through all retries.
	mr.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := store.WaitForConnection(ctx); err == nil {
		t.Fatal("WaitForConnection against a stopped server should fail")
	}
}

func TestRedisSaveStore_CorruptDataTreatedAsAbsent(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer func() {
		_ = store.Close()
	}()

	if err := mr.Set("save:v1:chapter1.json", "{not json"); err != nil {
		t.Fatalf("Failed to seed corrupt data: %v", err)
	}

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Corrupt save should not error: %v", err)
	}
	if loaded != nil {
		t.Errorf("Expected nil progress for corrupt save, got %+v", loaded)
	}
}

func TestRedisSaveStore_ChapterIsolation(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store1 := NewRedisSaveStore(mr.Addr(), "chapter1.json", logger)
	store2 := NewRedisSaveStore(mr.Addr(), "chapter2.json", logger)
	defer func() {
		_ = store1.Close()
		_ = store2.Close()
	}()

	ctx := context.Background()
	if err := store1.Save(ctx, progress.New("intro")); err != nil {
		t.Fatalf("Failed to save progress: %v", err)
	}

	loaded, err := store2.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load progress: %v", err)
	}
	if loaded != nil {
		t.Error("Chapter 2 should not see chapter 1's save")
	}
}
