package storage

import (
	"context"
	"testing"

	"github.com/ametrine/resonance/pkg/progress"
)

func TestMockSaveStore_SaveAndLoad(t *testing.T) {
	saves := NewMockSaveStore()
	ctx := context.Background()

	p := progress.New("intro")
	p.Visit("console")

	if err := saves.Save(ctx, p); err != nil {
		t.Fatalf("Failed to save progress: %v", err)
	}

	loaded, err := saves.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load progress: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected non-nil progress")
	}
	if loaded.Current != "console" {
		t.Errorf("Expected current 'console', got %q", loaded.Current)
	}
}

func TestMockSaveStore_LoadReturnsCopy(t *testing.T) {
	saves := NewMockSaveStore()
	ctx := context.Background()

	p := progress.New("intro")
	if err := saves.Save(ctx, p); err != nil {
		t.Fatalf("Failed to save progress: %v", err)
	}

	// Mutating the original must not reach the stored copy.
	p.Visit("console")

	loaded, err := saves.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load progress: %v", err)
	}
	if loaded.Current != "intro" {
		t.Errorf("Stored copy was mutated: got current %q", loaded.Current)
	}
	if len(loaded.History) != 1 {
		t.Errorf("Stored copy was mutated: got history %v", loaded.History)
	}
}

func TestMockSaveStore_Clear(t *testing.T) {
	saves := NewMockSaveStore()
	ctx := context.Background()

	if err := saves.Save(ctx, progress.New("intro")); err != nil {
		t.Fatalf("Failed to save progress: %v", err)
	}
	if err := saves.Clear(ctx); err != nil {
		t.Fatalf("Failed to clear progress: %v", err)
	}

	loaded, err := saves.Load(ctx)
	if err != nil {
		t.Fatalf("Load after clear should not error: %v", err)
	}
	if loaded != nil {
		t.Error("Expected nil progress after clear")
	}
}
