package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/ametrine/resonance/internal/config"
	"github.com/ametrine/resonance/internal/logger"
	"github.com/ametrine/resonance/internal/storage"
	"github.com/ametrine/resonance/pkg/progress"
)

// redisConnectTimeout bounds the startup wait for the redis backend. A
// backend that never comes up surfaces as a chapter load error in the UI.
const redisConnectTimeout = 10 * time.Second

// newSaveStoreFactory returns the per-chapter save store constructor for the
// configured backend. The redis backend is verified reachable before it is
// handed out, so connection failures surface at chapter load rather than on
// the first save.
func newSaveStoreFactory(cfg *config.Config, log *slog.Logger) func(chapterFile string) (progress.SaveStore, error) {
	return func(chapterFile string) (progress.SaveStore, error) {
		if cfg.Storage == config.StorageRedis {
			rs := storage.NewRedisSaveStore(cfg.RedisURL, chapterFile, log)
			ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
			defer cancel()
			if err := rs.WaitForConnection(ctx); err != nil {
				_ = rs.Close()
				return nil, fmt.Errorf("redis backend unavailable: %w", err)
			}
			return rs, nil
		}
		return storage.NewFileSaveStore(cfg.SaveDir, chapterFile, log), nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Structured logs go to a file so they don't fight the TUI for the
	// terminal.
	if err := os.MkdirAll(cfg.SaveDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create save directory: %v\n", err)
		os.Exit(1)
	}
	logFile, err := os.OpenFile(filepath.Join(cfg.SaveDir, "resonance.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logFile.Close() // Ignore error in defer
	}()

	log := logger.Setup(cfg, logFile).With("session", uuid.New().String())
	log.Info("Starting player",
		"environment", cfg.Environment,
		"data_dir", cfg.DataDir,
		"storage", cfg.Storage)

	chapters := storage.NewChapterStore(cfg.DataDir, log)
	saves := newSaveStoreFactory(cfg, log)

	p := tea.NewProgram(NewUI(chapters, saves, log),
		tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
