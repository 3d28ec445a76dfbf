package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ametrine/resonance/pkg/progress"
)

// SaveKeyPrefix versions the persisted save document. Bumping it orphans old
// saves instead of trying to migrate them.
const SaveKeyPrefix = "save:v1:"

// RedisSaveStore persists progress as a JSON blob in Redis under a fixed,
// versioned key derived from the chapter file.
type RedisSaveStore struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

// Ensure RedisSaveStore implements the save port
var _ progress.SaveStore = (*RedisSaveStore)(nil)

// NewRedisSaveStore creates a Redis-backed save store for the given chapter
// file.
func NewRedisSaveStore(redisURL string, chapterFile string, logger *slog.Logger) *RedisSaveStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	return &RedisSaveStore{
		client: rdb,
		key:    SaveKeyPrefix + chapterFile,
		logger: logger,
	}
}

func (r *RedisSaveStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisSaveStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisSaveStore) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Load retrieves the saved progress. A missing key or an unparseable blob
// both yield nil: corrupt saves are logged and treated as absent rather than
// surfaced as errors.
func (r *RedisSaveStore) Load(ctx context.Context) (*progress.Progress, error) {
	cmd := r.client.Get(ctx, r.key)
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Debug("No saved progress", "key", r.key)
			return nil, nil
		}
		r.logger.Error("Failed to load progress", "key", r.key, "error", err)
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	data := cmd.Val()
	if data == "" {
		return nil, nil
	}

	var p progress.Progress
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		r.logger.Warn("Discarding corrupt saved progress", "key", r.key, "error", err)
		return nil, nil
	}

	return &p, nil
}

// Save persists the full progress value. Saves never expire.
func (r *RedisSaveStore) Save(ctx context.Context, p *progress.Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		r.logger.Error("Failed to marshal progress", "key", r.key, "error", err)
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	if err := r.client.Set(ctx, r.key, string(data), 0).Err(); err != nil {
		r.logger.Error("Failed to save progress", "key", r.key, "error", err)
		return fmt.Errorf("failed to save progress: %w", err)
	}

	return nil
}

// Clear removes the saved progress.
func (r *RedisSaveStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		r.logger.Error("Failed to clear progress", "key", r.key, "error", err)
		return fmt.Errorf("failed to clear progress: %w", err)
	}
	return nil
}
