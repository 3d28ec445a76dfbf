package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage backend selectors.
const (
	StorageFile  = "file"
	StorageRedis = "redis"
)

type Config struct {
	Environment string
	LogLevel    slog.Level
	DataDir     string // Directory holding chapter files and index.json
	Storage     string // Save backend: "file" or "redis"
	SaveDir     string // Save directory for the file backend
	RedisURL    string // host:port for the redis backend
}

// fileSettings is the optional YAML settings file. Values set here override
// the built-in defaults; environment variables override both.
type fileSettings struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	DataDir     string `yaml:"data_dir"`
	Storage     string `yaml:"storage"`
	SaveDir     string `yaml:"save_dir"`
	RedisURL    string `yaml:"redis_url"`
}

// Load builds configuration from defaults, an optional settings file
// (RESONANCE_CONFIG or ~/.resonance.yaml), and environment variables, in
// increasing precedence.
func Load() (*Config, error) {
	fs, err := loadSettingsFile()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: pick(os.Getenv("ENVIRONMENT"), fs.Environment, "development"),
		LogLevel:    parseLogLevel(pick(os.Getenv("LOG_LEVEL"), fs.LogLevel, "info")),
		DataDir:     pick(os.Getenv("DATA_DIR"), fs.DataDir, "./data/chapters"),
		Storage:     strings.ToLower(pick(os.Getenv("STORAGE"), fs.Storage, StorageFile)),
		SaveDir:     pick(os.Getenv("SAVE_DIR"), fs.SaveDir, ".saves"),
		RedisURL:    pick(os.Getenv("REDIS_URL"), fs.RedisURL, "localhost:6379"),
	}

	if cfg.Storage != StorageFile && cfg.Storage != StorageRedis {
		return nil, fmt.Errorf("unknown storage backend %q (want %q or %q)", cfg.Storage, StorageFile, StorageRedis)
	}

	return cfg, nil
}

func loadSettingsFile() (fileSettings, error) {
	var fs fileSettings

	path := os.Getenv("RESONANCE_CONFIG")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fs, nil
		}
		path = filepath.Join(home, ".resonance.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return fs, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &fs); err != nil {
		return fs, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	return fs, nil
}

func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
