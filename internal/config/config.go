package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ConfigFilename is the file looked up along the XDG search paths.
const ConfigFilename = "config.json"

// FileLoggingConfig controls rotating file logs.
type FileLoggingConfig struct {
	Enabled    bool   `json:"enabled"`
	Filename   string `json:"filename"` // empty = XDG cache path
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
	Compress   bool   `json:"compress"`
}

// Config is the varispeed configuration.
type Config struct {
	Speed           float64            `json:"speed"`            // Default playback speed multiplier
	Backend         string             `json:"backend"`          // Sink backend (auto, malgo, oto, memory)
	MediaRoot       string             `json:"media_root"`       // Root directory of the media store
	ChunkSize       int                `json:"chunk_size"`       // Samples per pipeline cycle
	LogLevel        string             `json:"log_level"`        // debug, info, warn, error
	TrackingEnabled bool               `json:"tracking_enabled"` // Record session history
	FileLogging     *FileLoggingConfig `json:"file_logging,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	cfg := &Config{
		Speed:           1.0,
		Backend:         "auto",
		MediaRoot:       ".",
		ChunkSize:       2048,
		LogLevel:        "warn",
		TrackingEnabled: true,
		FileLogging: &FileLoggingConfig{
			Enabled:    false,
			Filename:   "",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
	}

	slog.Debug("generated default config",
		"speed", cfg.Speed,
		"backend", cfg.Backend,
		"media_root", cfg.MediaRoot,
		"log_level", cfg.LogLevel)

	return cfg
}

// LoadFromFile loads and validates configuration from a specific file.
func LoadFromFile(filePath string) (*Config, error) {
	slog.Debug("loading config from file", "file_path", filePath)

	data, err := os.ReadFile(filePath)
	if err != nil {
		slog.Error("failed to read config file", "file_path", filePath, "error", err)
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		slog.Error("failed to parse config JSON", "file_path", filePath, "error", err)
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := Validate(cfg); err != nil {
		slog.Error("config validation failed", "file_path", filePath, "error", err)
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	slog.Debug("config loaded successfully", "file_path", filePath)
	return cfg, nil
}

// Load returns the first config file found along the XDG search paths, or
// the defaults when none exists. A malformed config file is an error; a
// missing one is not.
func Load() (*Config, error) {
	for _, path := range ConfigPaths(ConfigFilename) {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFromFile(path)
	}

	slog.Debug("no config file found, using defaults")
	return Default(), nil
}

// Validate checks field ranges. Speed is validated, not clamped: clamping is
// the speed controller's job at play time, but a config file asking for a
// nonsensical value deserves an error.
func Validate(cfg *Config) error {
	if cfg.Speed <= 0 {
		return fmt.Errorf("speed must be positive, got %v", cfg.Speed)
	}
	if cfg.ChunkSize < 0 {
		return fmt.Errorf("chunk_size must not be negative, got %d", cfg.ChunkSize)
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	return nil
}

// LogLevelValue maps the config level name to a slog level.
func (c *Config) LogLevelValue() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// SetupLogging installs the default slog handler per the config: stderr
// always, plus a lumberjack-rotated file when file logging is enabled.
func SetupLogging(cfg *Config) {
	writers := []io.Writer{os.Stderr}

	if cfg.FileLogging != nil && cfg.FileLogging.Enabled {
		logPath := cfg.FileLogging.Filename
		if logPath == "" {
			logPath = filepath.Join(CachePath("logs"), "varispeed.log")
		}

		fileWriter := &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    cfg.FileLogging.MaxSizeMB,
			MaxBackups: cfg.FileLogging.MaxBackups,
			MaxAge:     cfg.FileLogging.MaxAgeDays,
			Compress:   cfg.FileLogging.Compress,
		}
		writers = append(writers, fileWriter)
	}

	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: cfg.LogLevelValue(),
	})
	slog.SetDefault(slog.New(handler))

	slog.Debug("logging setup completed",
		"level", cfg.LogLevelValue().String(),
		"writers", len(writers))
}
