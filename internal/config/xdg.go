package config

import (
	"log/slog"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appDir = "varispeed"

// ConfigPaths returns prioritized locations for a config file: user config
// dir first, then system config dirs.
func ConfigPaths(filename string) []string {
	var paths []string

	userPath := filepath.Join(xdg.ConfigHome, appDir)
	if filename != "" {
		userPath = filepath.Join(userPath, filename)
	}
	paths = append(paths, userPath)

	for _, dir := range xdg.ConfigDirs {
		systemPath := filepath.Join(dir, appDir)
		if filename != "" {
			systemPath = filepath.Join(systemPath, filename)
		}
		paths = append(paths, systemPath)
	}

	slog.Debug("generated config search paths",
		"filename", filename,
		"total_paths", len(paths))

	return paths
}

// CachePath returns the cache location for a purpose (log files, the history
// database).
func CachePath(purpose string) string {
	base := appDir
	if purpose != "" {
		base = filepath.Join(base, purpose)
	}

	cachePath := filepath.Join(xdg.CacheHome, base)
	slog.Debug("generated cache path", "purpose", purpose, "cache_path", cachePath)
	return cachePath
}
