// Package where resolves the per-user paths the application keeps its state in.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/tubecycle/tubecycle/constant"
	"github.com/tubecycle/tubecycle/filesystem"
)

// EnvConfigPath overrides the configuration directory.
const EnvConfigPath = "TUBECYCLE_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config is the configuration directory: $TUBECYCLE_CONFIG_PATH, else the platform user config dir.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache is the cache directory; falls back to ./cache when the platform has none.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Pins is the pinned videos store.
func Pins() string {
	return filepath.Join(Config(), "pins.json")
}

// Queries is the search history used for suggestions.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}

// Searches holds cached YouTube search result pages.
func Searches() string {
	return ensureDir(filepath.Join(Cache(), "search"))
}

// Temp holds transient artifacts such as mpv IPC sockets.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.App))
}
