// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/trimmer-cli/trimmer/constant"
	"github.com/trimmer-cli/trimmer/filesystem"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "TRIMMER_CONFIG_PATH"

// EnvCachePath overrides the request cache directory.
const EnvCachePath = "TRIMMER_CACHE_PATH"

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// The path can be overridden with the TRIMMER_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache resolves the directory holding one request cache file per provider.
func Cache() string {
	if custom, ok := os.LookupEnv(EnvCachePath); ok {
		return ensureDir(custom)
	}

	base, err := os.UserCacheDir()
	if err != nil {
		// no user cache dir on this platform
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

// Logs resolves the absolute path to the directory used for diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Temp resolves a volatile filesystem path for transient artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.App))
}
