// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/filmscout/filmscout/constant"
	"github.com/filmscout/filmscout/filesystem"
	"github.com/filmscout/filmscout/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "FILMSCOUT_CONFIG_PATH"

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// The path can be overridden with the FILMSCOUT_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

// Logs resolves the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Profile resolves the browser user-data directory that carries the persistent site identity.
func Profile() string {
	if custom := viper.GetString(key.BrowserProfile); custom != "" {
		return ensureDir(custom)
	}
	return ensureDir(filepath.Join(Config(), "profile"))
}

// Cookies resolves the sidecar file holding the last injected cookie set.
func Cookies() string {
	return filepath.Join(Config(), "cookies.json")
}

// Links resolves the directory of cached stream link lists.
func Links() string {
	return ensureDir(filepath.Join(Cache(), "links"))
}

// History resolves the record of titles opened by the scraper.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Queries resolves the absolute path to the search query suggestion registry.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}

// Temp resolves a volatile filesystem path for transient application artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.App))
}
