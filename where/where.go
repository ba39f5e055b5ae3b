// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/anisan-cli/anibridge/constant"
	"github.com/anisan-cli/anibridge/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "ANIBRIDGE_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// The ANIBRIDGE_CONFIG_PATH environment variable overrides the platform default.
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

// DataCache is the directory holding aggregated listing responses, one JSON file per key.
func DataCache() string {
	return ensureDir(filepath.Join(Cache(), "data_cache"))
}

// Logs resolves the absolute path to the directory used for application logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// CatalogBinds is the file mapping Anilist titles to catalog identifiers.
func CatalogBinds() string {
	return filepath.Join(Cache(), "catalog_binds.json")
}

// CatalogMisses is the file remembering titles without a catalog match.
func CatalogMisses() string {
	return filepath.Join(Cache(), "catalog_misses.json")
}

// Queries resolves the absolute path to the localized search query suggestion registry.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}
