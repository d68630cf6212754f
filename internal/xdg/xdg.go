// Package xdg provides XDG Base Directory paths for pais.
//
// Setting PAIS_DIR collapses config and data into that single directory,
// which is how a self-contained installation is laid out.
package xdg

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "pais"

// EnvDir overrides every pais directory when set.
const EnvDir = "PAIS_DIR"

// ConfigDir returns the config directory for pais.
// Checks PAIS_DIR, then XDG_CONFIG_HOME, and falls back to ~/.config.
func ConfigDir() string {
	if dir := os.Getenv(EnvDir); dir != "" {
		return dir
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appName)
}

// DataDir returns the data directory for pais.
// Checks PAIS_DIR, then XDG_DATA_HOME, and falls back to ~/.local/share.
func DataDir() string {
	if dir := os.Getenv(EnvDir); dir != "" {
		return dir
	}
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".local", "share")
	}
	return filepath.Join(base, appName)
}

// ConfigFile returns the default config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// PluginsDir returns the default package root.
func PluginsDir() string {
	return filepath.Join(ConfigDir(), "plugins")
}

// HistoryDir returns the default audit trail directory.
func HistoryDir() string {
	return filepath.Join(DataDir(), "history")
}

// EnsureDir creates a directory and all parent directories if they don't exist.
// Directories are created with 0700 permissions.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}
