package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for an explicit config path.
	EnvConfigPath = "UNTANGLE_CONFIG"
	// FileName is the config file name looked up in the working directory.
	FileName = "untangle.toml"
	// DirName is the directory name under the XDG base directories.
	DirName = "untangle"
)

// FindPath returns the first existing config file in priority order, or
// the empty string.
func FindPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && fileExists(path) {
		return path
	}
	if fileExists(FileName) {
		if abs, err := filepath.Abs(FileName); err == nil {
			return abs
		}
		return FileName
	}
	if dir := configHome(); dir != "" {
		path := filepath.Join(dir, DirName, "config.toml")
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// DefaultPath returns where a new config file is written.
func DefaultPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	if dir := configHome(); dir != "" {
		return filepath.Join(dir, DirName, "config.toml")
	}
	return FileName
}

// DataDir returns the directory for saves and databases:
// $XDG_DATA_HOME/untangle, ~/.local/share/untangle, or ./.untangle.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, DirName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", DirName)
	}
	return "." + DirName
}

func configHome() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config")
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
