// Package dirs provides XDG Base Directory Specification compliant paths
// for exectimer directories.
package dirs

import (
	"os"
	"path/filepath"
)

// LocalDirName is the per-project config directory looked up in the
// working directory.
const LocalDirName = ".exectimer"

// ConfigDir returns the exectimer configuration directory.
// Resolution order: EXECTIMER_CONFIG_DIR > XDG_CONFIG_HOME/exectimer > ~/.config/exectimer.
func ConfigDir() string {
	if dir := os.Getenv("EXECTIMER_CONFIG_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "exectimer")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "exectimer")
	}
	return filepath.Join(home, ".config", "exectimer")
}

// LocalDir returns the .exectimer directory inside dir if it exists.
func LocalDir(dir string) string {
	candidate := filepath.Join(dir, LocalDirName)
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		return candidate
	}
	return ""
}
