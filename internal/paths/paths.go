// Package paths locates the per-user files of the argutil command.
package paths

import (
	"os"
	"path/filepath"
)

const appDirName = "argutil"

// AppDataDir returns the per-user configuration directory of the command.
// ARGUTIL_HOME overrides it. Otherwise os.UserConfigDir() is used:
//   - macOS: ~/Library/Application Support/argutil
//   - Linux: $XDG_CONFIG_HOME/argutil or ~/.config/argutil
//   - Windows: %AppData%\argutil
func AppDataDir() string {
	if dir := os.Getenv("ARGUTIL_HOME"); dir != "" {
		return dir
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, appDirName)
}

// DefaultsFilePath returns the defaults document holding the command's own
// persisted option values.
func DefaultsFilePath() string {
	return filepath.Join(AppDataDir(), "defaults.json")
}

// LogFilePath returns the path of the debug log.
func LogFilePath() string {
	return filepath.Join(AppDataDir(), "argutil.log")
}
