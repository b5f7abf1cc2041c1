package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/thoreinstein/attest/internal/errors"
)

// AppDir is the directory name used beneath the XDG base directories.
const AppDir = "attest"

// ConfigDirEnv overrides the configuration directory when set.
const ConfigDirEnv = "ATTEST_CONFIG_DIR"

// DefaultRulesFile is the rule file name looked up in the config directory.
const DefaultRulesFile = "rules.yaml"

// ErrHomeDirNotFound indicates the user's home directory could not be determined.
var ErrHomeDirNotFound = errors.New("home directory not found")

// Home returns the user's home directory.
// It returns an empty string on error. Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ExpandHome replaces a leading "~" in path with the user's home directory.
// Paths without the prefix are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := ResolveHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ConfigHome returns the XDG config home directory.
// On Linux/macOS: $XDG_CONFIG_HOME or ~/.config
func ConfigHome() string {
	return xdg.ConfigHome
}

// ConfigDir returns the attest configuration directory.
// ATTEST_CONFIG_DIR takes precedence over $XDG_CONFIG_HOME/attest.
func ConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}
	return filepath.Join(ConfigHome(), AppDir)
}

// RulesFile returns the default rule file path inside ConfigDir.
func RulesFile() string {
	return filepath.Join(ConfigDir(), DefaultRulesFile)
}
