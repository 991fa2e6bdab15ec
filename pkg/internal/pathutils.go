package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
)

// GetConfigDir returns the default configuration directory path for the given
// appName on the current operating system.
//
// Behavior:
//   - Windows: if the APPDATA environment variable is set, returns
//     APPDATA\<appName>. If APPDATA is not set, an error is returned.
//   - Unix-like systems: if XDG_CONFIG_HOME is set, returns
//     XDG_CONFIG_HOME/<appName>. Otherwise falls back to $HOME/.config/<appName>.
//
// The returned path is not created by this function.
func GetConfigDir(appName string) (string, error) {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName), nil
		}
		return "", fmt.Errorf("APPDATA environment variable not set")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// GetCacheDir returns the default per-user cache directory for the current OS.
// On Windows it uses %LOCALAPPDATA%\<appName>\cache when LOCALAPPDATA is set.
// On Unix-like systems it uses $XDG_CACHE_HOME when set, otherwise falls back
// to $HOME/.cache. The returned path is not created by this helper.
func GetCacheDir(appName string) (string, error) {
	if runtime.GOOS == "windows" {
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, appName, "cache"), nil
		}
		return "", fmt.Errorf("LOCALAPPDATA environment variable not set")
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// ExpandPath expands a leading "~" to the user's home directory. Empty paths
// are returned unchanged.
func ExpandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	return homedir.Expand(p)
}
