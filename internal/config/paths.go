// Package config provides configuration management for sftpbridge: the INI
// settings file, the JSON connection profile store, and filesystem watching
// so external edits to the profile store are picked up while running.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigDirectory returns the directory holding all sftpbridge configuration.
//
// Locations:
//   - Windows: %USERPROFILE%\.config\sftpbridge
//   - Unix: ~/.config/sftpbridge
func ConfigDirectory() (string, error) {
	if runtime.GOOS == "windows" {
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", errors.New("USERPROFILE environment variable not set")
		}
		return filepath.Join(userProfile, ".config", "sftpbridge"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "sftpbridge"), nil
}

// LogDirectory returns the log directory. Falls back to a temp location when
// no home directory can be resolved.
func LogDirectory() string {
	dir, err := ConfigDirectory()
	if err != nil {
		return filepath.Join(os.TempDir(), "sftpbridge-logs")
	}
	return filepath.Join(dir, "logs")
}

// EnsureLogDirectory creates the log directory if it doesn't exist.
// Uses 0700 permissions to restrict access to the owner.
func EnsureLogDirectory() error {
	return os.MkdirAll(LogDirectory(), 0700)
}

// DefaultSettingsPath returns the default path for the settings file.
func DefaultSettingsPath() (string, error) {
	dir, err := ConfigDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "settings"), nil
}

// DefaultProfilesPath returns the default path for the profile store.
func DefaultProfilesPath() (string, error) {
	dir, err := ConfigDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profiles.json"), nil
}
