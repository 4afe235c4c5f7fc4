package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// Settings holds the application-level configuration shared by the CLI and
// any embedding UI. Connection details live in the profile store, and
// credential material is never written here.
//
// INI format:
//
//	[sftpbridge]
//	log_level = info
//	show_hidden_files = false
//	default_local_dir = /home/user/Downloads
//	connect_timeout_seconds = 30
//
//	[sftpbridge.notifications]
//	enabled = true
//	show_transfer_complete = true
//	show_transfer_failed = true
type Settings struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `ini:"log_level"`

	// ShowHiddenFiles includes dotfiles in directory listings.
	ShowHiddenFiles bool `ini:"show_hidden_files"`

	// DefaultLocalDir is the starting local directory. Empty means the
	// process working directory.
	DefaultLocalDir string `ini:"default_local_dir"`

	// ConnectTimeoutSeconds bounds the SSH dial. Minimum 1, maximum 600.
	ConnectTimeoutSeconds int `ini:"connect_timeout_seconds"`

	Notifications NotificationSettings
}

// NotificationSettings controls desktop notifications.
type NotificationSettings struct {
	Enabled              bool `ini:"enabled"`
	ShowTransferComplete bool `ini:"show_transfer_complete"`
	ShowTransferFailed   bool `ini:"show_transfer_failed"`
}

// Validation errors.
var (
	ErrInvalidLogLevel       = errors.New("log_level must be one of debug, info, warn, error")
	ErrInvalidConnectTimeout = errors.New("connect_timeout_seconds must be between 1 and 600")
)

// NewSettings returns settings with default values.
func NewSettings() *Settings {
	return &Settings{
		LogLevel:              "info",
		ShowHiddenFiles:       false,
		ConnectTimeoutSeconds: 30,
		Notifications: NotificationSettings{
			Enabled:              true,
			ShowTransferComplete: true,
			ShowTransferFailed:   true,
		},
	}
}

// Validate checks value ranges.
func (s *Settings) Validate() error {
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	if s.ConnectTimeoutSeconds < 1 || s.ConnectTimeoutSeconds > 600 {
		return ErrInvalidConnectTimeout
	}
	return nil
}

// LoadSettings loads settings from an INI file. A missing file yields the
// defaults with no error; an unreadable or malformed file is an error.
func LoadSettings(path string) (*Settings, error) {
	cfg := NewSettings()

	if path == "" {
		var err error
		path, err = DefaultSettingsPath()
		if err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	main := iniFile.Section("sftpbridge")
	cfg.LogLevel = main.Key("log_level").MustString(cfg.LogLevel)
	cfg.ShowHiddenFiles = main.Key("show_hidden_files").MustBool(false)
	cfg.DefaultLocalDir = main.Key("default_local_dir").String()
	cfg.ConnectTimeoutSeconds = main.Key("connect_timeout_seconds").MustInt(30)

	notifySection := iniFile.Section("sftpbridge.notifications")
	cfg.Notifications.Enabled = notifySection.Key("enabled").MustBool(true)
	cfg.Notifications.ShowTransferComplete = notifySection.Key("show_transfer_complete").MustBool(true)
	cfg.Notifications.ShowTransferFailed = notifySection.Key("show_transfer_failed").MustBool(true)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveSettings writes settings to an INI file, creating parent directories
// as needed.
func SaveSettings(cfg *Settings, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if path == "" {
		var err error
		path, err = DefaultSettingsPath()
		if err != nil {
			return fmt.Errorf("failed to determine settings path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty()

	main, err := iniFile.NewSection("sftpbridge")
	if err != nil {
		return err
	}
	main.Key("log_level").SetValue(cfg.LogLevel)
	main.Key("show_hidden_files").SetValue(fmt.Sprintf("%t", cfg.ShowHiddenFiles))
	main.Key("default_local_dir").SetValue(cfg.DefaultLocalDir)
	main.Key("connect_timeout_seconds").SetValue(fmt.Sprintf("%d", cfg.ConnectTimeoutSeconds))

	notifySection, err := iniFile.NewSection("sftpbridge.notifications")
	if err != nil {
		return err
	}
	notifySection.Key("enabled").SetValue(fmt.Sprintf("%t", cfg.Notifications.Enabled))
	notifySection.Key("show_transfer_complete").SetValue(fmt.Sprintf("%t", cfg.Notifications.ShowTransferComplete))
	notifySection.Key("show_transfer_failed").SetValue(fmt.Sprintf("%t", cfg.Notifications.ShowTransferFailed))

	if err := iniFile.SaveTo(path); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return os.Chmod(path, 0600)
}
