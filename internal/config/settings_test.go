package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewSettingsDefaults(t *testing.T) {
	s := NewSettings()
	if s.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", s.LogLevel)
	}
	if s.ShowHiddenFiles {
		t.Error("hidden files should be off by default")
	}
	if s.ConnectTimeoutSeconds != 30 {
		t.Errorf("ConnectTimeoutSeconds = %d, want 30", s.ConnectTimeoutSeconds)
	}
	if !s.Notifications.Enabled || !s.Notifications.ShowTransferComplete || !s.Notifications.ShowTransferFailed {
		t.Error("notifications should default to fully enabled")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "nonexistent"))
	if err != nil {
		t.Fatal(err)
	}
	if s.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default", s.LogLevel)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings")

	in := NewSettings()
	in.LogLevel = "debug"
	in.ShowHiddenFiles = true
	in.DefaultLocalDir = "/data/incoming"
	in.ConnectTimeoutSeconds = 15
	in.Notifications.ShowTransferFailed = false

	if err := SaveSettings(in, path); err != nil {
		t.Fatal(err)
	}

	out, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if *out != *in {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", out, in)
	}
}

func TestSaveSettingsRestrictsPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings")
	if err := SaveSettings(NewSettings(), path); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := fi.Mode().Perm(); perm&0077 != 0 {
		t.Errorf("settings file permissions %v allow group/other access", perm)
	}
}

func TestSettingsValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		want   error
	}{
		{"bad log level", func(s *Settings) { s.LogLevel = "verbose" }, ErrInvalidLogLevel},
		{"timeout too small", func(s *Settings) { s.ConnectTimeoutSeconds = 0 }, ErrInvalidConnectTimeout},
		{"timeout too large", func(s *Settings) { s.ConnectTimeoutSeconds = 601 }, ErrInvalidConnectTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSettings()
			tt.mutate(s)
			if err := s.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadSettingsRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings")
	content := "[sftpbridge]\nlog_level = shouting\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSettings(path); !errors.Is(err, ErrInvalidLogLevel) {
		t.Errorf("err = %v, want ErrInvalidLogLevel", err)
	}
}
