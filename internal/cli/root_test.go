package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()
	if cmd == nil {
		t.Fatal("NewRootCmd() returned nil")
	}
	if cmd.Use != "sftpbridge" {
		t.Errorf("Use = %q, want sftpbridge", cmd.Use)
	}

	for _, flag := range []string{"profile", "host", "port", "user", "key", "config", "profiles", "verbose"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("--%s flag not found", flag)
		}
	}
}

func TestAddCommandsRegistersAll(t *testing.T) {
	root := NewRootCmd()
	AddCommands(root)

	want := []string{"ls", "lls", "stat", "get", "put", "mkdir", "rm", "rmdir", "rename", "profile"}
	registered := make(map[string]bool)
	for _, c := range root.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestCommandRunCreatesLogFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	root := NewRootCmd()
	AddCommands(root)
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"profile", "list",
		"--profiles", filepath.Join(t.TempDir(), "profiles.json"),
		"--config", filepath.Join(t.TempDir(), "settings")})
	if err := root.Execute(); err != nil {
		t.Fatalf("profile list: %v\n%s", err, buf.String())
	}

	logPath := filepath.Join(home, ".config", "sftpbridge", "logs", "sftpbridge.log")
	if _, err := os.Stat(logPath); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestGetContextFallsBackToBackground(t *testing.T) {
	rootContext = nil
	if ctx := GetContext(); ctx != context.Background() {
		t.Error("GetContext() before Execute() should be context.Background()")
	}
}

func TestGetSettingsFallsBackToDefaults(t *testing.T) {
	settings = nil
	s := GetSettings()
	if s == nil || s.LogLevel != "info" {
		t.Errorf("GetSettings() fallback = %+v, want defaults", s)
	}
}

func TestLevelFromName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"error", "error"},
		{"unknown", "info"},
	}
	for _, tt := range tests {
		if got := levelFromName(tt.name).String(); got != tt.want {
			t.Errorf("levelFromName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
