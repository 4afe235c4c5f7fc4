package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/Pythax76/sftpbridge/internal/models"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
	}
	for _, tt := range tests {
		if got := formatSize(tt.size); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func testListingEntries() []models.DirEntry {
	mtime := time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)
	return []models.DirEntry{
		{Name: "docs", IsDir: true, Mode: "drwxr-xr-x", ModTime: mtime, Origin: models.OriginRemote},
		{Name: ".hidden", IsRegular: true, Size: 10, Mode: "-rw-r--r--", Origin: models.OriginRemote},
		{Name: "report.pdf", IsRegular: true, Size: 2048, Mode: "-rw-r--r--", ModTime: mtime, Origin: models.OriginRemote},
	}
}

func TestPrintEntriesShortFormat(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	if err := printEntries(cmd, testListingEntries(), true, false); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "docs/") {
		t.Error("directories should carry a trailing slash")
	}
	if !strings.Contains(out, "report.pdf") || !strings.Contains(out, ".hidden") {
		t.Errorf("entries missing from output:\n%s", out)
	}
}

func TestPrintEntriesFiltersHidden(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	if err := printEntries(cmd, testListingEntries(), false, false); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), ".hidden") {
		t.Error("hidden entry shown without --all")
	}
}

func TestPrintEntriesLongFormat(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	if err := printEntries(cmd, testListingEntries(), true, true); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "2.0 KB") {
		t.Errorf("long format missing size:\n%s", out)
	}
	if !strings.Contains(out, "2026-03-14") {
		t.Errorf("long format missing modification time:\n%s", out)
	}
	// Directory rows show no size.
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "docs/") && !strings.Contains(line, "-") {
			t.Errorf("directory row should use - for size: %q", line)
		}
	}
}

func TestEntryType(t *testing.T) {
	if got := entryType(models.DirEntry{IsDir: true}); got != "directory" {
		t.Errorf("entryType(dir) = %q", got)
	}
	if got := entryType(models.DirEntry{IsRegular: true}); got != "file" {
		t.Errorf("entryType(file) = %q", got)
	}
	if got := entryType(models.DirEntry{}); got != "other" {
		t.Errorf("entryType(other) = %q", got)
	}
}

func TestLlsHonorsShowHiddenFilesSetting(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"visible.txt", ".secret"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	settingsFile := filepath.Join(t.TempDir(), "settings")
	if err := os.WriteFile(settingsFile, []byte("[sftpbridge]\nshow_hidden_files = true\n"), 0600); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "lls", dir, "--config", settingsFile)
	if err != nil {
		t.Fatalf("lls: %v\n%s", err, out)
	}
	if !strings.Contains(out, ".secret") {
		t.Errorf("show_hidden_files = true should list dotfiles, got:\n%s", out)
	}

	// Defaults hide dotfiles without --all.
	missing := filepath.Join(t.TempDir(), "settings")
	out, err = runCLI(t, "lls", dir, "--config", missing)
	if err != nil {
		t.Fatalf("lls: %v\n%s", err, out)
	}
	if strings.Contains(out, ".secret") {
		t.Errorf("default settings should hide dotfiles, got:\n%s", out)
	}
}
