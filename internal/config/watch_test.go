package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Pythax76/sftpbridge/internal/logging"
)

func TestProfileWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.json")

	store, err := NewProfileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Add(testProfile("alpha")); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan struct{}, 1)
	pw, err := WatchProfiles(store, logging.Nop(), func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	defer pw.Stop()

	// Simulate an external edit: rewrite the file with a second profile.
	external := `[
  {"name": "alpha", "host": "files.example.com", "username": "demo"},
  {"name": "beta", "host": "other.example.com", "username": "demo"}
]`
	if err := os.WriteFile(path, []byte(external), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never reloaded after external write")
	}

	if _, err := store.Get("beta"); err != nil {
		t.Errorf("externally added profile not visible: %v", err)
	}
}

func TestProfileWatcherStopIsClean(t *testing.T) {
	store, err := NewProfileStore(filepath.Join(t.TempDir(), "profiles.json"))
	if err != nil {
		t.Fatal(err)
	}
	pw, err := WatchProfiles(store, logging.Nop(), nil)
	if err != nil {
		t.Fatal(err)
	}
	pw.Stop()
}
