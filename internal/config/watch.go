package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Pythax76/sftpbridge/internal/logging"
)

const watchDebounce = 300 * time.Millisecond

// ProfileWatcher reloads a ProfileStore when its backing file changes on
// disk, so edits made by another process (or a text editor) show up without
// restarting. Events are debounced: editors often emit several writes per
// save.
type ProfileWatcher struct {
	store    *ProfileStore
	logger   *logging.Logger
	onReload func()

	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	doneChan chan struct{}

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
}

// WatchProfiles starts watching the store's directory. onReload, when not
// nil, runs after every successful reload. The watcher owns a goroutine
// until Stop is called.
func WatchProfiles(store *ProfileStore, logger *logging.Logger, onReload func()) (*ProfileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory, not the file: editors replace files by rename,
	// which drops a watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(store.Path())); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch profile directory: %w", err)
	}

	pw := &ProfileWatcher{
		store:    store,
		logger:   logger,
		onReload: onReload,
		watcher:  watcher,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
	go pw.run()

	logger.Debug().Str("path", store.Path()).Msg("profile watcher started")
	return pw, nil
}

func (pw *ProfileWatcher) run() {
	defer close(pw.doneChan)
	defer pw.watcher.Close()

	target := filepath.Base(pw.store.Path())
	for {
		select {
		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pw.scheduleReload()

		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			pw.logger.Warn().Err(err).Msg("profile watcher error")

		case <-pw.stopChan:
			return
		}
	}
}

func (pw *ProfileWatcher) scheduleReload() {
	pw.debounceMu.Lock()
	defer pw.debounceMu.Unlock()

	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}
	pw.debounceTimer = time.AfterFunc(watchDebounce, func() {
		if err := pw.store.Reload(); err != nil {
			pw.logger.Warn().Err(err).Msg("profile store reload failed")
			return
		}
		pw.logger.Debug().Str("path", pw.store.Path()).Msg("profile store reloaded")
		if pw.onReload != nil {
			pw.onReload()
		}
	})
}

// Stop halts the watcher and waits for its goroutine to exit.
func (pw *ProfileWatcher) Stop() {
	pw.debounceMu.Lock()
	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
		pw.debounceTimer = nil
	}
	pw.debounceMu.Unlock()

	close(pw.stopChan)
	select {
	case <-pw.doneChan:
	case <-time.After(2 * time.Second):
		pw.logger.Warn().Msg("profile watcher did not stop in time")
	}
}
