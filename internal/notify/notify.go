// Package notify defines the observer contract the session manager and
// transfer engine report through, plus a desktop notifier implementation
// using github.com/gen2brain/beeep.
//
// Observers are fire-and-forget: the engine never blocks waiting for one and
// makes no guarantee about which goroutine invokes it. A UI must marshal the
// callback onto its own event loop.
package notify

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/Pythax76/sftpbridge/internal/logging"
)

// StatusFunc receives human-readable status transitions ("connecting",
// "connected to HOST", "disconnected", ...).
type StatusFunc func(status string)

// ProgressFunc receives byte-granularity transfer progress. total is 0 while
// the total size is not yet known.
type ProgressFunc func(transferred, total int64)

// Config holds desktop notification settings.
type Config struct {
	// Enabled determines if desktop notifications are sent at all.
	Enabled bool

	// ShowTransferComplete shows notifications for finished transfers.
	ShowTransferComplete bool

	// ShowTransferFailed shows notifications for failed transfers.
	ShowTransferFailed bool
}

// DefaultConfig returns the default notification configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:              true,
		ShowTransferComplete: true,
		ShowTransferFailed:   true,
	}
}

// Notifier sends desktop notifications for transfer outcomes. It implements
// the observer side of the notification channel for callers that want OS
// toasts instead of (or in addition to) log lines.
type Notifier struct {
	logger *logging.Logger
	cfg    Config
	mu     sync.RWMutex
}

// NewNotifier creates a notifier with the given configuration.
func NewNotifier(cfg *Config, logger *logging.Logger) *Notifier {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Notifier{logger: logger, cfg: *cfg}
}

// SetEnabled enables or disables notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cfg.Enabled = enabled
}

// IsEnabled returns whether notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.cfg.Enabled
}

// TransferComplete sends a notification for a finished upload or download.
func (n *Notifier) TransferComplete(direction, name, destPath string) {
	n.mu.RLock()
	show := n.cfg.Enabled && n.cfg.ShowTransferComplete
	n.mu.RUnlock()
	if !show {
		return
	}

	title := "Transfer Complete"
	message := fmt.Sprintf("%s of %q finished:\n%s", direction, truncate(name, 40), shortenPath(destPath))
	if err := beeep.Notify(title, message, ""); err != nil {
		n.logger.Warn().Err(err).Str("file", name).Msg("Failed to send transfer complete notification")
	}
}

// TransferFailed sends a notification for a failed upload or download.
func (n *Notifier) TransferFailed(direction, name, errorMsg string) {
	n.mu.RLock()
	show := n.cfg.Enabled && n.cfg.ShowTransferFailed
	n.mu.RUnlock()
	if !show {
		return
	}

	title := "Transfer Failed"
	message := fmt.Sprintf("%s of %q failed:\n%s", direction, truncate(name, 40), truncate(errorMsg, 100))
	if err := beeep.Notify(title, message, ""); err != nil {
		n.logger.Warn().Err(err).Str("file", name).Msg("Failed to send transfer failed notification")
	}
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// shortenPath abbreviates a long path for display in notifications.
func shortenPath(path string) string {
	const maxLen = 60

	if len(path) <= maxLen {
		return path
	}

	_, file := filepath.Split(path)
	parentDir := filepath.Base(filepath.Dir(path))
	short := filepath.Join("...", parentDir, file)

	if len(short) > maxLen {
		return "..." + path[len(path)-(maxLen-3):]
	}
	return short
}
