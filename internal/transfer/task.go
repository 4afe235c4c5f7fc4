// Package transfer tracks upload and download tasks for display. The queue
// observes transfers rather than executing them: the caller runs the actual
// copy and feeds state changes back in, and the queue publishes events for
// a UI or logging consumer.
package transfer

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Direction indicates whether a task moves bytes to or from the remote host.
type Direction string

const (
	DirectionUpload   Direction = "upload"
	DirectionDownload Direction = "download"
)

// TaskState represents the current state of a transfer task.
type TaskState string

const (
	TaskQueued    TaskState = "queued"
	TaskActive    TaskState = "active"
	TaskCompleted TaskState = "completed"
	TaskFailed    TaskState = "failed"
	TaskCancelled TaskState = "cancelled"
)

// Task represents a single upload or download tracked by the queue.
// Use the provided methods for state updates; direct field access from
// outside the package is only safe on copies returned by Snapshot.
type Task struct {
	ID        string
	Direction Direction

	Name   string // display name, usually the filename
	Source string // local path for uploads, remote path for downloads
	Dest   string // remote path for uploads, local path for downloads

	Total       int64 // file size in bytes
	Transferred int64

	State TaskState
	Speed float64 // bytes/sec, EMA smoothed
	Error error

	CreatedAt   time.Time
	StartedAt   time.Time
	CompletedAt time.Time

	// speed calculation internals
	lastBytes      int64
	lastUpdateTime time.Time

	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
}

func newTask(dir Direction, name, source, dest string, total int64) *Task {
	ctx, cancel := context.WithCancel(context.Background())
	return &Task{
		ID:        generateTaskID(),
		Direction: dir,
		Name:      name,
		Source:    source,
		Dest:      dest,
		Total:     total,
		State:     TaskQueued,
		CreatedAt: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Context returns the task's context. Pass it to the engine operation so a
// queue-side Cancel reaches the copy loop.
func (t *Task) Context() context.Context {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ctx
}

// GetState returns the current state.
func (t *Task) GetState() TaskState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.State
}

// IsTerminal reports whether the task reached a final state.
func (t *Task) IsTerminal() bool {
	state := t.GetState()
	return state == TaskCompleted || state == TaskFailed || state == TaskCancelled
}

// CanRetry reports whether the task may be re-queued.
func (t *Task) CanRetry() bool {
	state := t.GetState()
	return state == TaskFailed || state == TaskCancelled
}

// markActive transitions a queued task to active. Reports whether the
// transition happened; repeated calls are no-ops.
func (t *Task) markActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.State != TaskQueued {
		return false
	}
	t.State = TaskActive
	t.StartedAt = time.Now()
	return true
}

func (t *Task) markCompleted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.State = TaskCompleted
	t.Transferred = t.Total
	t.CompletedAt = time.Now()
}

func (t *Task) markFailed(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.State = TaskFailed
	t.Error = err
	t.CompletedAt = time.Now()
}

// markCancelled cancels the task's context and moves a queued or active task
// to cancelled. Reports whether the task was cancellable.
func (t *Task) markCancelled() bool {
	t.mu.Lock()
	if t.State != TaskQueued && t.State != TaskActive {
		t.mu.Unlock()
		return false
	}
	t.State = TaskCancelled
	t.CompletedAt = time.Now()
	cancel := t.cancel
	t.mu.Unlock()

	cancel()
	return true
}

// resetForRetry returns the task to queued with cleared progress counters and
// a fresh context.
func (t *Task) resetForRetry() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.State = TaskQueued
	t.Transferred = 0
	t.Speed = 0
	t.Error = nil
	t.StartedAt = time.Time{}
	t.CompletedAt = time.Time{}
	t.lastBytes = 0
	t.lastUpdateTime = time.Time{}
	t.ctx, t.cancel = freshContext()
}

// updateProgress records transferred bytes and recomputes the smoothed rate.
// Rate samples closer together than 100ms are folded into the next sample to
// keep the displayed speed stable at chunk-level callback granularity.
func (t *Task) updateProgress(transferred int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.Transferred = transferred

	if t.lastBytes == 0 && transferred > 0 {
		t.lastBytes = transferred
		t.lastUpdateTime = now
		return
	}

	if transferred > t.lastBytes {
		elapsed := now.Sub(t.lastUpdateTime).Seconds()
		if elapsed > 0.1 {
			instant := float64(transferred-t.lastBytes) / elapsed
			const alpha = 0.25
			if t.Speed > 0 {
				t.Speed = alpha*instant + (1-alpha)*t.Speed
			} else {
				t.Speed = instant
			}
			t.lastBytes = transferred
			t.lastUpdateTime = now
		}
	}
}

// Snapshot returns a copy of the task's visible fields for safe external use.
func (t *Task) Snapshot() Task {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Task{
		ID:          t.ID,
		Direction:   t.Direction,
		Name:        t.Name,
		Source:      t.Source,
		Dest:        t.Dest,
		Total:       t.Total,
		Transferred: t.Transferred,
		State:       t.State,
		Speed:       t.Speed,
		Error:       t.Error,
		CreatedAt:   t.CreatedAt,
		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,
	}
}

func freshContext() (context.Context, context.CancelFunc) {
	return context.WithCancel(context.Background())
}

var (
	taskCounter uint64
	taskMu      sync.Mutex
)

func generateTaskID() string {
	taskMu.Lock()
	defer taskMu.Unlock()
	taskCounter++
	return fmt.Sprintf("task-%d-%d", time.Now().UnixNano(), taskCounter)
}
