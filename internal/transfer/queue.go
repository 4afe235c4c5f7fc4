package transfer

import (
	"errors"
	"sync"
	"time"

	"github.com/Pythax76/sftpbridge/internal/events"
)

// RetryExecutor is implemented by components that can re-run failed
// transfers. The queue calls ExecuteRetry after resetting the task to
// TaskQueued; the executor drives the engine and reports back through
// Start, UpdateProgress and Complete/Fail.
type RetryExecutor interface {
	ExecuteRetry(task *Task)
}

// Stats holds per-state task counts.
type Stats struct {
	Queued    int
	Active    int
	Completed int
	Failed    int
	Cancelled int
}

// Total returns the number of tracked tasks.
func (s Stats) Total() int {
	return s.Queued + s.Active + s.Completed + s.Failed + s.Cancelled
}

// Queue is a passive transfer tracker. Callers register tasks with Track,
// run the copy themselves, and report progress and outcome; the queue keeps
// the task list consistent and publishes events on every transition.
type Queue struct {
	// mu guards the registry only; task fields are guarded by each task's
	// own lock, so snapshots stay consistent with concurrent transitions.
	tasks     []*Task
	tasksByID map[string]*Task
	mu        sync.RWMutex

	retryExecutor RetryExecutor

	bus *events.Bus
}

// NewQueue creates a queue publishing to the given bus. A nil bus is valid;
// the queue then tracks state without emitting events.
func NewQueue(bus *events.Bus) *Queue {
	return &Queue{
		tasksByID: make(map[string]*Task),
		bus:       bus,
	}
}

// SetRetryExecutor sets the executor used by Retry.
func (q *Queue) SetRetryExecutor(executor RetryExecutor) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.retryExecutor = executor
}

// Track registers a transfer that will be executed elsewhere. The task
// starts in TaskQueued; call Start when bytes begin to move.
func (q *Queue) Track(dir Direction, name, source, dest string, total int64) *Task {
	task := newTask(dir, name, source, dest, total)

	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.tasksByID[task.ID] = task
	q.mu.Unlock()

	q.publish(events.EventTransferQueued, task)
	return task
}

// Start marks a queued task as actively transferring. Idempotent; only the
// queued-to-active transition emits an event.
func (q *Queue) Start(taskID string) {
	q.mu.RLock()
	task := q.tasksByID[taskID]
	q.mu.RUnlock()

	if task != nil && task.markActive() {
		q.publish(events.EventTransferStarted, task)
	}
}

// UpdateProgress records the bytes transferred so far for a task. Speed is
// derived internally with EMA smoothing.
func (q *Queue) UpdateProgress(taskID string, transferred int64) {
	q.mu.RLock()
	task := q.tasksByID[taskID]
	q.mu.RUnlock()

	if task == nil {
		return
	}
	task.updateProgress(transferred)
	q.publish(events.EventTransferProgress, task)
}

// Complete marks a task as successfully finished.
func (q *Queue) Complete(taskID string) {
	q.mu.RLock()
	task := q.tasksByID[taskID]
	q.mu.RUnlock()

	if task != nil {
		task.markCompleted()
		q.publish(events.EventTransferCompleted, task)
	}
}

// Fail marks a task as failed with the given error.
func (q *Queue) Fail(taskID string, err error) {
	q.mu.RLock()
	task := q.tasksByID[taskID]
	q.mu.RUnlock()

	if task != nil {
		task.markFailed(err)
		q.publish(events.EventTransferFailed, task)
	}
}

// Cancel cancels a queued or active task. The task's context is cancelled,
// which stops the engine's copy loop at the next chunk boundary.
func (q *Queue) Cancel(taskID string) error {
	q.mu.RLock()
	task := q.tasksByID[taskID]
	q.mu.RUnlock()

	if task == nil {
		return errors.New("task not found")
	}
	if !task.markCancelled() {
		return errors.New("task is not queued or active")
	}

	q.publish(events.EventTransferCancelled, task)
	return nil
}

// CancelAll cancels every queued and active task.
func (q *Queue) CancelAll() {
	q.mu.RLock()
	tasks := make([]*Task, len(q.tasks))
	copy(tasks, q.tasks)
	q.mu.RUnlock()

	for _, task := range tasks {
		if task.markCancelled() {
			q.publish(events.EventTransferCancelled, task)
		}
	}
}

// Retry resets a failed or cancelled task to TaskQueued and hands it to the
// retry executor. The task keeps its ID and queue position.
func (q *Queue) Retry(taskID string) error {
	q.mu.Lock()
	task := q.tasksByID[taskID]
	executor := q.retryExecutor
	q.mu.Unlock()

	if task == nil {
		return errors.New("task not found")
	}
	if !task.CanRetry() {
		return errors.New("task cannot be retried")
	}
	if executor == nil {
		return errors.New("no retry executor configured")
	}

	task.resetForRetry()
	q.publish(events.EventTransferQueued, task)

	go executor.ExecuteRetry(task)
	return nil
}

// ClearFinished drops all terminal tasks from the queue.
func (q *Queue) ClearFinished() {
	q.mu.Lock()
	defer q.mu.Unlock()

	filtered := q.tasks[:0]
	for _, task := range q.tasks {
		if task.IsTerminal() {
			delete(q.tasksByID, task.ID)
		} else {
			filtered = append(filtered, task)
		}
	}
	q.tasks = filtered
}

// GetStats returns per-state counts.
func (q *Queue) GetStats() Stats {
	q.mu.RLock()
	defer q.mu.RUnlock()

	var stats Stats
	for _, task := range q.tasks {
		switch task.GetState() {
		case TaskQueued:
			stats.Queued++
		case TaskActive:
			stats.Active++
		case TaskCompleted:
			stats.Completed++
		case TaskFailed:
			stats.Failed++
		case TaskCancelled:
			stats.Cancelled++
		}
	}
	return stats
}

// GetTasks returns snapshots of all tasks in creation order.
func (q *Queue) GetTasks() []Task {
	q.mu.RLock()
	defer q.mu.RUnlock()

	result := make([]Task, len(q.tasks))
	for i, task := range q.tasks {
		result[i] = task.Snapshot()
	}
	return result
}

// GetTask returns a snapshot of one task by ID.
func (q *Queue) GetTask(taskID string) (Task, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	task, ok := q.tasksByID[taskID]
	if !ok {
		return Task{}, false
	}
	return task.Snapshot(), true
}

func (q *Queue) publish(eventType events.EventType, task *Task) {
	if q.bus == nil {
		return
	}
	snap := task.Snapshot()
	q.bus.Publish(&events.TransferEvent{
		BaseEvent: events.BaseEvent{
			EventType: eventType,
			Time:      time.Now(),
		},
		TaskID:      snap.ID,
		Direction:   string(snap.Direction),
		Name:        snap.Name,
		Transferred: snap.Transferred,
		Total:       snap.Total,
		Speed:       snap.Speed,
		Error:       snap.Error,
	})
}
