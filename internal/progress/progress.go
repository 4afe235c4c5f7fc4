// Package progress provides a unified interface for transfer progress
// reporting across CLI (progress bars) and observer (event bus) consumers.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/Pythax76/sftpbridge/internal/events"
)

// Reporter receives progress for a single transfer. Implementations must not
// block: the engine invokes Update from inside its copy loop.
type Reporter interface {
	Start(total int64, description string)
	Update(current int64)
	Finish()
	Error(err error)
}

// CLIProgress renders a byte-based progress bar on a terminal.
type CLIProgress struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

// NewCLIProgress creates a progress reporter writing to stderr.
func NewCLIProgress() *CLIProgress {
	return &CLIProgress{out: os.Stderr}
}

// NewCLIProgressWriter creates a progress reporter writing to w.
func NewCLIProgressWriter(w io.Writer) *CLIProgress {
	return &CLIProgress{out: w}
}

// Start initializes the progress bar with total size and description.
func (p *CLIProgress) Start(total int64, description string) {
	p.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(p.out, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Update moves the bar to the current byte position.
func (p *CLIProgress) Update(current int64) {
	if p.bar != nil {
		_ = p.bar.Set64(current)
	}
}

// Finish completes the bar.
func (p *CLIProgress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// Error prints the failure below the bar.
func (p *CLIProgress) Error(err error) {
	if err != nil {
		fmt.Fprintf(p.out, "\nError: %v\n", err)
	}
}

// BusProgress forwards progress to an event bus for a UI consumer. It tags
// every event with the task it belongs to.
type BusProgress struct {
	bus       *events.Bus
	taskID    string
	direction string
	name      string
	total     int64
}

// NewBusProgress creates a bus-backed reporter for one transfer.
func NewBusProgress(bus *events.Bus, taskID, direction, name string) *BusProgress {
	return &BusProgress{
		bus:       bus,
		taskID:    taskID,
		direction: direction,
		name:      name,
	}
}

// Start records the total and publishes a started event.
func (p *BusProgress) Start(total int64, description string) {
	p.total = total
	p.publish(events.EventTransferStarted, 0, nil)
}

// Update publishes the current byte position.
func (p *BusProgress) Update(current int64) {
	p.publish(events.EventTransferProgress, current, nil)
}

// Finish publishes a completed event at the full byte count.
func (p *BusProgress) Finish() {
	p.publish(events.EventTransferCompleted, p.total, nil)
}

// Error publishes a failed event carrying the error.
func (p *BusProgress) Error(err error) {
	p.publish(events.EventTransferFailed, 0, err)
}

func (p *BusProgress) publish(eventType events.EventType, current int64, err error) {
	if p.bus == nil {
		return
	}
	p.bus.Publish(&events.TransferEvent{
		BaseEvent: events.BaseEvent{
			EventType: eventType,
			Time:      time.Now(),
		},
		TaskID:      p.taskID,
		Direction:   p.direction,
		Name:        p.name,
		Transferred: current,
		Total:       p.total,
		Error:       err,
	})
}

// Nop is a reporter that discards everything. Useful when the caller wants
// the engine's progress callback signature without any output.
type Nop struct{}

func (Nop) Start(total int64, description string) {}
func (Nop) Update(current int64)                  {}
func (Nop) Finish()                               {}
func (Nop) Error(err error)                       {}
