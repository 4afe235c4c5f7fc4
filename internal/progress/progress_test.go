package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Pythax76/sftpbridge/internal/events"
)

func TestCLIProgressRendersToWriter(t *testing.T) {
	var buf bytes.Buffer
	p := NewCLIProgressWriter(&buf)

	p.Start(100, "uploading report.pdf")
	p.Update(50)
	p.Update(100)
	p.Finish()

	if buf.Len() == 0 {
		t.Fatal("no output rendered")
	}
	if !strings.Contains(buf.String(), "uploading report.pdf") {
		t.Error("description missing from output")
	}
}

func TestCLIProgressBeforeStartIsSafe(t *testing.T) {
	p := NewCLIProgressWriter(&bytes.Buffer{})
	p.Update(10)
	p.Finish()
}

func TestCLIProgressError(t *testing.T) {
	var buf bytes.Buffer
	p := NewCLIProgressWriter(&buf)
	p.Start(10, "download")
	p.Error(bytes.ErrTooLarge)

	if !strings.Contains(buf.String(), "Error:") {
		t.Error("error not rendered")
	}
}

func TestBusProgressPublishesLifecycle(t *testing.T) {
	bus := events.NewBus(16)
	ch := bus.SubscribeAll()

	p := NewBusProgress(bus, "task-1", "upload", "report.pdf")
	p.Start(200, "uploading")
	p.Update(120)
	p.Finish()

	wantTypes := []events.EventType{
		events.EventTransferStarted,
		events.EventTransferProgress,
		events.EventTransferCompleted,
	}
	for i, want := range wantTypes {
		select {
		case ev := <-ch:
			te, ok := ev.(*events.TransferEvent)
			if !ok {
				t.Fatalf("event %d is %T, want TransferEvent", i, ev)
			}
			if te.Type() != want {
				t.Fatalf("event %d type = %v, want %v", i, te.Type(), want)
			}
			if te.TaskID != "task-1" || te.Total != 200 {
				t.Fatalf("event %d fields wrong: %+v", i, te)
			}
		case <-time.After(time.Second):
			t.Fatalf("missing event %d (%v)", i, want)
		}
	}
}

func TestBusProgressNilBusIsSafe(t *testing.T) {
	p := NewBusProgress(nil, "t", "upload", "f")
	p.Start(1, "x")
	p.Update(1)
	p.Finish()
}
