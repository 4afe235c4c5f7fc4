package sftpclient

import (
	"testing"
	"time"

	"github.com/Pythax76/sftpbridge/internal/errs"
	"github.com/Pythax76/sftpbridge/internal/events"
	"github.com/Pythax76/sftpbridge/internal/logging"
	"github.com/Pythax76/sftpbridge/internal/models"
)

func TestNewClientStartsDisconnected(t *testing.T) {
	c := New(logging.Nop())
	if got := c.State(); got != Disconnected {
		t.Errorf("initial state = %v, want Disconnected", got)
	}
	if c.Cursor() != "/" {
		t.Errorf("initial cursor = %q, want /", c.Cursor())
	}
}

func TestConnectWithoutCredentialsFailsBeforeNetwork(t *testing.T) {
	c := New(logging.Nop())

	// The host is unroutable; if the engine dialled it the test would hang
	// or time out, so a fast configuration error proves no network I/O ran.
	err := c.Connect("203.0.113.1", 22, models.Credential{Username: "demo"}, time.Millisecond)
	if !errs.IsKind(err, errs.KindConfiguration) {
		t.Fatalf("error kind = %v, want configuration", errs.KindOf(err))
	}
}

func TestConnectRequiresHostAndUsername(t *testing.T) {
	c := New(logging.Nop())

	if err := c.Connect("", 22, models.Credential{Username: "u", Password: "p"}, 0); !errs.IsKind(err, errs.KindConfiguration) {
		t.Errorf("missing host: kind = %v, want configuration", errs.KindOf(err))
	}
	if err := c.Connect("host", 22, models.Credential{Password: "p"}, 0); !errs.IsKind(err, errs.KindConfiguration) {
		t.Errorf("missing username: kind = %v, want configuration", errs.KindOf(err))
	}
}

func TestConnectRefusedIsTransportError(t *testing.T) {
	c := New(logging.Nop())

	// Port 1 on loopback is essentially never listening; the dial fails
	// immediately with a refused connection.
	err := c.Connect("127.0.0.1", 1, models.Credential{Username: "demo", Password: "pw"}, 2*time.Second)
	if err == nil {
		c.Disconnect()
		t.Skip("something is listening on 127.0.0.1:1")
	}
	if !errs.IsKind(err, errs.KindTransport) {
		t.Errorf("error kind = %v, want transport", errs.KindOf(err))
	}
	if c.State() != Failed {
		t.Errorf("state after failed connect = %v, want Failed", c.State())
	}
}

func TestDisconnectIsIdempotent(t *testing.T) {
	var statuses []string
	c := newConnectedClient(newFakeRemote())
	c.SetStatusObserver(func(s string) { statuses = append(statuses, s) })

	c.Disconnect()
	c.Disconnect() // second call must be a no-op

	if c.State() != Disconnected {
		t.Errorf("state = %v, want Disconnected", c.State())
	}
	count := 0
	for _, s := range statuses {
		if s == "disconnected" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("got %d disconnected notifications, want exactly 1", count)
	}
}

func TestDisconnectOnNeverConnectedClient(t *testing.T) {
	c := New(logging.Nop())
	c.Disconnect() // must not panic or error
	if c.State() != Disconnected {
		t.Errorf("state = %v, want Disconnected", c.State())
	}
}

func TestSetCursorRejectsRelativePaths(t *testing.T) {
	c := New(logging.Nop())
	if err := c.SetCursor("relative/path"); !errs.IsKind(err, errs.KindPath) {
		t.Errorf("relative cursor: kind = %v, want path", errs.KindOf(err))
	}
	if err := c.SetCursor(""); !errs.IsKind(err, errs.KindPath) {
		t.Errorf("empty cursor: kind = %v, want path", errs.KindOf(err))
	}
	if err := c.SetCursor("/var/tmp"); err != nil {
		t.Errorf("absolute cursor rejected: %v", err)
	}
	if c.Cursor() != "/var/tmp" {
		t.Errorf("cursor = %q, want /var/tmp", c.Cursor())
	}
}

func TestOperationsRequireConnection(t *testing.T) {
	c := New(logging.Nop())

	if _, err := c.List("/"); !errs.IsKind(err, errs.KindConnection) {
		t.Errorf("List: kind = %v, want connection", errs.KindOf(err))
	}
	if _, err := c.Stat("/x"); !errs.IsKind(err, errs.KindConnection) {
		t.Errorf("Stat: kind = %v, want connection", errs.KindOf(err))
	}
	if err := c.Mkdir("/x"); !errs.IsKind(err, errs.KindConnection) {
		t.Errorf("Mkdir: kind = %v, want connection", errs.KindOf(err))
	}
	if err := c.Remove("/x"); !errs.IsKind(err, errs.KindConnection) {
		t.Errorf("Remove: kind = %v, want connection", errs.KindOf(err))
	}
	if err := c.RemoveDirectory("/x"); !errs.IsKind(err, errs.KindConnection) {
		t.Errorf("RemoveDirectory: kind = %v, want connection", errs.KindOf(err))
	}
	if err := c.Rename("/x", "/y"); !errs.IsKind(err, errs.KindConnection) {
		t.Errorf("Rename: kind = %v, want connection", errs.KindOf(err))
	}
}

func TestSessionEventPublishedOnDisconnect(t *testing.T) {
	bus := events.NewBus(8)
	defer bus.Close()
	sub := bus.Subscribe(events.EventSessionStateChange)

	c := newConnectedClient(newFakeRemote())
	c.SetEventBus(bus)
	c.Disconnect()

	select {
	case ev := <-sub:
		se, ok := ev.(*events.SessionEvent)
		if !ok {
			t.Fatalf("event type = %T, want *events.SessionEvent", ev)
		}
		if se.OldState != "connected" || se.NewState != "disconnected" {
			t.Errorf("transition = %s -> %s, want connected -> disconnected", se.OldState, se.NewState)
		}
		if se.Status != "disconnected" {
			t.Errorf("status = %q, want %q", se.Status, "disconnected")
		}
	case <-time.After(time.Second):
		t.Fatal("no session event published")
	}

	// Idempotent disconnect publishes nothing further.
	c.Disconnect()
	select {
	case ev := <-sub:
		t.Fatalf("unexpected event after second disconnect: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}
