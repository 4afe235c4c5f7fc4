// Package sftpclient implements the connection-and-transfer engine: an
// authenticated SSH session with the SFTP subsystem layered on top, remote
// directory listing, and single-file uploads/downloads with progress
// reporting and cooperative cancellation.
//
// Every operation is synchronous and blocks the calling goroutine. Callers
// wanting concurrency run operations on their own worker goroutines; an
// internal mutex serializes operations on one session, so concurrent calls
// are safe but not parallel. The engine never retries and never spawns
// background workers of its own.
package sftpclient

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/Pythax76/sftpbridge/internal/errs"
	"github.com/Pythax76/sftpbridge/internal/events"
	"github.com/Pythax76/sftpbridge/internal/logging"
	"github.com/Pythax76/sftpbridge/internal/models"
	"github.com/Pythax76/sftpbridge/internal/notify"
)

// State is the connection state of a session. Transitions are monotonic per
// connect/disconnect cycle; there is no silent auto-reconnect.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	Failed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// DefaultTimeout is the connection-establishment timeout used when the
// caller does not supply one.
const DefaultTimeout = 30 * time.Second

// DefaultPort is the standard SSH port.
const DefaultPort = 22

// remoteConn is the slice of the SFTP client surface the engine uses. The
// indirection exists so the listing, transfer, and companion operations can
// be exercised against a fake in tests; the only production implementation
// wraps *sftp.Client.
type remoteConn interface {
	Getwd() (string, error)
	ReadDir(path string) ([]os.FileInfo, error)
	Stat(path string) (os.FileInfo, error)
	Open(path string) (io.ReadCloser, error)
	Create(path string) (io.WriteCloser, error)
	Mkdir(path string) error
	Remove(path string) error
	RemoveDirectory(path string) error
	Rename(oldPath, newPath string) error
	Close() error
}

// sftpConn adapts *sftp.Client to remoteConn.
type sftpConn struct {
	c *sftp.Client
}

func (s *sftpConn) Getwd() (string, error)                      { return s.c.Getwd() }
func (s *sftpConn) ReadDir(path string) ([]os.FileInfo, error)  { return s.c.ReadDir(path) }
func (s *sftpConn) Stat(path string) (os.FileInfo, error)       { return s.c.Stat(path) }
func (s *sftpConn) Open(path string) (io.ReadCloser, error)     { return s.c.Open(path) }
func (s *sftpConn) Create(path string) (io.WriteCloser, error)  { return s.c.Create(path) }
func (s *sftpConn) Mkdir(path string) error                     { return s.c.Mkdir(path) }
func (s *sftpConn) Remove(path string) error                    { return s.c.Remove(path) }
func (s *sftpConn) RemoveDirectory(path string) error           { return s.c.RemoveDirectory(path) }
func (s *sftpConn) Rename(oldPath, newPath string) error        { return s.c.Rename(oldPath, newPath) }
func (s *sftpConn) Close() error                                { return s.c.Close() }

// Client is one session to a remote server. The zero value is unusable; use
// New.
type Client struct {
	logger *logging.Logger

	// opMu enforces the single-operation discipline: at most one remote
	// operation (list, transfer, companion op) runs on a session at a time.
	opMu sync.Mutex

	mu        sync.Mutex // guards the fields below
	state     State
	host      string
	port      int
	username  string
	cursor    string // current remote directory, always absolute
	timeout   time.Duration
	sshClient *ssh.Client
	conn      remoteConn

	statusFn notify.StatusFunc
	bus      *events.Bus

	// hostKeyCallback defaults to accepting any host key, matching the
	// original client's permissive posture. SetHostKeyCallback installs a
	// stricter policy.
	hostKeyCallback ssh.HostKeyCallback
}

// New creates a disconnected client.
func New(logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Client{
		logger:          logger,
		state:           Disconnected,
		cursor:          "/",
		timeout:         DefaultTimeout,
		hostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}
}

// SetStatusObserver registers the observer that receives status text at
// session transitions. The observer is invoked inline from whatever
// goroutine drives the operation and must not block; a UI marshals the call
// onto its own event loop.
func (c *Client) SetStatusObserver(fn notify.StatusFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statusFn = fn
}

// SetEventBus registers a bus that receives a SessionEvent at every state
// transition, in addition to the status observer. A UI thread subscribes to
// the bus and drains events on its own loop.
func (c *Client) SetEventBus(bus *events.Bus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bus = bus
}

// SetHostKeyCallback replaces the permissive default host key policy, e.g.
// with a known-hosts callback.
func (c *Client) SetHostKeyCallback(cb ssh.HostKeyCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cb != nil {
		c.hostKeyCallback = cb
	}
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsConnected reports whether remote operations are currently possible.
func (c *Client) IsConnected() bool {
	return c.State() == Connected
}

// Cursor returns the current remote directory. It is always absolute and
// non-empty; before the first connect it is "/".
func (c *Client) Cursor() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// SetCursor updates the current remote directory. The path must be
// absolute; relative tokens go through pathutil first.
func (c *Client) SetCursor(path string) error {
	if path == "" || path[0] != '/' {
		return errs.E(errs.KindPath, "chdir", path, fmt.Errorf("remote cursor must be absolute"))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursor = path
	return nil
}

// Host returns the host this session is (or was last) connected to.
func (c *Client) Host() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.host
}

// Connect establishes the session: TCP dial, SSH handshake, authentication,
// and SFTP subsystem handshake. State becomes Connected only after all of
// them succeed; a failed attempt leaves no dangling transport resources.
//
// Authentication order follows the credential: key first when key material
// is present (an encrypted key with no passphrase is an auth-material error,
// not a fallback), password as the fallback method when supplied. With
// neither, Connect fails before any network I/O.
func (c *Client) Connect(host string, port int, cred models.Credential, timeout time.Duration) error {
	if host == "" {
		return errs.E(errs.KindConfiguration, "connect", "", fmt.Errorf("host is required"))
	}
	if cred.Username == "" {
		return errs.E(errs.KindConfiguration, "connect", "", fmt.Errorf("username is required"))
	}
	if port == 0 {
		port = DefaultPort
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	authMethods, err := buildAuthMethods(cred)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.state == Connected || c.state == Connecting {
		c.mu.Unlock()
		return errs.E(errs.KindConnection, "connect", "", fmt.Errorf("session already %s", c.state))
	}
	prev := c.state
	c.state = Connecting
	c.host = host
	c.port = port
	c.username = cred.Username
	c.timeout = timeout
	hostKeyCB := c.hostKeyCallback
	c.mu.Unlock()

	c.transition(prev, Connecting, "connecting")
	c.logger.Info().Str("host", host).Int("port", port).Str("user", cred.Username).Msg("Connecting")

	sshConfig := &ssh.ClientConfig{
		User:            cred.Username,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCB,
		Timeout:         timeout,
	}

	address := fmt.Sprintf("%s:%d", host, port)
	sshClient, err := ssh.Dial("tcp", address, sshConfig)
	if err != nil {
		kerr := classifyDial(err)
		c.setFailed()
		if errs.IsKind(kerr, errs.KindAuthentication) {
			c.transition(Connecting, Failed, "authentication failed")
		} else {
			c.transition(Connecting, Failed, fmt.Sprintf("connection failed: %v", err))
		}
		c.logger.Error().Err(err).Str("host", host).Msg("Connect failed")
		return kerr
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		// The transport is up but the subsystem handshake failed; tear the
		// transport down so nothing dangles.
		sshClient.Close()
		c.setFailed()
		c.transition(Connecting, Failed, fmt.Sprintf("connection failed: %v", err))
		c.logger.Error().Err(err).Str("host", host).Msg("SFTP subsystem handshake failed")
		return errs.E(errs.KindTransport, "connect", "", err)
	}

	cursor := "/"
	if wd, err := sftpClient.Getwd(); err == nil && wd != "" {
		cursor = wd
	}

	c.mu.Lock()
	c.sshClient = sshClient
	c.conn = &sftpConn{c: sftpClient}
	c.cursor = cursor
	c.state = Connected
	c.mu.Unlock()

	c.transition(Connecting, Connected, "connected to "+host)
	c.logger.Info().Str("host", host).Str("cursor", cursor).Msg("Connected")
	return nil
}

// Disconnect releases the session's resources: the SFTP channel first, then
// the SSH transport. It is idempotent; disconnecting an already-disconnected
// session is a no-op with no duplicate notifications.
func (c *Client) Disconnect() {
	c.mu.Lock()
	wasConnected := c.state == Connected
	conn := c.conn
	sshClient := c.sshClient
	c.conn = nil
	c.sshClient = nil
	c.state = Disconnected
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	if sshClient != nil {
		sshClient.Close()
	}

	if wasConnected {
		c.transition(Connected, Disconnected, "disconnected")
		c.logger.Info().Str("host", c.Host()).Msg("Disconnected")
	}
}

// setFailed marks a failed connect attempt.
func (c *Client) setFailed() {
	c.mu.Lock()
	c.state = Failed
	c.mu.Unlock()
}

// transition notifies the status observer and publishes a session event for
// a state change. Fire-and-forget on both channels.
func (c *Client) transition(from, to State, text string) {
	c.mu.Lock()
	fn := c.statusFn
	bus := c.bus
	host := c.host
	c.mu.Unlock()
	if fn != nil {
		fn(text)
	}
	if bus != nil {
		bus.Publish(&events.SessionEvent{
			BaseEvent: events.BaseEvent{EventType: events.EventSessionStateChange, Time: time.Now()},
			Host:      host,
			OldState:  from.String(),
			NewState:  to.String(),
			Status:    text,
		})
	}
}

// remote returns the live connection or a connection-kind error. Callers
// hold no lock; the conn pointer is safe to use until Disconnect.
func (c *Client) remote(op string) (remoteConn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Connected || c.conn == nil {
		return nil, errs.E(errs.KindConnection, op, "", fmt.Errorf("not connected"))
	}
	return c.conn, nil
}
