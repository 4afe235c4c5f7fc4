// Package errs defines the error taxonomy surfaced by the connection and
// transfer engine. Every failing operation returns a kind-tagged error so the
// caller (CLI, GUI shell, retry layer) can distinguish failure classes
// without string matching. The engine itself never retries.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// KindConfiguration: the caller supplied insufficient parameters.
	// Raised before any network I/O.
	KindConfiguration Kind = iota + 1

	// KindAuthMaterial: key material unreadable or passphrase required but
	// not supplied.
	KindAuthMaterial

	// KindAuthentication: the server rejected the credentials.
	KindAuthentication

	// KindTransport: network or handshake failure, including timeouts and
	// connections dropped mid-transfer.
	KindTransport

	// KindConnection: an operation was attempted while the session is not
	// connected.
	KindConnection

	// KindPath: the path does not exist or is not a directory.
	KindPath

	// KindNotFound: a transfer source is missing.
	KindNotFound

	// KindPermission: the remote side denied access.
	KindPermission

	// KindIO: local disk failure.
	KindIO

	// KindCancelled: the caller cancelled a transfer; distinct from both
	// success and failure.
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindAuthMaterial:
		return "auth material"
	case KindAuthentication:
		return "authentication"
	case KindTransport:
		return "transport"
	case KindConnection:
		return "connection"
	case KindPath:
		return "path"
	case KindNotFound:
		return "not found"
	case KindPermission:
		return "permission"
	case KindIO:
		return "io"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Error is a kind-tagged error. Op names the failing operation ("connect",
// "upload", "mkdir", ...) and Path the subject path when there is one.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds a kind-tagged error.
func E(kind Kind, op, path string, err error) error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// KindOf returns the kind of err, or 0 when err carries no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err is tagged with kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
