// Package pathutil provides path resolution for the dual-pane browse views.
// Everything here is pure string manipulation so it can be tested without a
// filesystem or a connection.
package pathutil

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ParentToken is the navigation token that moves the cursor up one level.
const ParentToken = ".."

// ResolveRemote translates a user-entered path token against the current
// remote cursor and returns the new absolute remote path. Remote paths always
// use forward slashes with an absolute root of "/".
//
// Rules:
//   - ".." strips the last segment of the cursor; the root stays the root.
//   - a token starting with "/" is absolute and used verbatim (normalized).
//   - anything else is appended as a new segment under the cursor.
func ResolveRemote(cursor, token string) string {
	if cursor == "" {
		cursor = "/"
	}

	switch {
	case token == ParentToken:
		parent := path.Dir(strings.TrimSuffix(cursor, "/"))
		if parent == "" || parent == "." {
			return "/"
		}
		return parent
	case strings.HasPrefix(token, "/"):
		return path.Clean(token)
	case token == "" || token == ".":
		return path.Clean(cursor)
	default:
		return path.Join(cursor, token)
	}
}

// ResolveLocal is the local-address-space counterpart of ResolveRemote,
// using the platform separator and filepath semantics.
func ResolveLocal(cursor, token string) string {
	switch {
	case token == ParentToken:
		return filepath.Dir(cursor)
	case filepath.IsAbs(token):
		return filepath.Clean(token)
	case token == "" || token == ".":
		return filepath.Clean(cursor)
	default:
		return filepath.Join(cursor, token)
	}
}

// ExpandLocal converts CLI-supplied local paths to absolute form, expanding a
// leading "~" to the user's home directory. An empty path resolves to the
// current working directory.
func ExpandLocal(p string) (string, error) {
	if p == "" {
		return os.Getwd()
	}
	if p[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p = home + p[1:]
	}
	return filepath.Abs(p)
}
