package errs

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindOf(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"tagged error", E(KindTransport, "connect", "", base), KindTransport},
		{"wrapped tagged error", fmt.Errorf("outer: %w", E(KindNotFound, "upload", "/t", base)), KindNotFound},
		{"untagged error", base, 0},
		{"nil-ish plain error", errors.New("x"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	err := E(KindCancelled, "download", "/r/file", nil)
	if !IsKind(err, KindCancelled) {
		t.Error("expected KindCancelled")
	}
	if IsKind(err, KindTransport) {
		t.Error("cancelled must not match transport")
	}
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := E(KindIO, "download", "/tmp/x", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestErrorStringIncludesOpAndPath(t *testing.T) {
	err := E(KindPath, "list", "/no/such", errors.New("file does not exist"))
	msg := err.Error()
	for _, want := range []string{"list", "/no/such", "path"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error string %q missing %q", msg, want)
		}
	}
}
