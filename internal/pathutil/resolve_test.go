package pathutil

import (
	"path/filepath"
	"testing"
)

func TestResolveRemote(t *testing.T) {
	tests := []struct {
		name   string
		cursor string
		token  string
		want   string
	}{
		{"relative segment", "/a/b", "c", "/a/b/c"},
		{"absolute token", "/a/b", "/x", "/x"},
		{"parent", "/a/b", "..", "/a"},
		{"parent to root", "/a", "..", "/"},
		{"parent at root stays root", "/", "..", "/"},
		{"relative from root", "/", "home", "/home"},
		{"empty cursor defaults to root", "", "etc", "/etc"},
		{"empty token keeps cursor", "/a/b", "", "/a/b"},
		{"dot token keeps cursor", "/a/b", ".", "/a/b"},
		{"cursor with trailing slash", "/a/b/", "..", "/a"},
		{"absolute token normalized", "/a", "/x//y/", "/x/y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRemote(tt.cursor, tt.token)
			if got != tt.want {
				t.Errorf("ResolveRemote(%q, %q) = %q, want %q", tt.cursor, tt.token, got, tt.want)
			}
		})
	}
}

// Repeated parent navigation must never produce a path shorter than the root.
func TestResolveRemoteParentNeverAboveRoot(t *testing.T) {
	cursor := "/a/b/c"
	for i := 0; i < 10; i++ {
		cursor = ResolveRemote(cursor, ParentToken)
		if cursor == "" || cursor[0] != '/' {
			t.Fatalf("cursor escaped the root after %d steps: %q", i+1, cursor)
		}
	}
	if cursor != "/" {
		t.Errorf("cursor = %q after exhausting parents, want %q", cursor, "/")
	}
}

func TestResolveLocal(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "data", "work")

	tests := []struct {
		name   string
		cursor string
		token  string
		want   string
	}{
		{"relative segment", base, "sub", filepath.Join(base, "sub")},
		{"parent", base, "..", filepath.Join(string(filepath.Separator), "data")},
		{"absolute token", base, filepath.Join(string(filepath.Separator), "tmp"), filepath.Join(string(filepath.Separator), "tmp")},
		{"empty token keeps cursor", base, "", base},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveLocal(tt.cursor, tt.token)
			if got != tt.want {
				t.Errorf("ResolveLocal(%q, %q) = %q, want %q", tt.cursor, tt.token, got, tt.want)
			}
		})
	}
}

func TestExpandLocalEmptyUsesWorkingDirectory(t *testing.T) {
	got, err := ExpandLocal("")
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("ExpandLocal(\"\") = %q, want an absolute path", got)
	}
}
