// Package validation provides input validation for names and paths that
// originate outside the process, such as entry names reported by a remote
// server.
package validation

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateFilename checks a bare filename (not a path) before it is used in
// a filepath.Join. Remote servers pick their own entry names, so a name used
// to build a local path must not be able to traverse out of the target
// directory.
//
// Rejected: empty names, names containing path separators or null bytes,
// and the literal "..". Names that merely contain dots ("data..v2.csv")
// pass.
func ValidateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if strings.ContainsRune(filename, 0) {
		return fmt.Errorf("filename contains null byte")
	}
	if strings.ContainsRune(filename, '/') || strings.ContainsRune(filename, '\\') {
		return fmt.Errorf("filename cannot contain path separators: %s", filename)
	}
	if filename == ".." {
		return fmt.Errorf("filename cannot be '..'")
	}
	return nil
}

// ValidatePathInDirectory checks that path, resolved against baseDir, stays
// inside baseDir.
func ValidatePathInDirectory(path, baseDir string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if baseDir == "" {
		return fmt.Errorf("base directory cannot be empty")
	}

	cleanPath := filepath.Clean(path)
	cleanBase := filepath.Clean(baseDir)

	var err error
	if !filepath.IsAbs(cleanBase) {
		cleanBase, err = filepath.Abs(cleanBase)
		if err != nil {
			return fmt.Errorf("failed to resolve base directory: %w", err)
		}
	}

	resolved := cleanPath
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(cleanBase, cleanPath)
	}
	resolved = filepath.Clean(resolved)

	rel, err := filepath.Rel(cleanBase, resolved)
	if err != nil {
		return fmt.Errorf("failed to compute relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path escapes base directory: %s (base: %s)", path, baseDir)
	}
	return nil
}
