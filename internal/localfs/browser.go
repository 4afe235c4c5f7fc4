// Package localfs provides the local half of the dual-pane browse view:
// directory listing over the host filesystem, normalized into the same entry
// model the remote lister produces.
package localfs

import (
	"os"
	"strings"

	"github.com/Pythax76/sftpbridge/internal/errs"
	"github.com/Pythax76/sftpbridge/internal/models"
)

// ListOptions configures List.
type ListOptions struct {
	// IncludeHidden includes dotfiles in results. The browse contract lists
	// everything, so this defaults to true in the CLI; panels may filter.
	IncludeHidden bool
}

// List enumerates the directory at path and returns entries in display
// order: directories before files, case-insensitive by name within each
// group. No session is required for the local side.
//
// A missing path or a path that is not a directory yields a path-kind error.
func List(path string, opts ListOptions) ([]models.DirEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errs.E(errs.KindPath, "list", path, err)
	}
	if !info.IsDir() {
		return nil, errs.E(errs.KindPath, "list", path, os.ErrInvalid)
	}

	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, errs.E(errs.KindPath, "list", path, err)
	}

	result := make([]models.DirEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if !opts.IncludeHidden && IsHiddenName(name) {
			continue
		}

		fi, err := de.Info()
		if err != nil {
			// Entry vanished or is unreadable between ReadDir and Info.
			continue
		}

		size := fi.Size()
		if fi.IsDir() {
			size = 0
		}

		result = append(result, models.DirEntry{
			Name:      name,
			Size:      size,
			ModTime:   fi.ModTime(),
			Mode:      fi.Mode().String(),
			IsDir:     fi.IsDir(),
			IsRegular: fi.Mode().IsRegular(),
			Origin:    models.OriginLocal,
		})
	}

	models.SortEntries(result)
	return result, nil
}

// IsHiddenName reports whether a leaf name represents a hidden file on Unix
// conventions. "." and ".." are navigation entries, not hidden files.
func IsHiddenName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}
