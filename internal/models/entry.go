// Package models holds the normalized data types shared by the local and
// remote browse/transfer code paths.
package models

import (
	"sort"
	"strings"
	"time"
)

// Origin identifies which address space produced a directory entry.
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginRemote Origin = "remote"
)

// DirEntry describes a single file or directory, independent of whether the
// local filesystem or the SFTP server produced it.
//
// Name is always a leaf name with no path separators. Size is 0 for
// directories. ModTime is the zero value when the backing store did not
// report a modification time.
type DirEntry struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	ModTime   time.Time `json:"modTime,omitempty"`
	Mode      string    `json:"mode"` // e.g. "drwxr-xr-x"
	IsDir     bool      `json:"isDir"`
	IsRegular bool      `json:"isRegular"`
	Origin    Origin    `json:"origin"`
}

// HasModTime reports whether the backing store supplied a modification time.
func (e DirEntry) HasModTime() bool {
	return !e.ModTime.IsZero()
}

// SortEntries orders entries for display: all directories before all files,
// and within each group case-insensitive ascending by name. Browse panels and
// the CLI rely on this ordering, so it is part of the listing contract, not a
// presentation detail.
func SortEntries(entries []DirEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}
