package sftpclient

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/pkg/sftp"

	"github.com/Pythax76/sftpbridge/internal/errs"
	"github.com/Pythax76/sftpbridge/internal/models"
)

// List returns the remote directory at path in display order: directories
// before files, case-insensitive by name within each group. It requires a
// Connected session and issues a single listing request.
func (c *Client) List(path string) ([]models.DirEntry, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	conn, err := c.remote("list")
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = c.Cursor()
	}

	infos, err := conn.ReadDir(path)
	if err != nil {
		return nil, classifyRemote("list", path, err, errs.KindPath)
	}

	entries := make([]models.DirEntry, 0, len(infos))
	for _, fi := range infos {
		entries = append(entries, entryFromFileInfo(fi, models.OriginRemote))
	}

	models.SortEntries(entries)
	c.logger.Debug().Str("path", path).Int("entries", len(entries)).Msg("Listed remote directory")
	return entries, nil
}

// Stat returns the normalized entry for a single remote path.
func (c *Client) Stat(path string) (models.DirEntry, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	conn, err := c.remote("stat")
	if err != nil {
		return models.DirEntry{}, err
	}

	fi, err := conn.Stat(path)
	if err != nil {
		return models.DirEntry{}, classifyRemote("stat", path, err, errs.KindNotFound)
	}
	return entryFromFileInfo(fi, models.OriginRemote), nil
}

// entryFromFileInfo maps an os.FileInfo (as produced by the SFTP layer or
// the local filesystem) into the normalized entry model. A zero mtime means
// the server withheld it, and the entry reports no modification time.
func entryFromFileInfo(fi os.FileInfo, origin models.Origin) models.DirEntry {
	size := fi.Size()
	if fi.IsDir() {
		size = 0
	}

	entry := models.DirEntry{
		Name:      fi.Name(),
		Size:      size,
		Mode:      fi.Mode().String(),
		IsDir:     fi.IsDir(),
		IsRegular: fi.Mode().IsRegular(),
		Origin:    origin,
	}
	if mt := fi.ModTime(); !mt.IsZero() && mt.Unix() != 0 {
		entry.ModTime = mt
	}
	return entry
}

// classifyRemote maps an SFTP operation failure onto the error taxonomy.
// notFoundKind selects how a missing path is reported: listing contracts
// use the path kind, transfer sources use not-found.
func classifyRemote(op, path string, err error, notFoundKind errs.Kind) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.Canceled):
		return errs.E(errs.KindCancelled, op, path, err)
	case errors.Is(err, os.ErrNotExist), errors.Is(err, sftp.ErrSSHFxNoSuchFile):
		return errs.E(notFoundKind, op, path, err)
	case errors.Is(err, os.ErrPermission), errors.Is(err, sftp.ErrSSHFxPermissionDenied):
		return errs.E(errs.KindPermission, op, path, err)
	case errors.Is(err, io.EOF), errors.Is(err, sftp.ErrSSHFxConnectionLost), errors.Is(err, sftp.ErrSSHFxNoConnection):
		return errs.E(errs.KindTransport, op, path, err)
	default:
		return errs.E(errs.KindTransport, op, path, err)
	}
}
