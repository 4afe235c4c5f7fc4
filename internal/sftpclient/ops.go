package sftpclient

import (
	"github.com/Pythax76/sftpbridge/internal/errs"
)

// Companion single-shot operations. All of them require a Connected session
// and surface the same error taxonomy as the transfer engine; none retry.

// Mkdir creates a directory on the remote server.
func (c *Client) Mkdir(path string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	conn, err := c.remote("mkdir")
	if err != nil {
		return err
	}
	if err := conn.Mkdir(path); err != nil {
		return classifyRemote("mkdir", path, err, errs.KindPath)
	}
	c.logger.Info().Str("path", path).Msg("Created remote directory")
	return nil
}

// Remove deletes a single remote file. Directories are refused by the
// server; use RemoveDirectory for those.
func (c *Client) Remove(path string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	conn, err := c.remote("remove")
	if err != nil {
		return err
	}
	if err := conn.Remove(path); err != nil {
		return classifyRemote("remove", path, err, errs.KindNotFound)
	}
	c.logger.Info().Str("path", path).Msg("Removed remote file")
	return nil
}

// RemoveDirectory deletes an empty remote directory.
func (c *Client) RemoveDirectory(path string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	conn, err := c.remote("rmdir")
	if err != nil {
		return err
	}
	if err := conn.RemoveDirectory(path); err != nil {
		return classifyRemote("rmdir", path, err, errs.KindNotFound)
	}
	c.logger.Info().Str("path", path).Msg("Removed remote directory")
	return nil
}

// Rename renames a remote file or directory.
func (c *Client) Rename(oldPath, newPath string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	conn, err := c.remote("rename")
	if err != nil {
		return err
	}
	if err := conn.Rename(oldPath, newPath); err != nil {
		return classifyRemote("rename", oldPath, err, errs.KindNotFound)
	}
	c.logger.Info().Str("from", oldPath).Str("to", newPath).Msg("Renamed remote path")
	return nil
}
