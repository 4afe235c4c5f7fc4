package sftpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Pythax76/sftpbridge/internal/errs"
	"github.com/Pythax76/sftpbridge/internal/notify"
)

// copyBufferSize is the chunk size for transfer copies. Cancellation is
// checked and progress reported at chunk boundaries.
const copyBufferSize = 32 * 1024

// Upload copies the regular file at localPath to remotePath on the server.
// It blocks until the transfer completes, fails, or ctx is cancelled.
//
// The source is validated before the transport is touched: a missing or
// non-regular source is a not-found error with no network traffic. Progress
// is reported through onProgress (which may be nil) with the total known up
// front from the source file size. A failed or cancelled upload leaves any
// partial remote file in place; cleanup is the caller's choice.
func (c *Client) Upload(ctx context.Context, localPath, remotePath string, onProgress notify.ProgressFunc) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	conn, err := c.remote("upload")
	if err != nil {
		return err
	}

	fi, err := os.Stat(localPath)
	if err != nil {
		return errs.E(errs.KindNotFound, "upload", localPath, err)
	}
	if !fi.Mode().IsRegular() {
		return errs.E(errs.KindNotFound, "upload", localPath,
			fmt.Errorf("not a regular file"))
	}
	total := fi.Size()

	src, err := os.Open(localPath)
	if err != nil {
		return errs.E(errs.KindIO, "upload", localPath, err)
	}
	defer src.Close()

	dst, err := conn.Create(remotePath)
	if err != nil {
		return classifyRemote("upload", remotePath, err, errs.KindPath)
	}
	defer dst.Close()

	c.logger.Info().Str("local", localPath).Str("remote", remotePath).Int64("bytes", total).Msg("Uploading")

	written, err := copyChunks(ctx, dst, src, total, onProgress)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn().Str("remote", remotePath).Int64("written", written).Msg("Upload cancelled")
			return errs.E(errs.KindCancelled, "upload", remotePath, err)
		}
		var we *writeSideError
		if errors.As(err, &we) {
			// Remote write failed: connection dropped or server denied it.
			return classifyRemote("upload", remotePath, we.err, errs.KindPath)
		}
		return errs.E(errs.KindIO, "upload", localPath, err)
	}

	if err := dst.Close(); err != nil {
		return classifyRemote("upload", remotePath, err, errs.KindPath)
	}

	c.logger.Info().Str("remote", remotePath).Int64("bytes", written).Msg("Upload complete")
	return nil
}

// Download copies remotePath from the server to localPath. It blocks until
// the transfer completes, fails, or ctx is cancelled.
//
// The local destination's parent directory is created when absent; a failure
// there is reported as a distinct local mkdir failure, not a transfer error.
// The total size comes from a remote stat before the byte stream starts and
// is 0 in progress callbacks when the server withholds it. A failed or
// cancelled download leaves any partial local file in place.
func (c *Client) Download(ctx context.Context, remotePath, localPath string, onProgress notify.ProgressFunc) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	conn, err := c.remote("download")
	if err != nil {
		return err
	}

	var total int64
	if fi, err := conn.Stat(remotePath); err == nil {
		total = fi.Size()
	} else {
		return classifyRemote("download", remotePath, err, errs.KindNotFound)
	}

	if dir := filepath.Dir(localPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errs.E(errs.KindIO, "mkdir", dir, err)
		}
	}

	src, err := conn.Open(remotePath)
	if err != nil {
		return classifyRemote("download", remotePath, err, errs.KindNotFound)
	}
	defer src.Close()

	dst, err := os.Create(localPath)
	if err != nil {
		return errs.E(errs.KindIO, "download", localPath, err)
	}
	defer dst.Close()

	c.logger.Info().Str("remote", remotePath).Str("local", localPath).Int64("bytes", total).Msg("Downloading")

	written, err := copyChunks(ctx, dst, src, total, onProgress)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn().Str("remote", remotePath).Int64("written", written).Msg("Download cancelled")
			return errs.E(errs.KindCancelled, "download", remotePath, err)
		}
		var we *writeSideError
		if errors.As(err, &we) {
			// Local write failed: disk problem on our side.
			return errs.E(errs.KindIO, "download", localPath, we.err)
		}
		return classifyRemote("download", remotePath, err, errs.KindNotFound)
	}

	if err := dst.Close(); err != nil {
		return errs.E(errs.KindIO, "download", localPath, err)
	}

	c.logger.Info().Str("local", localPath).Int64("bytes", written).Msg("Download complete")
	return nil
}

// writeSideError marks a copy failure as originating from the destination
// writer, so the callers above can distinguish local-disk failures from
// transport failures.
type writeSideError struct {
	err error
}

func (w *writeSideError) Error() string { return w.err.Error() }
func (w *writeSideError) Unwrap() error { return w.err }

// copyChunks copies src to dst in fixed-size chunks, reporting progress and
// honouring cancellation between chunks. Progress callbacks carry a
// monotonically non-decreasing transferred count; the engine never rewinds.
// No partial data is removed on failure.
func copyChunks(ctx context.Context, dst io.Writer, src io.Reader, total int64, onProgress notify.ProgressFunc) (int64, error) {
	buf := make([]byte, copyBufferSize)
	var written int64

	for {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		n, rerr := src.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			if wn > 0 {
				written += int64(wn)
				if onProgress != nil {
					onProgress(written, total)
				}
			}
			if werr != nil {
				return written, &writeSideError{err: werr}
			}
			if wn < n {
				return written, &writeSideError{err: io.ErrShortWrite}
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
