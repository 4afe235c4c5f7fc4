package cli

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Pythax76/sftpbridge/internal/diskspace"
	"github.com/Pythax76/sftpbridge/internal/errs"
	"github.com/Pythax76/sftpbridge/internal/events"
	"github.com/Pythax76/sftpbridge/internal/notify"
	"github.com/Pythax76/sftpbridge/internal/pathutil"
	"github.com/Pythax76/sftpbridge/internal/progress"
	"github.com/Pythax76/sftpbridge/internal/sftpclient"
	"github.com/Pythax76/sftpbridge/internal/transfer"
	"github.com/Pythax76/sftpbridge/internal/validation"
)

func newGetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "get <remote-path> [local-path]",
		Short: "Download a file",
		Long: `Download a remote file. Without a local path the file lands under its
remote name in the default_local_dir from settings, or the current
directory when unset. Parent directories of the local path are created
as needed.

Examples:
  # Download into the current directory
  sftpbridge get /srv/data/report.pdf --profile work

  # Download to an explicit path
  sftpbridge get /srv/data/report.pdf ~/reports/report.pdf --profile work`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(client *sftpclient.Client) error {
				remotePath := pathutil.ResolveRemote(client.Cursor(), args[0])

				// The default local name comes from the remote path, which the
				// server influences; validate it before any Join.
				base := path.Base(remotePath)
				if err := validation.ValidateFilename(base); err != nil {
					return fmt.Errorf("unsafe remote filename: %w", err)
				}
				localPath := defaultLocalDest(base)
				if len(args) == 2 {
					localPath = args[1]
				}
				localPath, err := pathutil.ExpandLocal(localPath)
				if err != nil {
					return err
				}
				if fi, err := os.Stat(localPath); err == nil && fi.IsDir() {
					localPath = filepath.Join(localPath, path.Base(remotePath))
				}

				if !force {
					if _, err := os.Stat(localPath); err == nil {
						overwrite, err := promptYesNo(fmt.Sprintf("%s exists, overwrite?", localPath))
						if err != nil {
							return err
						}
						if !overwrite {
							return errors.New("aborted")
						}
					}
				}

				entry, err := client.Stat(remotePath)
				if err != nil {
					return err
				}
				if entry.IsDir {
					return fmt.Errorf("%s is a directory", remotePath)
				}

				if err := diskspace.CheckAvailableSpace(localPath, entry.Size, diskspace.DefaultSafetyMargin); err != nil {
					return err
				}

				return runTransfer(client, transfer.DirectionDownload, remotePath, localPath, entry.Size,
					func(c *sftpclient.Client, onProgress notify.ProgressFunc) error {
						return c.Download(GetContext(), remotePath, localPath, onProgress)
					})
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing local file without asking")

	return cmd
}

func newPutCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "put <local-path> [remote-path]",
		Short: "Upload a file",
		Long: `Upload a local file. Without a remote path the file lands in the
remote working directory under its local name. A remote path ending in /
is treated as a directory.

Examples:
  # Upload into the remote working directory
  sftpbridge put data.tar.gz --profile work

  # Upload into a remote directory
  sftpbridge put data.tar.gz /srv/incoming/ --profile work`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			localPath, err := pathutil.ExpandLocal(args[0])
			if err != nil {
				return err
			}
			fi, err := os.Stat(localPath)
			if err != nil {
				return fmt.Errorf("local file %s: %w", localPath, err)
			}
			if fi.IsDir() {
				return fmt.Errorf("%s is a directory", localPath)
			}

			return withSession(func(client *sftpclient.Client) error {
				remotePath := filepath.Base(localPath)
				if len(args) == 2 {
					remotePath = args[1]
				}
				if strings.HasSuffix(remotePath, "/") {
					remotePath = path.Join(remotePath, filepath.Base(localPath))
				}
				remotePath = pathutil.ResolveRemote(client.Cursor(), remotePath)

				if entry, err := client.Stat(remotePath); err == nil {
					if entry.IsDir {
						remotePath = path.Join(remotePath, filepath.Base(localPath))
					} else if !force {
						overwrite, err := promptYesNo(fmt.Sprintf("%s exists on %s, overwrite?", remotePath, client.Host()))
						if err != nil {
							return err
						}
						if !overwrite {
							return errors.New("aborted")
						}
					}
				}

				return runTransfer(client, transfer.DirectionUpload, localPath, remotePath, fi.Size(),
					func(c *sftpclient.Client, onProgress notify.ProgressFunc) error {
						return c.Upload(GetContext(), localPath, remotePath, onProgress)
					})
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing remote file without asking")

	return cmd
}

// runTransfer executes one transfer with queue tracking, a progress bar, and
// desktop notifications per the notification settings.
func runTransfer(client *sftpclient.Client, dir transfer.Direction, source, dest string, size int64,
	run func(c *sftpclient.Client, onProgress notify.ProgressFunc) error) error {

	name := path.Base(dest)
	if dir == transfer.DirectionDownload {
		name = path.Base(source)
	}

	bus := events.NewBus(0)
	defer bus.Close()
	queue := transfer.NewQueue(bus)
	notifier := newNotifier()

	task := queue.Track(dir, name, source, dest, size)

	bar := progress.NewCLIProgress()
	bar.Start(size, fmt.Sprintf("%s %s", verb(dir), name))

	queue.Start(task.ID)
	err := run(client, func(transferred, total int64) {
		queue.UpdateProgress(task.ID, transferred)
		bar.Update(transferred)
	})
	finishTask(queue, task.ID, err)

	if errs.IsKind(err, errs.KindCancelled) {
		bar.Error(err)
		return fmt.Errorf("%s cancelled", verb(dir))
	}
	if err != nil {
		bar.Error(err)
		notifier.TransferFailed(string(dir), name, err.Error())
		return err
	}

	bar.Finish()
	notifier.TransferComplete(string(dir), name, dest)

	GetLogger().Info().
		Str("name", name).
		Str("direction", string(dir)).
		Int64("bytes", size).
		Msg("transfer complete")
	return nil
}

// finishTask records a run's outcome on the queue. A user cancellation is a
// distinct terminal state, not a failure.
func finishTask(queue *transfer.Queue, taskID string, err error) {
	switch {
	case err == nil:
		queue.Complete(taskID)
	case errs.IsKind(err, errs.KindCancelled):
		queue.Cancel(taskID)
	default:
		queue.Fail(taskID, err)
	}
}

func verb(dir transfer.Direction) string {
	if dir == transfer.DirectionUpload {
		return "uploading"
	}
	return "downloading"
}

// defaultLocalDest places a download with no explicit destination under the
// configured default local directory, or the working directory when unset.
func defaultLocalDest(name string) string {
	if dir := GetSettings().DefaultLocalDir; dir != "" {
		return filepath.Join(dir, name)
	}
	return name
}

// newNotifier builds a desktop notifier from the loaded settings.
func newNotifier() *notify.Notifier {
	s := GetSettings()
	return notify.NewNotifier(&notify.Config{
		Enabled:              s.Notifications.Enabled,
		ShowTransferComplete: s.Notifications.ShowTransferComplete,
		ShowTransferFailed:   s.Notifications.ShowTransferFailed,
	}, GetLogger())
}
