package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Pythax76/sftpbridge/internal/localfs"
	"github.com/Pythax76/sftpbridge/internal/models"
	"github.com/Pythax76/sftpbridge/internal/pathutil"
	"github.com/Pythax76/sftpbridge/internal/sftpclient"
)

func newLsCmd() *cobra.Command {
	var all bool
	var long bool

	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List a remote directory",
		Long: `List the contents of a remote directory. Directories sort first,
then files, both case-insensitively by name. Hidden entries are skipped
unless --all is given or show_hidden_files is enabled in settings.

Examples:
  # List the login directory
  sftpbridge ls --profile work

  # List a specific directory with details
  sftpbridge ls /srv/data -l --profile work`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(client *sftpclient.Client) error {
				path := ""
				if len(args) == 1 {
					path = pathutil.ResolveRemote(client.Cursor(), args[0])
				}
				entries, err := client.List(path)
				if err != nil {
					return err
				}
				return printEntries(cmd, entries, all || GetSettings().ShowHiddenFiles, long)
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include hidden files")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "Long format (mode, size, modified)")

	return cmd
}

func newLlsCmd() *cobra.Command {
	var all bool
	var long bool

	cmd := &cobra.Command{
		Use:   "lls [path]",
		Short: "List a local directory",
		Long:  `List the contents of a local directory with the same ordering as ls.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			expanded, err := pathutil.ExpandLocal(path)
			if err != nil {
				return err
			}

			entries, err := localfs.List(expanded, localfs.ListOptions{IncludeHidden: all || GetSettings().ShowHiddenFiles})
			if err != nil {
				return err
			}
			return printEntries(cmd, entries, true, long)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include hidden files")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "Long format (mode, size, modified)")

	return cmd
}

func newStatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stat <path>",
		Short: "Show details of a remote file or directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(client *sftpclient.Client) error {
				path := pathutil.ResolveRemote(client.Cursor(), args[0])
				entry, err := client.Stat(path)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Name:     %s\n", entry.Name)
				fmt.Fprintf(out, "Type:     %s\n", entryType(entry))
				fmt.Fprintf(out, "Mode:     %s\n", entry.Mode)
				if !entry.IsDir {
					fmt.Fprintf(out, "Size:     %s (%d bytes)\n", formatSize(entry.Size), entry.Size)
				}
				if entry.HasModTime() {
					fmt.Fprintf(out, "Modified: %s\n", entry.ModTime.Format("2006-01-02 15:04:05"))
				} else {
					fmt.Fprintf(out, "Modified: unknown\n")
				}
				return nil
			})
		},
	}
	return cmd
}

func entryType(e models.DirEntry) string {
	switch {
	case e.IsDir:
		return "directory"
	case e.IsRegular:
		return "file"
	default:
		return "other"
	}
}

// printEntries renders a listing. Hidden entries are filtered here for the
// remote side; the local lister filters them itself.
func printEntries(cmd *cobra.Command, entries []models.DirEntry, includeHidden, long bool) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	for _, e := range entries {
		if !includeHidden && localfs.IsHiddenName(e.Name) {
			continue
		}

		name := e.Name
		if e.IsDir {
			name += "/"
		}

		if long {
			size := "-"
			if !e.IsDir {
				size = formatSize(e.Size)
			}
			modified := "-"
			if e.HasModTime() {
				modified = e.ModTime.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Mode, size, modified, name)
		} else {
			fmt.Fprintf(w, "%s\n", name)
		}
	}
	return w.Flush()
}

// formatSize renders a byte count in a compact human form.
func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
