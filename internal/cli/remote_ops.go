package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pythax76/sftpbridge/internal/pathutil"
	"github.com/Pythax76/sftpbridge/internal/sftpclient"
)

func newMkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a remote directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(client *sftpclient.Client) error {
				path := pathutil.ResolveRemote(client.Cursor(), args[0])
				if err := client.Mkdir(path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
				return nil
			})
		},
	}
}

func newRmCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <path>",
		Short: "Remove a remote file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(client *sftpclient.Client) error {
				path := pathutil.ResolveRemote(client.Cursor(), args[0])

				if !force {
					confirmed, err := promptYesNo(fmt.Sprintf("remove %s on %s?", path, client.Host()))
					if err != nil {
						return err
					}
					if !confirmed {
						return errors.New("aborted")
					}
				}

				if err := client.Remove(path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", path)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove without asking")

	return cmd
}

func newRmdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rmdir <path>",
		Short: "Remove an empty remote directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(client *sftpclient.Client) error {
				path := pathutil.ResolveRemote(client.Cursor(), args[0])
				if err := client.RemoveDirectory(path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", path)
				return nil
			})
		},
	}
}

func newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old-path> <new-path>",
		Short: "Rename or move a remote file or directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(client *sftpclient.Client) error {
				oldPath := pathutil.ResolveRemote(client.Cursor(), args[0])
				newPath := pathutil.ResolveRemote(client.Cursor(), args[1])
				if err := client.Rename(oldPath, newPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "renamed %s -> %s\n", oldPath, newPath)
				return nil
			})
		},
	}
}
