package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Pythax76/sftpbridge/internal/config"
	"github.com/Pythax76/sftpbridge/internal/pathutil"
)

func newProfileCmd() *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage saved connection profiles",
		Long: `Manage saved connection profiles. Profiles hold the host, port,
username and optional private key path. Passwords are never stored.`,
	}

	profileCmd.AddCommand(newProfileListCmd())
	profileCmd.AddCommand(newProfileAddCmd())
	profileCmd.AddCommand(newProfileRemoveCmd())
	profileCmd.AddCommand(newProfileShowCmd())

	return profileCmd
}

func openProfileStore() (*config.ProfileStore, error) {
	store, err := config.NewProfileStore(profilesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile store: %w", err)
	}
	return store, nil
}

func newProfileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openProfileStore()
			if err != nil {
				return err
			}

			profiles := store.List()
			if len(profiles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no profiles saved")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tHOST\tPORT\tUSER\tAUTH")
			for _, p := range profiles {
				port := p.Port
				if port == 0 {
					port = 22
				}
				auth := "password"
				if p.PrivateKeyPath != "" {
					auth = "key"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", p.Name, p.Host, port, p.Username, auth)
			}
			return w.Flush()
		},
	}
}

func newProfileAddCmd() *cobra.Command {
	var profile config.Profile

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Save a new profile",
		Long: `Save a new connection profile.

Examples:
  sftpbridge profile add work --host files.example.com --user demo
  sftpbridge profile add backup --host backup.example.com --user demo --key ~/.ssh/id_ed25519`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openProfileStore()
			if err != nil {
				return err
			}

			profile.Name = args[0]
			if profile.PrivateKeyPath != "" {
				keyPath, err := pathutil.ExpandLocal(profile.PrivateKeyPath)
				if err != nil {
					return err
				}
				profile.PrivateKeyPath = keyPath
			}

			if err := store.Add(profile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved profile %q\n", profile.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile.Host, "host", "", "SFTP server hostname (required)")
	cmd.Flags().IntVar(&profile.Port, "port", 0, "SFTP server port (default 22)")
	cmd.Flags().StringVar(&profile.Username, "user", "", "Username (required)")
	cmd.Flags().StringVar(&profile.PrivateKeyPath, "key", "", "Private key path")
	cmd.Flags().StringVar(&profile.RemoteDir, "remote-dir", "", "Initial remote directory")
	cmd.Flags().StringVar(&profile.Description, "description", "", "Free-form description")
	_ = cmd.MarkFlagRequired("host")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newProfileRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Delete a saved profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openProfileStore()
			if err != nil {
				return err
			}
			if err := store.Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed profile %q\n", args[0])
			return nil
		},
	}
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a saved profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openProfileStore()
			if err != nil {
				return err
			}
			p, err := store.Get(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:        %s\n", p.Name)
			fmt.Fprintf(out, "Host:        %s\n", p.Host)
			port := p.Port
			if port == 0 {
				port = 22
			}
			fmt.Fprintf(out, "Port:        %d\n", port)
			fmt.Fprintf(out, "Username:    %s\n", p.Username)
			if p.PrivateKeyPath != "" {
				fmt.Fprintf(out, "Private key: %s\n", p.PrivateKeyPath)
			}
			if p.RemoteDir != "" {
				fmt.Fprintf(out, "Remote dir:  %s\n", p.RemoteDir)
			}
			if p.Description != "" {
				fmt.Fprintf(out, "Description: %s\n", p.Description)
			}
			return nil
		},
	}
}
