// Package cli provides the command-line interface for sftpbridge.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Pythax76/sftpbridge/internal/config"
	"github.com/Pythax76/sftpbridge/internal/logging"
)

var (
	// Global flags
	profileName  string
	hostFlag     string
	portFlag     int
	userFlag     string
	keyFlag      string
	passphraseIn bool
	settingsPath string
	profilesPath string
	verbose      bool

	// Global logger
	logger *logging.Logger

	// Loaded settings, populated in PersistentPreRunE
	settings *config.Settings

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// Version information - set by main package at startup.
var (
	Version   = "v1.0.0-dev"
	BuildTime = "unknown"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sftpbridge",
		Short: "sftpbridge - SFTP file transfer client",
		Long: `sftpbridge ` + Version + ` - Built: ` + BuildTime + `
Transfer files to and from SFTP servers.

Connection details come from --host/--user flags or a saved profile
(--profile). Passwords are prompted for interactively and never stored.

Examples:
  # List a remote directory
  sftpbridge ls /srv/data --host files.example.com --user demo

  # Download a file using a saved profile
  sftpbridge get /srv/data/report.pdf ./report.pdf --profile work

  # Upload with a private key
  sftpbridge put ./data.tar.gz /srv/incoming/ --host files.example.com --user demo --key ~/.ssh/id_ed25519`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = logging.NewDefault()

			var err error
			settings, err = config.LoadSettings(settingsPath)
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}

			if verbose {
				logging.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				logging.SetGlobalLevel(levelFromName(settings.LogLevel))
			}

			attachLogFile()
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "Saved connection profile name")
	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "", "SFTP server hostname (overrides profile)")
	rootCmd.PersistentFlags().IntVar(&portFlag, "port", 0, "SFTP server port (default 22)")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "Username (overrides profile)")
	rootCmd.PersistentFlags().StringVarP(&keyFlag, "key", "k", "", "Private key path (overrides profile)")
	rootCmd.PersistentFlags().BoolVar(&passphraseIn, "ask-passphrase", false, "Prompt for a private key passphrase")
	rootCmd.PersistentFlags().StringVarP(&settingsPath, "config", "c", "", "Settings file path")
	rootCmd.PersistentFlags().StringVar(&profilesPath, "profiles", "", "Profile store path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")

	rootCmd.Version = Version + " (" + BuildTime + ")"

	return rootCmd
}

// attachLogFile mirrors log output into the log directory. Best effort; the
// console logger keeps working when the directory or file is unavailable.
func attachLogFile() {
	if err := config.EnsureLogDirectory(); err != nil {
		logger.Debug().Err(err).Msg("log directory unavailable")
		return
	}
	logPath := filepath.Join(config.LogDirectory(), "sftpbridge.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		logger.Debug().Err(err).Str("path", logPath).Msg("log file unavailable")
		return
	}
	logger.AttachFile(f)
}

func levelFromName(name string) zerolog.Level {
	switch name {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Execute runs the CLI.
func Execute() error {
	rootContext, cancelFunc = context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\nReceived signal %v, cancelling...\n", sig)
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	err := rootCmd.Execute()

	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newLsCmd())
	rootCmd.AddCommand(newLlsCmd())
	rootCmd.AddCommand(newStatCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newPutCmd())
	rootCmd.AddCommand(newMkdirCmd())
	rootCmd.AddCommand(newRmCmd())
	rootCmd.AddCommand(newRmdirCmd())
	rootCmd.AddCommand(newRenameCmd())
	rootCmd.AddCommand(newProfileCmd())
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return logger
}

// GetContext returns the global CLI context. It is cancelled when the user
// presses Ctrl+C.
func GetContext() context.Context {
	if rootContext == nil {
		return context.Background()
	}
	return rootContext
}

// GetSettings returns the loaded settings, or defaults when called before
// the root command ran.
func GetSettings() *config.Settings {
	if settings == nil {
		return config.NewSettings()
	}
	return settings
}
