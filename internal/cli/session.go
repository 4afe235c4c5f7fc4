package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Pythax76/sftpbridge/internal/config"
	"github.com/Pythax76/sftpbridge/internal/models"
	"github.com/Pythax76/sftpbridge/internal/pathutil"
	"github.com/Pythax76/sftpbridge/internal/sftpclient"
)

// target is the fully resolved connection destination for one command run.
type target struct {
	host      string
	port      int
	cred      models.Credential
	remoteDir string
}

// resolveTarget merges the saved profile (when --profile is set) with the
// command-line overrides and collects credential material. Passwords come
// from the SFTPBRIDGE_PASSWORD environment variable or an interactive
// prompt; they are never read from a file.
func resolveTarget() (target, error) {
	var tgt target

	if profileName != "" {
		store, err := config.NewProfileStore(profilesPath)
		if err != nil {
			return tgt, err
		}
		profile, err := store.Get(profileName)
		if err != nil {
			return tgt, err
		}
		tgt.host = profile.Host
		tgt.port = profile.Port
		tgt.cred.Username = profile.Username
		tgt.cred.PrivateKeyPath = profile.PrivateKeyPath
		tgt.remoteDir = profile.RemoteDir
	}

	if hostFlag != "" {
		tgt.host = hostFlag
	}
	if portFlag != 0 {
		tgt.port = portFlag
	}
	if userFlag != "" {
		tgt.cred.Username = userFlag
	}
	if keyFlag != "" {
		keyPath, err := pathutil.ExpandLocal(keyFlag)
		if err != nil {
			return tgt, fmt.Errorf("bad key path %q: %w", keyFlag, err)
		}
		tgt.cred.PrivateKeyPath = keyPath
	}

	if tgt.host == "" {
		return tgt, errors.New("no host: use --host or --profile")
	}
	if tgt.cred.Username == "" {
		return tgt, errors.New("no username: use --user or --profile")
	}

	if tgt.cred.PrivateKeyPath != "" && passphraseIn {
		passphrase, err := promptSecret("Passphrase")
		if err != nil {
			return tgt, err
		}
		tgt.cred.Passphrase = passphrase
	}

	if password := os.Getenv("SFTPBRIDGE_PASSWORD"); password != "" {
		tgt.cred.Password = password
	} else if tgt.cred.PrivateKeyPath == "" {
		password, err := promptSecret("Password")
		if err != nil {
			return tgt, err
		}
		tgt.cred.Password = password
	}

	return tgt, nil
}

// withSession connects, runs fn, and disconnects. The remote cursor starts
// at the profile's remote directory when one is set.
func withSession(fn func(client *sftpclient.Client) error) error {
	tgt, err := resolveTarget()
	if err != nil {
		return err
	}

	client := sftpclient.New(GetLogger())
	client.SetStatusObserver(func(status string) {
		GetLogger().Debug().Str("status", status).Msg("session")
	})

	timeout := time.Duration(GetSettings().ConnectTimeoutSeconds) * time.Second
	if err := client.Connect(tgt.host, tgt.port, tgt.cred, timeout); err != nil {
		return fmt.Errorf("connect %s: %w", tgt.host, err)
	}
	defer client.Disconnect()

	if tgt.remoteDir != "" {
		if err := client.SetCursor(tgt.remoteDir); err != nil {
			return err
		}
	}
	return fn(client)
}
