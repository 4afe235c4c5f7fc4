package sftpclient

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/Pythax76/sftpbridge/internal/errs"
	"github.com/Pythax76/sftpbridge/internal/models"
)

// buildAuthMethods turns a credential into the ordered SSH auth method list.
// Key auth, when key material is present, goes first; password auth is the
// fallback the transport tries if the server rejects the key. No network I/O
// happens here, so configuration and key-material problems surface before a
// single packet is sent.
func buildAuthMethods(cred models.Credential) ([]ssh.AuthMethod, error) {
	if !cred.HasKey() && !cred.HasPassword() {
		return nil, errs.E(errs.KindConfiguration, "connect", "",
			fmt.Errorf("no authentication method: supply a password or a private key"))
	}

	var methods []ssh.AuthMethod

	if cred.HasKey() {
		signer, err := loadSigner(cred)
		if err != nil {
			// A passphrase problem is never silently downgraded to password
			// auth; any other key failure falls back when a password exists.
			if errs.IsKind(err, errs.KindAuthMaterial) && isPassphraseError(err) {
				return nil, err
			}
			if !cred.HasPassword() {
				return nil, err
			}
		} else {
			methods = append(methods, ssh.PublicKeys(signer))
		}
	}

	if cred.HasPassword() {
		methods = append(methods, ssh.Password(cred.Password))
	}

	if len(methods) == 0 {
		return nil, errs.E(errs.KindConfiguration, "connect", "",
			fmt.Errorf("no usable authentication method"))
	}
	return methods, nil
}

// passphraseRequired tags auth-material errors caused by a missing or wrong
// passphrase, so buildAuthMethods can refuse the password fallback for them.
type passphraseRequired struct {
	err error
}

func (p *passphraseRequired) Error() string { return p.err.Error() }
func (p *passphraseRequired) Unwrap() error { return p.err }

func isPassphraseError(err error) bool {
	var p *passphraseRequired
	return errors.As(err, &p)
}

// loadSigner reads and parses the private key named by the credential.
func loadSigner(cred models.Credential) (ssh.Signer, error) {
	keyBytes, err := os.ReadFile(cred.PrivateKeyPath)
	if err != nil {
		return nil, errs.E(errs.KindAuthMaterial, "connect", cred.PrivateKeyPath, err)
	}

	signer, err := ssh.ParsePrivateKey(keyBytes)
	if err == nil {
		return signer, nil
	}

	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) {
		if cred.Passphrase == "" {
			return nil, errs.E(errs.KindAuthMaterial, "connect", cred.PrivateKeyPath,
				&passphraseRequired{fmt.Errorf("private key is encrypted and no passphrase was supplied")})
		}
		signer, err = ssh.ParsePrivateKeyWithPassphrase(keyBytes, []byte(cred.Passphrase))
		if err != nil {
			return nil, errs.E(errs.KindAuthMaterial, "connect", cred.PrivateKeyPath,
				&passphraseRequired{fmt.Errorf("decrypting private key: %w", err)})
		}
		return signer, nil
	}

	return nil, errs.E(errs.KindAuthMaterial, "connect", cred.PrivateKeyPath, err)
}

// classifyDial maps an ssh.Dial failure onto the error taxonomy. The ssh
// package does not expose typed auth errors, so the authentication case
// matches on its stable message prefix.
func classifyDial(err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errs.E(errs.KindTransport, "connect", "", err)
	}

	if strings.Contains(err.Error(), "unable to authenticate") ||
		strings.Contains(err.Error(), "no supported methods remain") {
		return errs.E(errs.KindAuthentication, "connect", "", err)
	}

	return errs.E(errs.KindTransport, "connect", "", err)
}
