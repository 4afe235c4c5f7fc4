package models

// Credential carries the authentication material for a single connect
// attempt. It is supplied fresh by the caller every time and is never
// persisted by the engine; the profile store deliberately stores no secrets.
type Credential struct {
	Username string

	// Password is used for password authentication, and as the fallback when
	// key authentication fails for a non-passphrase reason.
	Password string

	// PrivateKeyPath points at a PEM private key file. When set, key
	// authentication is attempted before password authentication.
	PrivateKeyPath string

	// Passphrase unlocks an encrypted private key. An encrypted key with no
	// passphrase is a hard error, not a silent fallback to password auth.
	Passphrase string
}

// HasKey reports whether key material was supplied.
func (c Credential) HasKey() bool {
	return c.PrivateKeyPath != ""
}

// HasPassword reports whether a password was supplied.
func (c Credential) HasPassword() bool {
	return c.Password != ""
}
