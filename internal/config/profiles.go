package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Profile describes a saved connection target. Passwords and passphrases are
// deliberately absent: secret material is prompted for at connect time and
// held only in memory.
type Profile struct {
	Name           string `json:"name"`
	Host           string `json:"host"`
	Port           int    `json:"port,omitempty"`
	Username       string `json:"username"`
	PrivateKeyPath string `json:"private_key_path,omitempty"`
	RemoteDir      string `json:"remote_dir,omitempty"`
	Description    string `json:"description,omitempty"`
}

// Validate checks the profile's required fields.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("profile name is required")
	}
	if strings.TrimSpace(p.Host) == "" {
		return errors.New("profile host is required")
	}
	if strings.TrimSpace(p.Username) == "" {
		return errors.New("profile username is required")
	}
	if p.Port < 0 || p.Port > 65535 {
		return fmt.Errorf("profile port %d out of range", p.Port)
	}
	return nil
}

// ErrProfileNotFound is returned by lookups for unknown profile names.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileStore manages the JSON profile file. All methods are safe for
// concurrent use; the file on disk is rewritten whole on every mutation.
type ProfileStore struct {
	path string

	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewProfileStore opens the store at path, loading it if the file exists.
// An empty path selects the default location.
func NewProfileStore(path string) (*ProfileStore, error) {
	if path == "" {
		var err error
		path, err = DefaultProfilesPath()
		if err != nil {
			return nil, fmt.Errorf("failed to determine profile path: %w", err)
		}
	}

	s := &ProfileStore{
		path:     path,
		profiles: make(map[string]Profile),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *ProfileStore) Path() string { return s.path }

// Reload re-reads the backing file, replacing the in-memory set. A missing
// file yields an empty store with no error.
func (s *ProfileStore) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.mu.Lock()
			s.profiles = make(map[string]Profile)
			s.mu.Unlock()
			return nil
		}
		return fmt.Errorf("failed to read profile store: %w", err)
	}

	var profiles []Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return fmt.Errorf("failed to parse profile store: %w", err)
	}

	byName := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("profile store entry %q: %w", p.Name, err)
		}
		byName[p.Name] = p
	}

	s.mu.Lock()
	s.profiles = byName
	s.mu.Unlock()
	return nil
}

// List returns all profiles sorted by name.
func (s *ProfileStore) List() []Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Get returns the named profile.
func (s *ProfileStore) Get(name string) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%q: %w", name, ErrProfileNotFound)
	}
	return p, nil
}

// Add stores a new profile and persists the store. An existing profile with
// the same name is an error; use Update to replace one.
func (s *ProfileStore) Add(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[p.Name]; exists {
		return fmt.Errorf("profile %q already exists", p.Name)
	}
	s.profiles[p.Name] = p
	return s.saveLocked()
}

// Update replaces an existing profile and persists the store.
func (s *ProfileStore) Update(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[p.Name]; !exists {
		return fmt.Errorf("%q: %w", p.Name, ErrProfileNotFound)
	}
	s.profiles[p.Name] = p
	return s.saveLocked()
}

// Remove deletes the named profile and persists the store.
func (s *ProfileStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[name]; !exists {
		return fmt.Errorf("%q: %w", name, ErrProfileNotFound)
	}
	delete(s.profiles, name)
	return s.saveLocked()
}

// saveLocked writes the profile set to disk. Caller holds s.mu.
func (s *ProfileStore) saveLocked() error {
	profiles := make([]Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write profile store: %w", err)
	}
	return nil
}
