// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the client-side authentication state: the bearer
// credential for user-scoped endpoints and the shared-secret admin key.
//
// The store is the single writer for both values. Every mutation persists
// synchronously so a restarted client resumes in the same mode.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// sessionFile is the well-known file name inside the config directory.
const sessionFile = "session.json"

// =============================================================================
// MODE
// =============================================================================

// Mode is the derived authentication mode. It is a pure function of the
// stored credential; no other component may cache it independently.
type Mode int

const (
	// Anonymous means no credential is held.
	Anonymous Mode = iota
	// Authenticated means a bearer credential is held.
	Authenticated
)

// String returns the mode name for logging.
func (m Mode) String() string {
	if m == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// =============================================================================
// STORE
// =============================================================================

// persisted is the on-disk shape of the session state. The credential is an
// opaque server token; no expiry is tracked client-side.
type persisted struct {
	Token    string `json:"token,omitempty"`
	AdminKey string `json:"admin_key,omitempty"`
}

// Store holds the current credential and admin key, persisted to a single
// file in the config directory.
type Store struct {
	mu   sync.Mutex
	path string
	data persisted
}

// Open initializes a store from the session file in dir. A missing or
// unreadable file yields an anonymous session rather than an error; a
// corrupt session file must never lock the user out of the client.
func Open(dir string) *Store {
	s := &Store{path: filepath.Join(dir, sessionFile)}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return s
	}
	// Tolerate corrupt files: start anonymous.
	_ = json.Unmarshal(raw, &s.data)
	return s
}

// Login stores the credential in memory and on disk. Calling it again with
// a different value replaces the prior one; there is no multi-session
// support.
func (s *Store) Login(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Token = token
	return s.persist()
}

// Logout clears the credential. Idempotent when already logged out.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.Token == "" {
		return nil
	}
	s.data.Token = ""
	return s.persist()
}

// Mode returns Authenticated iff a credential is present. Synchronous,
// no I/O.
func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.Token != "" {
		return Authenticated
	}
	return Anonymous
}

// Token returns the current credential, or "" when anonymous. The transport
// layer reads it but does not own it.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Token
}

// =============================================================================
// ADMIN KEY
// =============================================================================

// AdminKey returns the persisted admin key, or "" if none is saved.
func (s *Store) AdminKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.AdminKey
}

// SaveAdminKey persists the admin key. Saving a key does not unlock the
// dashboard; validity is determined only by server acceptance.
func (s *Store) SaveAdminKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.AdminKey = key
	return s.persist()
}

// ClearAdminKey removes the persisted admin key. Idempotent.
func (s *Store) ClearAdminKey() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.AdminKey == "" {
		return nil
	}
	s.data.AdminKey = ""
	return s.persist()
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// persist writes the session file. Callers hold s.mu.
func (s *Store) persist() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	// Write-then-rename so a crash mid-write never corrupts the session.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Join(fmt.Errorf("replace session: %w", err), os.Remove(tmp))
	}
	return nil
}
