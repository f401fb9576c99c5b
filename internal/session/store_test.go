// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStore_LoginLogout(t *testing.T) {
	s := Open(t.TempDir())

	if s.Mode() != Anonymous {
		t.Fatalf("fresh store Mode = %v, want Anonymous", s.Mode())
	}

	if err := s.Login("tok-123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.Mode() != Authenticated {
		t.Errorf("Mode = %v after login, want Authenticated", s.Mode())
	}
	if s.Token() != "tok-123" {
		t.Errorf("Token = %q", s.Token())
	}

	// Replacing the credential is allowed; last writer wins.
	if err := s.Login("tok-456"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.Token() != "tok-456" {
		t.Errorf("Token = %q, want replacement", s.Token())
	}

	if err := s.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if s.Mode() != Anonymous {
		t.Errorf("Mode = %v after logout, want Anonymous", s.Mode())
	}
	// Logout when already logged out is a no-op.
	if err := s.Logout(); err != nil {
		t.Errorf("second Logout: %v", err)
	}
}

func TestStore_PersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := Open(dir)
	if err := s.Login("tok-789"); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveAdminKey("admin-key"); err != nil {
		t.Fatal(err)
	}

	// Simulated reload: a fresh store reads the same file.
	reloaded := Open(dir)
	if reloaded.Mode() != Authenticated {
		t.Errorf("Mode after reload = %v, want Authenticated", reloaded.Mode())
	}
	if reloaded.Token() != "tok-789" {
		t.Errorf("Token after reload = %q", reloaded.Token())
	}
	if reloaded.AdminKey() != "admin-key" {
		t.Errorf("AdminKey after reload = %q", reloaded.AdminKey())
	}

	if err := reloaded.Logout(); err != nil {
		t.Fatal(err)
	}
	if Open(dir).Mode() != Anonymous {
		t.Error("logout should persist across reloads")
	}
}

func TestStore_AdminKey(t *testing.T) {
	s := Open(t.TempDir())

	if s.AdminKey() != "" {
		t.Errorf("fresh AdminKey = %q, want empty", s.AdminKey())
	}
	if err := s.SaveAdminKey("123"); err != nil {
		t.Fatal(err)
	}
	if s.AdminKey() != "123" {
		t.Errorf("AdminKey = %q", s.AdminKey())
	}
	if err := s.ClearAdminKey(); err != nil {
		t.Fatal(err)
	}
	if s.AdminKey() != "" {
		t.Errorf("AdminKey = %q after clear", s.AdminKey())
	}
	// Clearing twice is a no-op.
	if err := s.ClearAdminKey(); err != nil {
		t.Errorf("second ClearAdminKey: %v", err)
	}
}

func TestStore_CorruptFileStartsAnonymous(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "session.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	s := Open(dir)
	if s.Mode() != Anonymous {
		t.Errorf("Mode = %v with corrupt file, want Anonymous", s.Mode())
	}
}
