// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package prefs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateUserID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "user-123", false},
		{"email", "someone@example.com", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", maxUserIDLength+1), true},
		{"control char", "user\n1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUserID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUserID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidUserID) {
				t.Errorf("error = %v, want ErrInvalidUserID", err)
			}
		})
	}
}

func TestStore_PutGetPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if _, ok, err := s.Get("alice"); err != nil || ok {
		t.Fatalf("Get() on empty store = ok %v, err %v", ok, err)
	}

	saved, err := s.Put("alice", Preferences{ProviderIDs: []int{9, 8, 8, -1}, Countries: []string{"us", "gb", "xx1"}})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if len(saved.ProviderIDs) != 2 || saved.ProviderIDs[0] != 8 {
		t.Errorf("ProviderIDs = %v, want [8 9]", saved.ProviderIDs)
	}
	if strings.Join(saved.Countries, ",") != "GB,US" {
		t.Errorf("Countries = %v, want [GB US]", saved.Countries)
	}
	if saved.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set")
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	got, ok, err := reopened.Get("alice")
	if err != nil || !ok {
		t.Fatalf("Get() after reopen = ok %v, err %v", ok, err)
	}
	if len(got.ProviderIDs) != 2 || len(got.Countries) != 2 {
		t.Errorf("reloaded = %+v", got)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the preferences file", len(entries))
	}
}

func TestStore_InvalidUser(t *testing.T) {
	s, err := Open("")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put("", Preferences{}); !errors.Is(err, ErrInvalidUserID) {
		t.Errorf("Put() error = %v, want ErrInvalidUserID", err)
	}
	if _, _, err := s.Get(""); !errors.Is(err, ErrInvalidUserID) {
		t.Errorf("Get() error = %v, want ErrInvalidUserID", err)
	}
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("Open() on corrupt file: want error")
	}
}

func TestStore_MemoryOnly(t *testing.T) {
	s, err := Open("")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put("bob", Preferences{ProviderIDs: []int{337}}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}
