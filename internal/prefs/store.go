// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

// Package prefs stores each user's saved streaming services and countries.
//
// Preferences live in memory and are written through to a single JSON file
// on every change. The file is replaced atomically (write to a temp file in
// the same directory, then rename), so a crash never leaves it truncated.
// An empty path keeps preferences in memory only.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode"

	"github.com/goccy/go-json"

	"github.com/tomtom215/streamshelf/internal/catalog"
)

// ErrInvalidUserID is returned for empty, oversized or non-printable ids.
var ErrInvalidUserID = errors.New("invalid user id")

const maxUserIDLength = 128

// Preferences are one user's saved filter defaults.
type Preferences struct {
	ProviderIDs []int     `json:"providerIds"`
	Countries   []string  `json:"countries"`
	IncludePaid bool      `json:"includePaid"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Store is a file-backed preference store safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	path string
	data map[string]Preferences
	now  func() time.Time
}

// Open loads the store at path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, data: make(map[string]Preferences), now: time.Now}
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("failed to parse preferences %s: %w", path, err)
	}
	return s, nil
}

// ValidateUserID checks a caller identity taken from a request header.
func ValidateUserID(userID string) error {
	if userID == "" || len(userID) > maxUserIDLength {
		return ErrInvalidUserID
	}
	for _, r := range userID {
		if !unicode.IsPrint(r) {
			return ErrInvalidUserID
		}
	}
	return nil
}

// Get returns the saved preferences; ok is false when none are saved.
func (s *Store) Get(userID string) (Preferences, bool, error) {
	if err := ValidateUserID(userID); err != nil {
		return Preferences{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.data[userID]
	return p, ok, nil
}

// Put normalizes and saves preferences, returning the stored value.
func (s *Store) Put(userID string, p Preferences) (Preferences, error) {
	if err := ValidateUserID(userID); err != nil {
		return Preferences{}, err
	}
	p.ProviderIDs = catalog.SortedProviderIDs(p.ProviderIDs)
	p.Countries = catalog.SortedCountries(p.Countries)
	p.UpdatedAt = s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.data[userID]
	s.data[userID] = p
	if err := s.persistLocked(); err != nil {
		if had {
			s.data[userID] = prev
		} else {
			delete(s.data, userID)
		}
		return Preferences{}, err
	}
	return p, nil
}

// Len returns the number of users with saved preferences.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".preferences-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close preferences: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace preferences: %w", err)
	}
	return nil
}
