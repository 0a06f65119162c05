package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// cachedSession is the on-disk snapshot of an authenticated session:
// the session cookie value, its CSRF pair, and the user it belongs to.
// Persisting both halves lets a new process resume the session without
// logging in again.
type cachedSession struct {
	Token     string `json:"token"`
	CSRFToken string `json:"csrfToken"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

// loadCache reads the cached session from path. A missing file is not
// an error; it just means nobody is logged in.
func loadCache(path string) (*cachedSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session cache: %w", err)
	}

	var cached cachedSession
	if err := json.Unmarshal(data, &cached); err != nil {
		// A corrupt cache is treated as absent rather than fatal; the
		// next login rewrites it.
		return nil, nil
	}
	return &cached, nil
}

// saveCache writes the session snapshot with owner-only permissions,
// since the token grants account access.
func saveCache(path string, cached *cachedSession) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(cached, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing session cache: %w", err)
	}
	return nil
}

// clearCache removes the cached session. Already-absent is fine.
func clearCache(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session cache: %w", err)
	}
	return nil
}
