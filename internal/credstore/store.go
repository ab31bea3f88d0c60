// Package credstore owns the persisted credential material: the OAuth
// token bundle and the raw cookie header used by the scraped web source.
// Environment overrides take precedence over files so serverless deploys
// can run without writable storage.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"tenup-padel-service/internal/domain"
)

const (
	envToken  = "TENUP_TOKEN"
	envCookie = "TENUP_COOKIE"

	tokenFile     = "token.json"
	cookieFile    = "cookie.txt"
	cookieFileAlt = "cookies.txt"
)

// Store reads and writes credentials under a single data directory.
// All operations are serialized so readers never observe a bundle that a
// concurrent refresh is halfway through replacing.
type Store struct {
	mu      sync.Mutex
	dataDir string
	getenv  func(string) string
}

// New constructs a store rooted at dataDir.
func New(dataDir string) *Store {
	return &Store{
		dataDir: dataDir,
		getenv:  os.Getenv,
	}
}

// LoadTokenBundle returns the current token bundle. The persisted file
// wins over the environment variable because it holds refreshed tokens.
func (s *Store) LoadTokenBundle() (domain.TokenBundle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, err := os.ReadFile(s.tokenPath()); err == nil {
		var bundle domain.TokenBundle
		if json.Unmarshal(raw, &bundle) == nil && bundle.AccessToken != "" {
			return bundle, true
		}
	}

	if raw := s.getenv(envToken); raw != "" {
		var bundle domain.TokenBundle
		if json.Unmarshal([]byte(raw), &bundle) == nil && bundle.AccessToken != "" {
			return bundle, true
		}
	}

	return domain.TokenBundle{}, false
}

// SaveTokenBundle atomically replaces the persisted bundle.
func (s *Store) SaveTokenBundle(bundle domain.TokenBundle) error {
	if bundle.AccessToken == "" {
		return errors.New("credstore: refusing to persist bundle without access token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("credstore: encoding token bundle: %w", err)
	}
	return s.writeAtomic(s.tokenPath(), raw)
}

// LoadCookieHeader returns the cookie header with origin precedence:
// environment override, then persisted file. A leading "Cookie:" header
// name is stripped and multi-line files are collapsed to one header.
func (s *Store) LoadCookieHeader() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw := s.getenv(envCookie); raw != "" {
		return normalizeCookieHeader(raw), true
	}

	for _, name := range []string{cookieFile, cookieFileAlt} {
		raw, err := os.ReadFile(filepath.Join(s.dataDir, name))
		if err != nil {
			continue
		}
		header := normalizeCookieHeader(string(raw))
		if header != "" {
			return header, true
		}
	}

	return "", false
}

// SaveCookieHeader atomically persists a freshly obtained cookie header.
func (s *Store) SaveCookieHeader(header string) error {
	if strings.TrimSpace(header) == "" {
		return errors.New("credstore: refusing to persist empty cookie header")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeAtomic(filepath.Join(s.dataDir, cookieFileAlt), []byte(header))
}

func (s *Store) tokenPath() string {
	return filepath.Join(s.dataDir, tokenFile)
}

// writeAtomic writes via a temp file and rename so readers only ever see
// the previous or the complete new content.
func (s *Store) writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("credstore: creating data dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("credstore: creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("credstore: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("credstore: closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("credstore: replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func normalizeCookieHeader(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 7 && strings.EqualFold(raw[:7], "cookie:") {
		raw = strings.TrimSpace(raw[7:])
	}

	lines := strings.Split(raw, "\n")
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, "; ")
}
