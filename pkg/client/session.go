// Package client is a Go consumer of the userbase API. It mirrors what the
// web frontend does: call the REST endpoints, keep the issued token and user
// summary in a persisted session, and attach the token to subsequent
// requests.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoSession is returned by Load when no session has been saved yet.
var ErrNoSession = errors.New("no stored session")

// UserSummary is the slice of the account kept alongside the token, enough
// to drive conditional rendering (admin vs regular) without a round trip.
type UserSummary struct {
	ID           string `json:"_id"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"isAdmin"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Session is the persisted authentication state: the bearer token and the
// user summary returned at login.
type Session struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// SessionStore persists a Session as a JSON file. It is the explicit
// load/save/clear abstraction over whatever keeps state between runs.
type SessionStore struct {
	path string
}

// NewSessionStore stores the session at path.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Load reads the stored session. ErrNoSession when none exists.
func (s *SessionStore) Load() (*Session, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("session load: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("session load: decode: %w", err)
	}
	if sess.Token == "" {
		return nil, ErrNoSession
	}
	return &sess, nil
}

// Save writes the session, creating parent directories as needed. The file
// holds a credential, so it is not group or world readable.
func (s *SessionStore) Save(sess *Session) error {
	raw, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("session save: encode: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("session save: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an absent session is not an
// error.
func (s *SessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}
