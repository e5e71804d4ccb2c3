// Package session keeps short-lived UI state on the server. Browsers only
// ever hold an opaque session id in a cookie.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	flashPrefix = "__flash:"
	csrfKey     = "__csrf"
)

// ErrNotFound is returned by a Store when a session does not exist or has expired
var ErrNotFound = errors.New("session: not found")

// Store persists sessions between requests
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	// Touch pushes back the expiry of an unchanged session
	Touch(ctx context.Context, id string, ttl time.Duration) error
	Destroy(ctx context.Context, id string) error
}

// Session is a bag of string values belonging to one browser
type Session struct {
	ID     string            `json:"id"`
	Values map[string]string `json:"values"`
	dirty  bool
}

// New returns an empty session with a fresh id
func New() *Session {
	return &Session{ID: uuid.NewString(), Values: map[string]string{}, dirty: true}
}

// Get returns the value stored at key, or "" when unset
func (s *Session) Get(key string) string {
	return s.Values[key]
}

// Has reports whether key is set
func (s *Session) Has(key string) bool {
	_, ok := s.Values[key]
	return ok
}

// Set stores value at key
func (s *Session) Set(key, value string) {
	if s.Values == nil {
		s.Values = map[string]string{}
	}
	s.Values[key] = value
	s.dirty = true
}

// Unset removes key
func (s *Session) Unset(keys ...string) {
	for _, key := range keys {
		if _, ok := s.Values[key]; ok {
			delete(s.Values, key)
			s.dirty = true
		}
	}
}

// SetJSON stores v, encoded as JSON, at key
func (s *Session) SetJSON(key string, v interface{}) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.Set(key, string(buf))
	return nil
}

// GetJSON decodes the JSON stored at key into v. It reports false when key is unset.
func (s *Session) GetJSON(key string, v interface{}) (bool, error) {
	raw, ok := s.Values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, err
	}
	return true, nil
}

// Flash stores a value that is removed the first time it is read
func (s *Session) Flash(key, value string) {
	s.Set(flashPrefix+key, value)
}

// TakeFlash returns and clears a flash value
func (s *Session) TakeFlash(key string) string {
	value := s.Get(flashPrefix + key)
	s.Unset(flashPrefix + key)
	return value
}

// CSRFToken returns the session's form token, creating it on first use
func (s *Session) CSRFToken() string {
	token := s.Get(csrfKey)
	if token == "" {
		token = uuid.NewString()
		s.Set(csrfKey, token)
	}
	return token
}

// Dirty reports whether the session changed since it was loaded
func (s *Session) Dirty() bool {
	return s.dirty
}

func encode(s *Session) ([]byte, error) {
	return json.Marshal(s.Values)
}

func decode(id string, data []byte) (*Session, error) {
	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return &Session{ID: id, Values: values}, nil
}
