package session

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Manager ties a Store to the session cookie
type Manager struct {
	store      Store
	cookieName string
	ttl        time.Duration
	secure     bool
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithCookieName sets the name of the session cookie
func WithCookieName(name string) ManagerOption {
	return func(m *Manager) {
		m.cookieName = name
	}
}

// WithTTL sets how long an idle session lives
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithSecureCookie marks the session cookie Secure
func WithSecureCookie(secure bool) ManagerOption {
	return func(m *Manager) {
		m.secure = secure
	}
}

// NewManager returns a Manager over store
func NewManager(store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:      store,
		cookieName: "__session",
		ttl:        4 * time.Hour,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CookieName returns the name of the session cookie
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Get loads the request's session, starting a new one when the cookie is
// missing or the session has expired
func (m *Manager) Get(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return New(), nil
	}

	s, err := m.store.Load(r.Context(), cookie.Value)
	if errors.Is(err, ErrNotFound) {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Commit saves s, or only extends its expiry when nothing changed, and sets
// the session cookie. It must be called before the response status is written.
func (m *Manager) Commit(ctx context.Context, w http.ResponseWriter, s *Session) error {
	err := ErrNotFound
	if !s.dirty {
		err = m.store.Touch(ctx, s.ID, m.ttl)
	}
	// a session that expired while in use is written back in full
	if errors.Is(err, ErrNotFound) {
		err = m.store.Save(ctx, s, m.ttl)
	}
	if err != nil {
		return err
	}
	s.dirty = false
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    s.ID,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Destroy removes s from the store and expires the cookie
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if err := m.store.Destroy(ctx, s.ID); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

type contextKey struct{}

// WithContext attaches s to ctx
func WithContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session attached to ctx, or nil
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}
