package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemoryStore keeps sessions in process. Suitable for development and tests
// only, as sessions are lost on restart and not shared between instances.
type MemoryStore struct {
	sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore returns an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]memoryEntry{}, now: time.Now}
}

// Load returns a copy of the stored session
func (m *MemoryStore) Load(_ context.Context, id string) (*Session, error) {
	m.Lock()
	entry, ok := m.entries[id]
	if ok && !m.now().Before(entry.expires) {
		delete(m.entries, id)
		ok = false
	}
	m.Unlock()

	if !ok {
		return nil, ErrNotFound
	}
	return decode(id, entry.data)
}

// Save stores a copy of s until ttl elapses
func (m *MemoryStore) Save(_ context.Context, s *Session, ttl time.Duration) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	m.Lock()
	m.entries[s.ID] = memoryEntry{data: data, expires: m.now().Add(ttl)}
	m.Unlock()
	return nil
}

// Touch extends a live session. Expired or unknown sessions are left alone.
func (m *MemoryStore) Touch(_ context.Context, id string, ttl time.Duration) error {
	m.Lock()
	defer m.Unlock()
	entry, ok := m.entries[id]
	if !ok || !m.now().Before(entry.expires) {
		return ErrNotFound
	}
	entry.expires = m.now().Add(ttl)
	m.entries[id] = entry
	return nil
}

// Destroy removes a session
func (m *MemoryStore) Destroy(_ context.Context, id string) error {
	m.Lock()
	delete(m.entries, id)
	m.Unlock()
	return nil
}
