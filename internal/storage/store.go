// Package storage persists the session pair (token + user) between runs.
package storage

import (
	"context"
	"errors"
	"sync"
)

// Keys of the two persisted entries.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// ErrStoreUnavailable is returned when a backend cannot be reached.
var ErrStoreUnavailable = errors.New("session store unavailable")

// SessionStore is a durable key/value store holding the token and the
// serialized user. Save and Clear write both keys as one unit.
//
// Load returns empty values and a nil error when nothing is stored. It does
// not validate the user payload; decoding is the caller's job so corruption
// is handled in one place.
type SessionStore interface {
	Load(ctx context.Context) (token string, user []byte, err error)
	Save(ctx context.Context, token string, user []byte) error
	Clear(ctx context.Context) error
}

// Memory is an in-process SessionStore, used by tests and one-shot runs.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

// Set writes a single raw key, bypassing pair semantics. Tests use it to
// plant corrupt state.
func (m *Memory) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Get returns a single raw key.
func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Load(_ context.Context) (string, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var user []byte
	if v, ok := m.values[KeyUser]; ok {
		user = []byte(v)
	}
	return m.values[KeyToken], user, nil
}

func (m *Memory) Save(_ context.Context, token string, user []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[KeyToken] = token
	m.values[KeyUser] = string(user)
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, KeyToken)
	delete(m.values, KeyUser)
	return nil
}
