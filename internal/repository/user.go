package repository

import (
	"context"
	"strings"
	"sync"

	"fixmycity/internal/model"
)

// userRepository implements UserRepository in memory, keyed by id and by
// lower-cased email.
type userRepository struct {
	mu      sync.RWMutex
	byID    map[string]*UserRecord
	byEmail map[string]string
}

// NewUserRepository creates an empty user repository
func NewUserRepository() UserRepository {
	return &userRepository{
		byID:    make(map[string]*UserRecord),
		byEmail: make(map[string]string),
	}
}

// Create stores a new account. The email must be unused.
func (r *userRepository) Create(_ context.Context, u *UserRecord) error {
	email := strings.ToLower(strings.TrimSpace(u.Profile.Email))

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return model.ErrEmailExists
	}

	stored := *u
	r.byID[u.Profile.ID] = &stored
	r.byEmail[email] = u.Profile.ID
	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(_ context.Context, id string) (*UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

// GetByEmail retrieves a user by email, ignoring case
func (r *userRepository) GetByEmail(_ context.Context, email string) (*UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	out := *r.byID[id]
	return &out, nil
}
