// Package memory provides an in-process UserStore for development and tests.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/account-server/internal/model"
)

// PasswordHasher derives and checks stored password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

var _ model.UserStore = (*UserRepository)(nil)

// UserRepository keeps users in a map. Emails are compared case-insensitively
// and must be unique among live users.
type UserRepository struct {
	mu     sync.RWMutex
	users  map[uuid.UUID]model.User
	hasher PasswordHasher
	clock  model.Clock
}

func NewUserRepository(hasher PasswordHasher, clock model.Clock) *UserRepository {
	return &UserRepository{
		users:  make(map[uuid.UUID]model.User),
		hasher: hasher,
		clock:  clock,
	}
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.findByEmail(email); ok {
		return u, nil
	}
	return model.User{}, model.ErrNotFound
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) Create(_ context.Context, params model.CreateUserParams) (model.User, error) {
	hash, err := r.hasher.Hash(params.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.findByEmail(params.Email); ok {
		return model.User{}, model.ErrConflict
	}

	now := r.clock.Now()
	u := model.User{
		ID:           uuid.New(),
		Email:        params.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *UserRepository) SetPasswordAndVerify(_ context.Context, id uuid.UUID, password string) (model.User, error) {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return model.User{}, model.ErrNotFound
	}
	u.PasswordHash = hash
	u.Verified = true
	u.UpdatedAt = r.clock.Now()
	r.users[id] = u
	return u, nil
}

func (r *UserRepository) VerifyCredentials(ctx context.Context, email, password string) (model.User, error) {
	u, err := r.GetByEmail(ctx, email)
	if err != nil {
		_, _ = r.hasher.Hash(password)
		return model.User{}, model.ErrInvalidCredentials
	}
	ok, err := r.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return model.User{}, model.ErrInvalidCredentials
	}
	return u, nil
}

// SetAdmin grants or revokes the admin flag. There is no API for this; it
// exists for seeding and tests.
func (r *UserRepository) SetAdmin(id uuid.UUID, admin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return model.ErrNotFound
	}
	u.Admin = admin
	r.users[id] = u
	return nil
}

// Delete soft deletes the user.
func (r *UserRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return model.ErrNotFound
	}
	now := r.clock.Now()
	u.DeletedAt = &now
	u.UpdatedAt = now
	r.users[id] = u
	return nil
}

func (r *UserRepository) findByEmail(email string) (model.User, bool) {
	for _, u := range r.users {
		if u.DeletedAt == nil && strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return model.User{}, false
}

// Len returns the number of stored users, deleted ones included.
func (r *UserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
