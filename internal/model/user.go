package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
// Password hashing is the store's responsibility.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, params CreateUserParams) (User, error)
	SetPasswordAndVerify(ctx context.Context, id uuid.UUID, password string) (User, error)
	VerifyCredentials(ctx context.Context, email, password string) (User, error)
}

// User represents a stored account.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Verified     bool
	Admin        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// Public returns the view of the user that is safe to return to clients.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}

// PublicUser is the client facing view of a user.
type PublicUser struct {
	ID        uuid.UUID
	Email     string
	Verified  bool
	CreatedAt time.Time
}

// CreateUserParams contains parameters to create a user.
type CreateUserParams struct {
	Email    string
	Password string
}
