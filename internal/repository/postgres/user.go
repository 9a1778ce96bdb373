package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/account-server/internal/model"
)

// uniqueViolation is the postgres SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

const userColumns = `id, email, password_hash, verified, admin, created_at, updated_at, deleted_at`

var _ model.UserStore = (*UserRepository)(nil)

// PasswordHasher derives and checks stored password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

type UserRepository struct {
	db     DBTX
	hasher PasswordHasher
}

func NewUserRepository(db DBTX, hasher PasswordHasher) *UserRepository {
	return &UserRepository{
		db:     db,
		hasher: hasher,
	}
}

func scanUser(row interface{ Scan(dest ...any) error }) (model.User, error) {
	var user model.User
	var deletedAt sql.NullTime
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Verified, &user.Admin,
		&user.CreatedAt, &user.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return model.User{}, err
	}
	if deletedAt.Valid {
		user.DeletedAt = &deletedAt.Time
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + `
			  FROM users WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + `
			  FROM users WHERE id = $1 AND deleted_at IS NULL`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// Create stores a new unverified, non-admin user. A live account with the
// same email yields ErrConflict.
func (r *UserRepository) Create(ctx context.Context, params model.CreateUserParams) (model.User, error) {
	hash, err := r.hasher.Hash(params.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `INSERT INTO users (id, email, password_hash)
			  VALUES ($1, $2, $3)
			  RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, uuid.New(), params.Email, hash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.User{}, model.ErrConflict
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// SetPasswordAndVerify replaces the password hash and marks the user
// verified in a single statement.
func (r *UserRepository) SetPasswordAndVerify(ctx context.Context, id uuid.UUID, password string) (model.User, error) {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `UPDATE users
			  SET password_hash = $2, verified = TRUE, updated_at = NOW()
			  WHERE id = $1 AND deleted_at IS NULL
			  RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id, hash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to set password: %w", err)
	}

	return user, nil
}

// VerifyCredentials returns the user when password matches the stored hash.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (r *UserRepository) VerifyCredentials(ctx context.Context, email, password string) (model.User, error) {
	user, err := r.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		// Hash anyway so unknown emails take as long as wrong passwords.
		_, _ = r.hasher.Hash(password)
		return model.User{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, err
	}

	ok, err := r.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return model.User{}, model.ErrInvalidCredentials
	}

	return user, nil
}
