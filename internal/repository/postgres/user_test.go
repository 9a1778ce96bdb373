package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/account-server/internal/model"
)

// stubHasher hashes by prefixing, which keeps query arguments predictable.
type stubHasher struct {
	hashed []string
}

func (h *stubHasher) Hash(password string) (string, error) {
	h.hashed = append(h.hashed, password)
	return "hash:" + password, nil
}

func (h *stubHasher) Verify(password, encoded string) (bool, error) {
	return encoded == "hash:"+password, nil
}

var userRowColumns = []string{"id", "email", "password_hash", "verified", "admin", "created_at", "updated_at", "deleted_at"}

func newRepoWithMock(t *testing.T) (*UserRepository, sqlmock.Sqlmock, *stubHasher) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	h := &stubHasher{}
	return NewUserRepository(db, h), mock, h
}

func userRow(id uuid.UUID, email, hash string, verified bool, deletedAt driver.Value) *sqlmock.Rows {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return sqlmock.NewRows(userRowColumns).
		AddRow(id.String(), email, hash, verified, false, now, now, deletedAt)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	q := `(?s)^SELECT\s+id,\s*email,.*FROM\s+users\s+WHERE\s+LOWER\(email\)\s*=\s*LOWER\(\$1\)\s+AND\s+deleted_at\s+IS\s+NULL$`

	t.Run("found", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		id := uuid.New()
		mock.ExpectQuery(q).WithArgs("A@example.com").
			WillReturnRows(userRow(id, "a@example.com", "hash:pw", true, nil))

		got, err := repo.GetByEmail(ctx, "A@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, "a@example.com", got.Email)
		assert.True(t, got.Verified)
		assert.Nil(t, got.DeletedAt)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("x@example.com").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByEmail(ctx, "x@example.com")
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("x@example.com").WillReturnError(assert.AnError)

		_, err := repo.GetByEmail(ctx, "x@example.com")
		require.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, model.ErrNotFound)
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	q := `(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s+AND\s+deleted_at\s+IS\s+NULL$`

	t.Run("found", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		id := uuid.New()
		mock.ExpectQuery(q).WithArgs(id).
			WillReturnRows(userRow(id, "a@example.com", "hash:pw", false, nil))

		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		id := uuid.New()
		mock.ExpectQuery(q).WithArgs(id).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, id)
		require.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	q := `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*email,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,.*deleted_at$`
	params := model.CreateUserParams{Email: "a@example.com", Password: "pw"}

	t.Run("success", func(t *testing.T) {
		repo, mock, hasher := newRepoWithMock(t)
		id := uuid.New()
		mock.ExpectQuery(q).WithArgs(sqlmock.AnyArg(), "a@example.com", "hash:pw").
			WillReturnRows(userRow(id, "a@example.com", "hash:pw", false, nil))

		got, err := repo.Create(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.False(t, got.Verified)
		assert.False(t, got.Admin)
		assert.Equal(t, []string{"pw"}, hasher.hashed)
	})

	t.Run("unique violation", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(sqlmock.AnyArg(), "a@example.com", "hash:pw").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.Create(ctx, params)
		require.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("other error", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(sqlmock.AnyArg(), "a@example.com", "hash:pw").
			WillReturnError(assert.AnError)

		_, err := repo.Create(ctx, params)
		require.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, model.ErrConflict)
	})
}

func TestUserRepository_SetPasswordAndVerify(t *testing.T) {
	ctx := context.Background()
	q := `(?s)^UPDATE\s+users\s+SET\s+password_hash\s*=\s*\$2,\s*verified\s*=\s*TRUE,.*WHERE\s+id\s*=\s*\$1\s+AND\s+deleted_at\s+IS\s+NULL\s+RETURNING\s+id,.*$`

	t.Run("success", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		id := uuid.New()
		mock.ExpectQuery(q).WithArgs(id, "hash:new").
			WillReturnRows(userRow(id, "a@example.com", "hash:new", true, nil))

		got, err := repo.SetPasswordAndVerify(ctx, id, "new")
		require.NoError(t, err)
		assert.True(t, got.Verified)
		assert.Equal(t, "hash:new", got.PasswordHash)
	})

	t.Run("deleted user", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		id := uuid.New()
		mock.ExpectQuery(q).WithArgs(id, "hash:new").WillReturnError(sql.ErrNoRows)

		_, err := repo.SetPasswordAndVerify(ctx, id, "new")
		require.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestUserRepository_VerifyCredentials(t *testing.T) {
	ctx := context.Background()
	q := `(?s)^SELECT\s+id,.*WHERE\s+LOWER\(email\)`

	t.Run("match", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		id := uuid.New()
		mock.ExpectQuery(q).WithArgs("a@example.com").
			WillReturnRows(userRow(id, "a@example.com", "hash:pw", true, nil))

		got, err := repo.VerifyCredentials(ctx, "a@example.com", "pw")
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("a@example.com").
			WillReturnRows(userRow(uuid.New(), "a@example.com", "hash:pw", true, nil))

		_, err := repo.VerifyCredentials(ctx, "a@example.com", "nope")
		require.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("unknown email still hashes", func(t *testing.T) {
		repo, mock, hasher := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("x@example.com").WillReturnError(sql.ErrNoRows)

		_, err := repo.VerifyCredentials(ctx, "x@example.com", "pw")
		require.ErrorIs(t, err, model.ErrInvalidCredentials)
		assert.Equal(t, []string{"pw"}, hasher.hashed)
	})
}

func TestScanUser_DeletedAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	deleted := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT").WillReturnRows(userRow(uuid.New(), "a@example.com", "h", false, deleted))

	user, err := scanUser(db.QueryRow("SELECT 1"))
	require.NoError(t, err)
	require.NotNil(t, user.DeletedAt)
	assert.True(t, deleted.Equal(*user.DeletedAt))
}
