package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/account-server/internal/repository/postgres/migrations"
)

func TestConnection_Migrate(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	t.Run("success", func(t *testing.T) {
		var gotDir string
		gooseUpContext = func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
			gotDir = dir
			return nil
		}

		conn := &Connection{DB: db}
		require.NoError(t, conn.Migrate(context.Background()))
		assert.Equal(t, ".", gotDir)
	})

	t.Run("error", func(t *testing.T) {
		gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
			return errors.New("boom")
		}

		conn := &Connection{DB: db}
		err := conn.Migrate(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})
}

func TestMigrations_Embedded(t *testing.T) {
	entries, err := migrations.Migrations.ReadDir(".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "00001_create_users.sql", entries[0].Name())
}

func TestConnection_NilHandle(t *testing.T) {
	conn := &Connection{}
	assert.NoError(t, conn.Close())
	assert.Error(t, conn.Ping(context.Background()))
}
