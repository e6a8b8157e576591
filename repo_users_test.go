package auth_test

import (
	"context"
	"database/sql"
	"testing"

	auth "github.com/brewkit/go-auth"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const sqliteCreateUsers = `CREATE TABLE users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    full_name TEXT NOT NULL DEFAULT '',
    profile_picture TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL UNIQUE,
    disabled BOOLEAN NOT NULL DEFAULT 0,
    is_email_verified BOOLEAN NOT NULL DEFAULT 0,
    is_admin BOOLEAN NOT NULL DEFAULT 0,
    password_hash TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP
);`

func setupUsersRepo(t *testing.T) *auth.UsersRepository {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	_, err = bunDB.Exec(sqliteCreateUsers)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = bunDB.Close()
	})

	return auth.NewUsersRepository(bunDB)
}

func TestUsersRepositoryCreateAndGet(t *testing.T) {
	repo := setupUsersRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &auth.User{
		Username: "johndoe",
		FullName: "John Doe",
		Email:    "johndoe@example.com",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	t.Run("by username", func(t *testing.T) {
		user, err := repo.GetByIdentifier(ctx, "johndoe")
		require.NoError(t, err)
		assert.Equal(t, "johndoe@example.com", user.Email)
	})

	t.Run("by email", func(t *testing.T) {
		user, err := repo.GetByIdentifier(ctx, "johndoe@example.com")
		require.NoError(t, err)
		assert.Equal(t, "johndoe", user.Username)
	})

	t.Run("by id", func(t *testing.T) {
		user, err := repo.GetByIdentifier(ctx, created.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "johndoe", user.Username)
	})

	t.Run("unknown is not found", func(t *testing.T) {
		_, err := repo.GetByIdentifier(ctx, "nobody")
		assert.True(t, goerrors.IsNotFound(err))
	})
}

func TestUsersRepositoryFederatedUsername(t *testing.T) {
	repo := setupUsersRepo(t)
	ctx := context.Background()

	// Federated principals use the email as username; the identifier
	// resolver must still find them when handed that email.
	_, err := repo.Create(ctx, &auth.User{
		Username: "x@y.com",
		Email:    "x@y.com",
	})
	require.NoError(t, err)

	user, err := repo.GetByIdentifier(ctx, "x@y.com")
	require.NoError(t, err)
	assert.Equal(t, "x@y.com", user.Username)
}

func TestUsersRepositoryUniqueConstraints(t *testing.T) {
	repo := setupUsersRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &auth.User{
		Username: "johndoe",
		Email:    "johndoe@example.com",
	})
	require.NoError(t, err)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := repo.Create(ctx, &auth.User{
			Username: "johndoe",
			Email:    "other@example.com",
		})
		assert.True(t, auth.IsAlreadyExists(err))
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := repo.Create(ctx, &auth.User{
			Username: "janedoe",
			Email:    "johndoe@example.com",
		})
		assert.True(t, auth.IsAlreadyExists(err))
	})
}

func TestUsersRepositoryList(t *testing.T) {
	repo := setupUsersRepo(t)
	ctx := context.Background()

	for _, username := range []string{"carol", "alice", "bob"} {
		_, err := repo.Create(ctx, &auth.User{
			Username: username,
			Email:    username + "@example.com",
		})
		require.NoError(t, err)
	}

	users, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)

	users, err = repo.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "carol", users[0].Username)
}
