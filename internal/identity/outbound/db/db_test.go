package db

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/resetmail/internal/identity/entity"
	"github.com/shandysiswandi/resetmail/internal/pkg/goerror"
	"github.com/shandysiswandi/resetmail/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:17-alpine",
		postgres.WithDatabase("resetmail"),
		postgres.WithUsername("resetmail"),
		postgres.WithPassword("resetmail"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := NewDB(pool, instrument.NewNoop())
	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx))
	return db
}

func TestDB_AdminPasswordResetLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	id, err := db.CreateAdminUser(ctx, entity.AdminUser{
		Email:        "Admin@Example.com",
		Username:     "admin",
		FirstName:    "Ada",
		LocaleCode:   "en_GB",
		Enabled:      true,
		PasswordHash: "old",
	})
	require.NoError(t, err)

	_, err = db.CreateAdminUser(ctx, entity.AdminUser{Email: "admin@example.com", Username: "dup"})
	assert.ErrorIs(t, err, goerror.ErrConflict)

	u, err := db.GetAdminUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Empty(t, u.PasswordResetTokenHash)
	assert.Nil(t, u.PasswordRequestedAt)

	_, err = db.GetAdminUserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, goerror.ErrNotFound)

	requestedAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, db.SavePasswordResetRequest(ctx, entity.PasswordResetRequest{
		UserID: id, TokenHash: "hash-1", RequestedAt: requestedAt,
	}))
	assert.ErrorIs(t, db.SavePasswordResetRequest(ctx, entity.PasswordResetRequest{UserID: id + 100, TokenHash: "x"}), goerror.ErrNotFound)

	u, err = db.GetAdminUserByResetTokenHash(ctx, "hash-1")
	require.NoError(t, err)
	require.NotNil(t, u.PasswordRequestedAt)
	assert.True(t, requestedAt.Equal(*u.PasswordRequestedAt))

	ok, err := db.ResetAdminPassword(ctx, entity.PasswordReset{
		UserID: id, TokenHash: "hash-1", PasswordHash: "new", UpdatedAt: requestedAt.Add(time.Minute),
	})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = db.ResetAdminPassword(ctx, entity.PasswordReset{UserID: id, TokenHash: "hash-1", PasswordHash: "again"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = db.GetAdminUserByResetTokenHash(ctx, "hash-1")
	assert.ErrorIs(t, err, goerror.ErrNotFound)

	u, err = db.GetAdminUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new", u.PasswordHash)
}
