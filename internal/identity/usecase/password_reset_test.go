package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shandysiswandi/resetmail/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestToken(t *testing.T, env testEnv) {
	t.Helper()
	require.NoError(t, env.uc.RequestPasswordReset(context.Background(), RequestPasswordResetInput{Email: admin.Email}))
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	gerr, ok := goerror.As(err)
	require.Truef(t, ok, "not a goerror: %v", err)
	assert.Equal(t, want, gerr.StatusCode())
}

func TestUsecase_ResetPassword(t *testing.T) {
	t.Run("success consumes token", func(t *testing.T) {
		env := newTestEnv(t, admin)
		requestToken(t, env)
		env.clock.Advance(10 * time.Minute)

		err := env.uc.ResetPassword(context.Background(), ResetPasswordInput{Token: "plain-token", NewPassword: "correct horse"})
		require.NoError(t, err)

		require.Len(t, env.repo.resets, 1)
		reset := env.repo.resets[0]
		assert.Equal(t, testNow.Add(10*time.Minute), reset.UpdatedAt)
		assert.True(t, env.bcrypt.Verify(reset.PasswordHash, "correct horse"))

		err = env.uc.ResetPassword(context.Background(), ResetPasswordInput{Token: "plain-token", NewPassword: "correct horse"})
		assertStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("expired token", func(t *testing.T) {
		env := newTestEnv(t, admin)
		requestToken(t, env)
		env.clock.Advance(time.Hour)

		err := env.uc.ResetPassword(context.Background(), ResetPasswordInput{Token: "plain-token", NewPassword: "correct horse"})
		assertStatus(t, err, http.StatusUnauthorized)
		assert.Empty(t, env.repo.resets)
	})

	t.Run("unknown token", func(t *testing.T) {
		env := newTestEnv(t, admin)

		err := env.uc.ResetPassword(context.Background(), ResetPasswordInput{Token: "nope", NewPassword: "correct horse"})
		assertStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("token consumed concurrently", func(t *testing.T) {
		env := newTestEnv(t, admin)
		requestToken(t, env)
		env.repo.lost = true

		err := env.uc.ResetPassword(context.Background(), ResetPasswordInput{Token: "plain-token", NewPassword: "correct horse"})
		assertStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("short password", func(t *testing.T) {
		env := newTestEnv(t, admin)

		err := env.uc.ResetPassword(context.Background(), ResetPasswordInput{Token: "plain-token", NewPassword: "short"})
		assertStatus(t, err, http.StatusUnprocessableEntity)
	})

	t.Run("repo failure", func(t *testing.T) {
		env := newTestEnv(t, admin)
		requestToken(t, env)
		env.repo.resetErr = errBoom

		err := env.uc.ResetPassword(context.Background(), ResetPasswordInput{Token: "plain-token", NewPassword: "correct horse"})
		assert.ErrorIs(t, err, errBoom)
		assertStatus(t, err, http.StatusInternalServerError)
	})
}
