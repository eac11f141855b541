package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shandysiswandi/resetmail/internal/pkg/goerror"
	"github.com/shandysiswandi/resetmail/internal/pkg/mail"
	"github.com/shandysiswandi/resetmail/internal/pkg/mail/mailtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpool_Disabled(t *testing.T) {
	uc := newTestUsecase(t, Dependency{RepoMail: mail.NewMemory("no-reply@example.com")})

	_, err := uc.CountSpool(context.Background())
	gerr, ok := goerror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, gerr.StatusCode())

	_, err = uc.FlushSpool(context.Background(), FlushSpoolInput{})
	gerr, ok = goerror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, gerr.StatusCode())
}

func TestSpool_SendCountFlush(t *testing.T) {
	ctx := context.Background()
	spool, _ := mailtest.NewFileSpool(t, "no-reply@example.com")
	smtp := mail.NewMemory("no-reply@example.com")

	uc := newTestUsecase(t, Dependency{RepoMail: spool, Spool: spool, FlushTransport: smtp})

	require.NoError(t, uc.SendAdminResetPasswordEmail(ctx, testUser(), "en_US"))
	require.NoError(t, uc.SendAdminResetPasswordEmail(ctx, testUser(), "de_DE"))

	n, err := uc.CountSpool(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	out, err := uc.FlushSpool(ctx, FlushSpoolInput{MessageLimit: 1})
	require.NoError(t, err)
	assert.Equal(t, &FlushSpoolOutput{Sent: 1}, out)
	mailtest.AssertEmailCount(t, smtp, 1)

	out, err = uc.FlushSpool(ctx, FlushSpoolInput{})
	require.NoError(t, err)
	assert.Equal(t, &FlushSpoolOutput{Sent: 1}, out)
	mailtest.AssertEmailCount(t, smtp, 2)

	n, err = uc.CountSpool(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSpool_FlushKeepsFailures(t *testing.T) {
	ctx := context.Background()
	spool, _ := mailtest.NewFileSpool(t, "no-reply@example.com")
	down := &failingMail{err: errors.New("421 try again later")}

	uc := newTestUsecase(t, Dependency{RepoMail: spool, Spool: spool, FlushTransport: down})
	require.NoError(t, uc.SendAdminResetPasswordEmail(ctx, testUser(), "en_US"))

	out, err := uc.FlushSpool(ctx, FlushSpoolInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Failed)

	mailtest.AssertSpooledCountWithRecipient(t, spool, 1, testEmail)
}

func TestSpool_FlushValidation(t *testing.T) {
	spool, _ := mailtest.NewFileSpool(t, "no-reply@example.com")
	uc := newTestUsecase(t, Dependency{RepoMail: spool, Spool: spool, FlushTransport: mail.NewNull("")})

	_, err := uc.FlushSpool(context.Background(), FlushSpoolInput{MessageLimit: -1})
	gerr, ok := goerror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, gerr.StatusCode())
}

func TestSpool_Clear(t *testing.T) {
	ctx := context.Background()
	spool, _ := mailtest.NewFileSpool(t, "no-reply@example.com")
	uc := newTestUsecase(t, Dependency{RepoMail: spool, Spool: spool, FlushTransport: mail.NewNull("")})

	require.NoError(t, uc.SendAdminResetPasswordEmail(ctx, testUser(), "en_US"))
	require.NoError(t, uc.ClearSpool(ctx))

	n, err := uc.CountSpool(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	disabled := newTestUsecase(t, Dependency{RepoMail: mail.NewMemory("no-reply@example.com")})
	gerr, ok := goerror.As(disabled.ClearSpool(ctx))
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, gerr.StatusCode())
}
