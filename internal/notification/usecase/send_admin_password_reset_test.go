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

func TestSendAdminPasswordReset(t *testing.T) {
	tests := []struct {
		name       string
		in         SendAdminPasswordResetInput
		transport  repoMail
		wantStatus int
	}{
		{
			name: "success",
			in:   SendAdminPasswordResetInput{Email: testEmail, Locale: "en_US", Token: "t0k3n-abc"},
		},
		{
			name:       "validation error",
			in:         SendAdminPasswordResetInput{Email: "nope", Token: "short"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "unsupported locale",
			in:         SendAdminPasswordResetInput{Email: testEmail, Locale: "xx_YY", Token: "t0k3n-abc"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "transport down",
			in:         SendAdminPasswordResetInput{Email: testEmail, Token: "t0k3n-abc"},
			transport:  &failingMail{err: errors.New("dial tcp: connection refused")},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memory := mail.NewMemory("no-reply@example.com")
			transport := tt.transport
			if transport == nil {
				transport = memory
			}
			uc := newTestUsecase(t, Dependency{RepoMail: transport})

			err := uc.SendAdminPasswordReset(context.Background(), tt.in)
			if tt.wantStatus == 0 {
				require.NoError(t, err)
				mailtest.AssertEmailCount(t, memory, 1)
				return
			}

			gerr, ok := goerror.As(err)
			require.True(t, ok, "expected *goerror.Error, got %v", err)
			assert.Equal(t, tt.wantStatus, gerr.StatusCode())
			mailtest.AssertEmailCount(t, memory, 0)
		})
	}
}
