package inbound

import (
	"context"

	"github.com/shandysiswandi/resetmail/internal/identity/usecase"
)

type uc interface {
	RequestPasswordReset(ctx context.Context, in usecase.RequestPasswordResetInput) error
	ResetPassword(ctx context.Context, in usecase.ResetPasswordInput) error
}
