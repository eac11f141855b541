package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/resetmail/internal/identity/entity"
	"github.com/shandysiswandi/resetmail/internal/pkg/goerror"
)

type ResetPasswordInput struct {
	Token       string `validate:"required"`
	NewPassword string `validate:"required,password"`
}

func (s *Usecase) errInvalidToken() error {
	return goerror.NewBusiness("invalid or expired reset token", goerror.CodeUnauthorized)
}

// ResetPassword sets a new password for the owner of a live reset token and
// consumes the token.
func (s *Usecase) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	ctx, span := s.startSpan(ctx, "ResetPassword")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	tokenHash, err := s.hmac.Hash(in.Token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash token", "error", err)
		return goerror.NewServer(err)
	}

	user, err := s.repoDB.GetAdminUserByResetTokenHash(ctx, string(tokenHash))
	if errors.Is(err, goerror.ErrNotFound) {
		return s.errInvalidToken()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get admin user by reset token", "error", err)
		return goerror.NewServer(err)
	}

	now := s.clock.Now()
	if !user.Enabled || user.PasswordResetExpired(now, s.cfg.GetMinute("modules.identity.password_reset_ttl_minutes")) {
		slog.WarnContext(ctx, "rejected stale or disabled password reset", "user_id", user.ID)
		return s.errInvalidToken()
	}

	newHash, err := s.bcrypt.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new password", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	ok, err := s.repoDB.ResetAdminPassword(ctx, entity.PasswordReset{
		UserID:       user.ID,
		TokenHash:    string(tokenHash),
		PasswordHash: string(newHash),
		UpdatedAt:    now,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo reset admin password", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !ok {
		// another request consumed the token first
		return s.errInvalidToken()
	}

	slog.InfoContext(ctx, "admin password reset", "user_id", user.ID)
	return nil
}
