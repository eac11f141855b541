package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/resetmail/internal/identity/entity"
	"github.com/shandysiswandi/resetmail/internal/pkg/goerror"
	"go.opentelemetry.io/otel/codes"
)

type RequestPasswordResetInput struct {
	Email  string `validate:"required,email"`
	Locale string `validate:"omitempty,locale"`
}

// RequestPasswordReset issues a fresh reset token and sends the link. Unknown
// and disabled accounts get the same silent success.
func (s *Usecase) RequestPasswordReset(ctx context.Context, in RequestPasswordResetInput) error {
	ctx, span := s.startSpan(ctx, "RequestPasswordReset")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetAdminUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "password reset requested for unknown admin", "email", in.Email)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get admin user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	if !user.Enabled {
		slog.WarnContext(ctx, "password reset requested for disabled admin", "user_id", user.ID)
		return nil
	}

	token := s.token.Generate()
	tokenHash, err := s.hmac.Hash(token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash token", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.SavePasswordResetRequest(ctx, entity.PasswordResetRequest{
		UserID:      user.ID,
		TokenHash:   string(tokenHash),
		RequestedAt: s.clock.Now(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo save password reset request", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	locale := in.Locale
	if locale == "" {
		locale = user.LocaleCode
	}

	if err := s.notifier.NotifyAdminPasswordResetRequested(ctx, AdminPasswordResetRequestedEvent{
		EventID:    s.uuid.Generate(),
		UserID:     user.ID,
		Email:      user.Email,
		Username:   user.Username,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		LocaleCode: locale,
		Token:      token,
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "failed to notify admin password reset requested", "user_id", user.ID, "error", err)
	}

	return nil
}
