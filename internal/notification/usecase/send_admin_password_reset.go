package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/resetmail/internal/notification/entity"
	"github.com/shandysiswandi/resetmail/internal/pkg/goerror"
)

type SendAdminPasswordResetInput struct {
	Email     string `validate:"required,email"`
	Username  string `validate:"omitempty,max=255"`
	FirstName string `validate:"omitempty,max=255"`
	LastName  string `validate:"omitempty,max=255"`
	Locale    string `validate:"omitempty,locale"`
	Token     string `validate:"required,min=8,max=255"`
}

// SendAdminPasswordReset is the operator entrypoint for sending the reset email directly.
func (s *Usecase) SendAdminPasswordReset(ctx context.Context, in SendAdminPasswordResetInput) error {
	ctx, span := s.startSpan(ctx, "SendAdminPasswordReset")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	err := s.SendAdminResetPasswordEmail(ctx, entity.AdminUser{
		Email:              in.Email,
		Username:           in.Username,
		FirstName:          in.FirstName,
		LastName:           in.LastName,
		PasswordResetToken: in.Token,
	}, in.Locale)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidRecipient):
		return goerror.NewInvalidInput(nil, "email", "must be a valid email address")
	case errors.Is(err, ErrTranslationMissing):
		return goerror.NewBusinessWrap(err, "No translation available for the requested locale", goerror.CodeInvalidInput)
	case errors.Is(err, ErrTransportFailure):
		return goerror.NewBusinessWrap(err, "Mail transport is unavailable", goerror.CodeUnavailable)
	default:
		slog.ErrorContext(ctx, "failed to send admin password reset email", "error", err)
		return goerror.NewServer(err)
	}
}
