package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/resetmail/internal/notification/entity"
	"github.com/shandysiswandi/resetmail/internal/pkg/idempotency"
	"go.opentelemetry.io/otel/codes"
)

type ConsumeAdminPasswordResetInput struct {
	EventID    string `validate:"required"`
	UserID     int64  `validate:"gte=0"`
	Email      string `validate:"required"`
	Username   string
	FirstName  string
	LastName   string
	LocaleCode string `validate:"omitempty,locale"`
	Token      string `validate:"required"`
}

// ConsumeAdminPasswordResetRequested sends the reset email for a published
// request. Invalid payloads are dropped. Events already handled within the
// idempotency window are skipped.
func (s *Usecase) ConsumeAdminPasswordResetRequested(ctx context.Context, in ConsumeAdminPasswordResetInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeAdminPasswordResetRequested")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "event_id", in.EventID, "error", err)
		return nil
	}

	user := entity.AdminUser{
		ID:                 in.UserID,
		Email:              in.Email,
		Username:           in.Username,
		FirstName:          in.FirstName,
		LastName:           in.LastName,
		LocaleCode:         in.LocaleCode,
		PasswordResetToken: in.Token,
	}

	send := func(ctx context.Context) error {
		return s.SendAdminResetPasswordEmail(ctx, user, "")
	}

	var err error
	if s.idem == nil {
		err = send(ctx)
	} else {
		err = s.idem.Exec(ctx, "notification:"+entity.EmailCodeAdminPasswordReset.String()+":"+in.EventID, send,
			idempotency.WithStateTTL(s.idempotencyTTL()),
		)
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, idempotency.ErrAlreadyCompleted), errors.Is(err, idempotency.ErrAlreadyInProgress):
		slog.InfoContext(ctx, "admin password reset event already handled", "event_id", in.EventID, "reason", err)
		return nil
	case errors.Is(err, ErrInvalidRecipient), errors.Is(err, ErrTranslationMissing):
		slog.ErrorContext(ctx, "dropping admin password reset event", "event_id", in.EventID, "error", err)
		return nil
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
}
