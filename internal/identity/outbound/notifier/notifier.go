package notifier

import (
	"context"

	"github.com/shandysiswandi/resetmail/internal/identity/usecase"
	notifentity "github.com/shandysiswandi/resetmail/internal/notification/entity"
	"github.com/shandysiswandi/resetmail/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
)

type resetMailer interface {
	SendAdminResetPasswordEmail(ctx context.Context, user notifentity.AdminUser, localeCode string) error
}

// Direct sends the reset email in-process, inside the request.
type Direct struct {
	mailer resetMailer
	ins    instrument.Instrumentation
}

func NewDirect(mailer resetMailer, ins instrument.Instrumentation) *Direct {
	return &Direct{mailer: mailer, ins: ins}
}

func (d *Direct) NotifyAdminPasswordResetRequested(ctx context.Context, ev usecase.AdminPasswordResetRequestedEvent) error {
	ctx, span := d.ins.Tracer("identity.outbound.notifier").Start(ctx, "NotifyAdminPasswordResetRequested")
	defer span.End()

	err := d.mailer.SendAdminResetPasswordEmail(ctx, notifentity.AdminUser{
		ID:                 ev.UserID,
		Email:              ev.Email,
		Username:           ev.Username,
		FirstName:          ev.FirstName,
		LastName:           ev.LastName,
		LocaleCode:         ev.LocaleCode,
		PasswordResetToken: ev.Token,
	}, ev.LocaleCode)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
