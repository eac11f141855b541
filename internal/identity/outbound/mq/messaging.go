package mq

import (
	"context"

	"github.com/shandysiswandi/resetmail/internal/identity/usecase"
	"github.com/shandysiswandi/resetmail/internal/pkg/instrument"
	"github.com/shandysiswandi/resetmail/internal/pkg/messaging"
	"github.com/shandysiswandi/resetmail/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

// Messaging hands reset requests to the notification consumers via the broker.
type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) NotifyAdminPasswordResetRequested(ctx context.Context, ev usecase.AdminPasswordResetRequestedEvent) error {
	ctx, span := m.ins.Tracer("identity.outbound.mq").Start(ctx, "NotifyAdminPasswordResetRequested")
	defer span.End()

	headers := map[string]string{}
	if cID := instrument.GetCorrelationID(ctx); cID != "" {
		headers[event.HeaderCorrelationID] = cID
	}

	if _, err := messaging.PublishJSON(ctx, m.client, event.AdminPasswordResetRequestedDestination, event.AdminPasswordResetRequestedMessage{
		EventID:    ev.EventID,
		UserID:     ev.UserID,
		Email:      ev.Email,
		Username:   ev.Username,
		FirstName:  ev.FirstName,
		LastName:   ev.LastName,
		LocaleCode: ev.LocaleCode,
		Token:      ev.Token,
	}, headers); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
