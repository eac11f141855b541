package inbound

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/resetmail/internal/notification/usecase"
	"github.com/shandysiswandi/resetmail/internal/pkg/instrument"
	"github.com/shandysiswandi/resetmail/internal/pkg/messaging"
	"github.com/shandysiswandi/resetmail/internal/pkg/uid"
	"github.com/shandysiswandi/resetmail/internal/shared/event"
)

type MQHandler struct {
	uc   ucConsumer
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cID := msg.Header(event.HeaderCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) AdminPasswordResetRequested(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "AdminPasswordResetRequested")
	defer span.End()

	slog.InfoContext(ctx, "consume: admin password reset requested", "msg_id", msg.ID(), "attempt", msg.Attempt())

	var payload event.AdminPasswordResetRequestedMessage
	if err := messaging.DecodeJSON(msg, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of admin password reset requested", "msg_body", string(msg.Body()), "error", err)
		return nil
	}

	if err := h.uc.ConsumeAdminPasswordResetRequested(ctx, usecase.ConsumeAdminPasswordResetInput{
		EventID:    payload.EventID,
		UserID:     payload.UserID,
		Email:      payload.Email,
		Username:   payload.Username,
		FirstName:  payload.FirstName,
		LastName:   payload.LastName,
		LocaleCode: payload.LocaleCode,
		Token:      payload.Token,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume admin password reset requested", "event_id", payload.EventID, "error", err)
		return err
	}

	return nil
}
