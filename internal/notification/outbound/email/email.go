package email

import (
	"context"

	"github.com/shandysiswandi/resetmail/internal/pkg/instrument"
	"github.com/shandysiswandi/resetmail/internal/pkg/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Mail struct {
	client    mail.Mail
	transport string
	ins       instrument.Instrumentation
}

// New wraps client. transport names the driver in spans.
func New(client mail.Mail, transport string, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, transport: transport, ins: ins}
}

func (m *Mail) Send(ctx context.Context, msg mail.Message) error {
	ctx, span := m.ins.Tracer("notification.outbound.email").Start(ctx, "Send")
	defer span.End()

	span.SetAttributes(
		attribute.String("transport", m.transport),
		attribute.Int("recipients", len(msg.Recipients())),
	)

	if err := m.client.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Mail) Close() error {
	return m.client.Close()
}
