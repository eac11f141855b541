package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/resetmail/internal/pkg/config"
	"github.com/shandysiswandi/resetmail/internal/pkg/goroutine"
	"github.com/shandysiswandi/resetmail/internal/pkg/instrument"
	"github.com/shandysiswandi/resetmail/internal/pkg/messaging"
	"github.com/shandysiswandi/resetmail/internal/pkg/uid"
	"github.com/shandysiswandi/resetmail/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	consumer messaging.Consumer,
	uuid uid.StringID,
	uc ucConsumer,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enabled := cfg.GetArray("modules.notification.consumer_names")

	consumers := []struct {
		name    string
		topic   string
		handler messaging.Handler
	}{
		{
			name:    event.AdminPasswordResetRequestedConsumerNotification,
			topic:   event.AdminPasswordResetRequestedDestination,
			handler: mqHandler.AdminPasswordResetRequested,
		},
	}

	for _, c := range consumers {
		if !slices.Contains(enabled, c.name) {
			continue
		}

		//nolint:errcheck // only fails when the manager is stopped
		_ = routine.Go(ctx, c.name, func(pCtx context.Context) error {
			slog.InfoContext(ctx, "Running job for handling consumer", "consumer", c.name)
			return consumer.Consume(pCtx,
				c.topic,
				c.handler,
				messaging.WithGroup(c.name),
				messaging.WithAutoAck(true),
				messaging.WithConcurrency(cfg.GetInt("messaging.consumer.concurrency")),
				messaging.WithMaxInFlight(cfg.GetInt("messaging.consumer.max_in_flight")),
			)
		})
	}
}
