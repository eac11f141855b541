package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/shandysiswandi/resetmail/internal/pkg/stacktrace"
)

// delivery adapts a broker message to Message. ack and nack run at most once
// between them.
type delivery struct {
	id      string
	topic   string
	body    []byte
	headers map[string]string
	attempt int

	ack  func() error
	nack func() error

	responded atomic.Bool
}

func (d *delivery) ID() string    { return d.id }
func (d *delivery) Topic() string { return d.topic }
func (d *delivery) Body() []byte  { return d.body }

func (d *delivery) Header(key string) string { return d.headers[key] }

func (d *delivery) Attempt() int {
	if d.attempt <= 0 {
		return 1
	}
	return d.attempt
}

func (d *delivery) Ack(ctx context.Context) error {
	return d.respond(ctx, d.ack)
}

func (d *delivery) Nack(ctx context.Context) error {
	return d.respond(ctx, d.nack)
}

func (d *delivery) respond(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.responded.Swap(true) || fn == nil {
		return nil
	}
	return fn()
}

// dispatch runs handler with panic recovery and applies auto-ack.
func dispatch(ctx context.Context, driver string, handler Handler, d *delivery, autoAck bool) error {
	herr := callHandler(ctx, driver, d, handler)
	if !autoAck || d.responded.Load() {
		return herr
	}
	if herr == nil {
		return d.Ack(ctx)
	}
	if err := d.Nack(ctx); err != nil {
		return err
	}
	return herr
}

func callHandler(ctx context.Context, driver string, d *delivery, handler Handler) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			slog.ErrorContext(ctx, "panic in messaging handler",
				"driver", driver,
				"topic", d.topic,
				"panic", rvr,
				"stack", stacktrace.InternalFrames(1),
			)
			err = fmt.Errorf("messaging: panic in %s handler: %v", driver, rvr)
		}
	}()

	return handler(ctx, d)
}

func validateConsume(ctx context.Context, topic string, handler Handler) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}
	return nil
}
