package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/resetmail/internal/pkg/goerror"
	"github.com/shandysiswandi/resetmail/internal/pkg/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

type FlushSpoolInput struct {
	MessageLimit   int           `validate:"gte=0"`
	TimeLimit      time.Duration `validate:"gte=0"`
	RecoverTimeout time.Duration `validate:"gte=0"`
}

type FlushSpoolOutput struct {
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
	Recovered int `json:"recovered"`
}

func (s *Usecase) errSpoolDisabled() error {
	return goerror.NewBusiness("Mail spool is not enabled", goerror.CodeUnavailable)
}

// CountSpool returns how many messages wait in the spool.
func (s *Usecase) CountSpool(ctx context.Context) (int, error) {
	ctx, span := s.startSpan(ctx, "CountSpool")
	defer span.End()

	if s.spool == nil {
		return 0, s.errSpoolDisabled()
	}

	n, err := s.spool.Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "failed to count spool", "error", err)
		return 0, goerror.NewServer(err)
	}
	return n, nil
}

// FlushSpool delivers queued messages through the flush transport. Zero
// values in the input fall back to mail.spool.* configuration.
func (s *Usecase) FlushSpool(ctx context.Context, in FlushSpoolInput) (*FlushSpoolOutput, error) {
	ctx, span := s.startSpan(ctx, "FlushSpool")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if s.spool == nil || s.flushVia == nil {
		return nil, s.errSpoolDisabled()
	}

	opts := mail.FlushOptions{
		MessageLimit:   in.MessageLimit,
		TimeLimit:      in.TimeLimit,
		RecoverTimeout: in.RecoverTimeout,
	}
	if opts.MessageLimit == 0 {
		opts.MessageLimit = s.cfg.GetInt("mail.spool.message_limit")
	}
	if opts.TimeLimit == 0 {
		opts.TimeLimit = s.cfg.GetSecond("mail.spool.time_limit_seconds")
	}
	if opts.RecoverTimeout == 0 {
		opts.RecoverTimeout = s.cfg.GetSecond("mail.spool.recover_timeout_seconds")
	}

	res, err := s.spool.Flush(ctx, s.flushVia, opts)
	s.flushed.Add(ctx, int64(res.Sent), metric.WithAttributes(attribute.String("outcome", "sent")))
	s.flushed.Add(ctx, int64(res.Failed), metric.WithAttributes(attribute.String("outcome", "failed")))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "failed to flush spool", "sent", res.Sent, "failed", res.Failed, "error", err)
		return nil, goerror.NewServer(err)
	}

	if res.Sent+res.Failed+res.Recovered > 0 {
		slog.InfoContext(ctx, "spool flushed", "sent", res.Sent, "failed", res.Failed, "recovered", res.Recovered)
	}

	return &FlushSpoolOutput{Sent: res.Sent, Failed: res.Failed, Recovered: res.Recovered}, nil
}

// ClearSpool drops every queued message without delivering it.
func (s *Usecase) ClearSpool(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "ClearSpool")
	defer span.End()

	if s.spool == nil {
		return s.errSpoolDisabled()
	}

	if err := s.spool.Clear(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "failed to clear spool", "error", err)
		return goerror.NewServer(err)
	}

	slog.WarnContext(ctx, "spool cleared")
	return nil
}
