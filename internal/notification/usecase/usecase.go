package usecase

import (
	"context"
	"embed"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/shandysiswandi/resetmail/internal/pkg/clock"
	"github.com/shandysiswandi/resetmail/internal/pkg/config"
	"github.com/shandysiswandi/resetmail/internal/pkg/idempotency"
	"github.com/shandysiswandi/resetmail/internal/pkg/instrument"
	"github.com/shandysiswandi/resetmail/internal/pkg/mail"
	"github.com/shandysiswandi/resetmail/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templatesFS, "templates/*.html.tmpl"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templatesFS, "templates/*.txt.tmpl"))
)

type translator interface {
	TranslateParams(key, locale string, params ...string) (string, error)
}

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type spool interface {
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
	Flush(ctx context.Context, transport mail.Mail, opts mail.FlushOptions) (mail.FlushResult, error)
}

// Usecase serves the notification inbound adapters.
type Usecase struct {
	*ResetPasswordEmailManager

	cfg       config.Config
	validator validator.Validator
	idem      idempotency.Idempotency
	spool     spool
	flushVia  mail.Mail
	ins       instrument.Instrumentation

	flushed metric.Int64Counter
}

type Dependency struct {
	Config     config.Config
	Clock      clock.Clocker
	Validator  validator.Validator
	Translator translator
	RepoMail   repoMail
	Instrument instrument.Instrumentation
	// Idempotency is optional. Without it redelivered events are sent again.
	Idempotency idempotency.Idempotency
	// Spool and FlushTransport are set when mail.driver is spool.
	Spool          spool
	FlushTransport mail.Mail
}

func NewNotification(dep Dependency) (*Usecase, error) {
	manager, err := NewResetPasswordEmailManager(dep.Translator, dep.RepoMail, ManagerOptions{
		Config:     dep.Config,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	})
	if err != nil {
		return nil, err
	}

	flushed, err := dep.Instrument.Meter("notification.usecase").Int64Counter(
		"notification.spool.flushed",
		metric.WithDescription("Spooled messages handled by a flush, by outcome."),
	)
	if err != nil {
		return nil, err
	}

	return &Usecase{
		ResetPasswordEmailManager: manager,
		cfg:                       dep.Config,
		validator:                 dep.Validator,
		idem:                      dep.Idempotency,
		spool:                     dep.Spool,
		flushVia:                  dep.FlushTransport,
		ins:                       dep.Instrument,
		flushed:                   flushed,
	}, nil
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

func (s *Usecase) idempotencyTTL() time.Duration {
	return s.cfg.GetMinute("modules.notification.idempotency_ttl_minutes")
}
