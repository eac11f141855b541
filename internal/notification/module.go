package notification

import (
	"context"

	"github.com/shandysiswandi/resetmail/internal/notification/inbound"
	"github.com/shandysiswandi/resetmail/internal/notification/outbound/email"
	"github.com/shandysiswandi/resetmail/internal/notification/usecase"
	"github.com/shandysiswandi/resetmail/internal/pkg/clock"
	"github.com/shandysiswandi/resetmail/internal/pkg/config"
	"github.com/shandysiswandi/resetmail/internal/pkg/goroutine"
	"github.com/shandysiswandi/resetmail/internal/pkg/i18n"
	"github.com/shandysiswandi/resetmail/internal/pkg/idempotency"
	"github.com/shandysiswandi/resetmail/internal/pkg/instrument"
	"github.com/shandysiswandi/resetmail/internal/pkg/mail"
	"github.com/shandysiswandi/resetmail/internal/pkg/messaging"
	"github.com/shandysiswandi/resetmail/internal/pkg/router"
	"github.com/shandysiswandi/resetmail/internal/pkg/uid"
	"github.com/shandysiswandi/resetmail/internal/pkg/validator"
)

type Dependency struct {
	// Ctx scopes the background consumers and the spool flusher. Nil skips them.
	Ctx        context.Context
	Messaging  messaging.Consumer
	Config     config.Config
	Instrument instrument.Instrumentation
	UUID       uid.StringID
	Clock      clock.Clocker
	Goroutine  *goroutine.Manager
	Validator  validator.Validator
	Translator i18n.Translator
	// Router is nil for CLI commands.
	Router *router.Router

	Mail       mail.Mail
	MailDriver string
	// Spool and FlushTransport are set when MailDriver is spool.
	Spool          *mail.Spool
	FlushTransport mail.Mail
	// Idempotency is nil when redis is not configured.
	Idempotency idempotency.Idempotency
}

func New(dep Dependency) (*usecase.Usecase, error) {
	repoMail := email.New(dep.Mail, dep.MailDriver, dep.Instrument)

	ucDep := usecase.Dependency{
		Config:      dep.Config,
		Clock:       dep.Clock,
		Validator:   dep.Validator,
		Translator:  dep.Translator,
		RepoMail:    repoMail,
		Instrument:  dep.Instrument,
		Idempotency: dep.Idempotency,
	}
	if dep.Spool != nil && dep.FlushTransport != nil {
		ucDep.Spool = dep.Spool
		ucDep.FlushTransport = email.New(dep.FlushTransport, dep.Config.GetString("mail.spool.transport"), dep.Instrument)
	}

	uc, err := usecase.NewNotification(ucDep)
	if err != nil {
		return nil, err
	}

	if dep.Router != nil {
		inbound.RegisterHTTPEndpoint(dep.Router, uc)
	}
	if dep.Ctx != nil {
		if dep.Messaging != nil {
			inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
		}
		if ucDep.Spool != nil {
			inbound.RegisterSpoolFlusher(dep.Ctx, dep.Goroutine, dep.Config.GetSecond("mail.spool.flush_interval_seconds"), uc)
		}
	}

	return uc, nil
}
