package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/resetmail/internal/identity"
	"github.com/shandysiswandi/resetmail/internal/notification"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.notification.enabled") || a.opts.Command {
		dep := notification.Dependency{
			Config:         a.config,
			Instrument:     a.ins,
			UUID:           a.uuid,
			Clock:          a.clock,
			Goroutine:      a.goroutine,
			Validator:      a.validator,
			Translator:     a.translator,
			Mail:           a.mail,
			MailDriver:     a.mailDriver,
			Spool:          a.spool,
			FlushTransport: a.flushTransport,
			Idempotency:    a.idemp,
		}
		if !a.opts.Command {
			dep.Ctx = a.ctx
			dep.Router = a.router
			dep.Messaging = a.messaging
		}

		uc, err := notification.New(dep)
		if err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
		a.notification = uc
	}

	if a.config.GetBool("modules.identity.enabled") && !a.opts.Command {
		if a.dbConn == nil {
			slog.Error("failed to init module identity, database.url is required")
			os.Exit(1)
		}

		dep := identity.Dependency{
			DBConn:     a.dbConn,
			Router:     a.router,
			Config:     a.config,
			Instrument: a.ins,
			UUID:       a.uuid,
			Token:      a.token,
			HMAC:       a.hmac,
			Bcrypt:     a.bcrypt,
			Clock:      a.clock,
			Validator:  a.validator,
		}
		if a.messaging != nil {
			dep.Publisher = a.messaging
		}
		if a.notification != nil {
			dep.Mailer = a.notification
		}

		if err := identity.New(a.ctx, dep); err != nil {
			slog.Error("failed to init module identity", "error", err)
			os.Exit(1)
		}
	}
}
