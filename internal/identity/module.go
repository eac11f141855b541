package identity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/resetmail/internal/identity/inbound"
	"github.com/shandysiswandi/resetmail/internal/identity/outbound/db"
	"github.com/shandysiswandi/resetmail/internal/identity/outbound/mq"
	"github.com/shandysiswandi/resetmail/internal/identity/outbound/notifier"
	"github.com/shandysiswandi/resetmail/internal/identity/usecase"
	notifentity "github.com/shandysiswandi/resetmail/internal/notification/entity"
	"github.com/shandysiswandi/resetmail/internal/pkg/clock"
	"github.com/shandysiswandi/resetmail/internal/pkg/config"
	"github.com/shandysiswandi/resetmail/internal/pkg/hash"
	"github.com/shandysiswandi/resetmail/internal/pkg/instrument"
	"github.com/shandysiswandi/resetmail/internal/pkg/messaging"
	"github.com/shandysiswandi/resetmail/internal/pkg/router"
	"github.com/shandysiswandi/resetmail/internal/pkg/uid"
	"github.com/shandysiswandi/resetmail/internal/pkg/validator"
)

// NotifyMode selects how reset requests reach the notification module.
const (
	NotifyModeSync = "sync"
	NotifyModeMQ   = "mq"
)

type resetMailer interface {
	SendAdminResetPasswordEmail(ctx context.Context, user notifentity.AdminUser, localeCode string) error
}

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Token      uid.StringID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Bcrypt     hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`

	// Publisher is used in mq notify mode, Mailer in sync mode.
	Publisher messaging.Publisher
	Mailer    resetMailer
}

func New(ctx context.Context, dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoDB := db.NewDB(dep.DBConn, dep.Instrument)
	if dep.Config.GetBool("database.auto_migrate") {
		if err := repoDB.Migrate(ctx); err != nil {
			return err
		}
	}

	var notify interface {
		NotifyAdminPasswordResetRequested(ctx context.Context, ev usecase.AdminPasswordResetRequestedEvent) error
	}
	switch mode := dep.Config.GetString("modules.identity.notify_mode"); mode {
	case NotifyModeMQ:
		if dep.Publisher == nil {
			return fmt.Errorf("identity: notify mode %q needs a publisher", mode)
		}
		notify = mq.NewMessaging(dep.Publisher, dep.Instrument)
	case NotifyModeSync, "":
		if dep.Mailer == nil {
			return fmt.Errorf("identity: notify mode %q needs the notification module", NotifyModeSync)
		}
		notify = notifier.NewDirect(dep.Mailer, dep.Instrument)
	default:
		return fmt.Errorf("identity: unknown notify mode %q", mode)
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:     repoDB,
		Notifier:   notify,
		Validator:  dep.Validator,
		Config:     dep.Config,
		HMAC:       dep.HMAC,
		Bcrypt:     dep.Bcrypt,
		Token:      dep.Token,
		UUID:       dep.UUID,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
