package usecase

import (
	"context"

	"github.com/shandysiswandi/resetmail/internal/identity/entity"
	"github.com/shandysiswandi/resetmail/internal/pkg/clock"
	"github.com/shandysiswandi/resetmail/internal/pkg/config"
	"github.com/shandysiswandi/resetmail/internal/pkg/hash"
	"github.com/shandysiswandi/resetmail/internal/pkg/instrument"
	"github.com/shandysiswandi/resetmail/internal/pkg/uid"
	"github.com/shandysiswandi/resetmail/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type AdminPasswordResetRequestedEvent struct {
	EventID    string
	UserID     int64
	Email      string
	Username   string
	FirstName  string
	LastName   string
	LocaleCode string
	Token      string
}

// notifier delivers the reset link, either by publishing an event or by
// calling the notification module directly.
type notifier interface {
	NotifyAdminPasswordResetRequested(ctx context.Context, ev AdminPasswordResetRequestedEvent) error
}

type repoDB interface {
	GetAdminUserByEmail(ctx context.Context, email string) (*entity.AdminUser, error)
	GetAdminUserByResetTokenHash(ctx context.Context, tokenHash string) (*entity.AdminUser, error)
	SavePasswordResetRequest(ctx context.Context, req entity.PasswordResetRequest) error
	ResetAdminPassword(ctx context.Context, in entity.PasswordReset) (bool, error)
}

type Usecase struct {
	repoDB    repoDB
	notifier  notifier
	validator validator.Validator
	cfg       config.Config
	hmac      hash.Hash
	bcrypt    hash.Hash
	token     uid.StringID
	uuid      uid.StringID
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB    repoDB
	Notifier  notifier
	Validator validator.Validator
	Config    config.Config
	HMAC      hash.Hash
	Bcrypt    hash.Hash
	// Token generates the plaintext reset tokens.
	Token      uid.StringID
	UUID       uid.StringID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		notifier:  dep.Notifier,
		validator: dep.Validator,
		cfg:       dep.Config,
		hmac:      dep.HMAC,
		bcrypt:    dep.Bcrypt,
		token:     dep.Token,
		uuid:      dep.UUID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}
