package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/shandysiswandi/resetmail/internal/notification/entity"
	"github.com/shandysiswandi/resetmail/internal/pkg/clock"
	"github.com/shandysiswandi/resetmail/internal/pkg/config"
	"github.com/shandysiswandi/resetmail/internal/pkg/i18n"
	"github.com/shandysiswandi/resetmail/internal/pkg/instrument"
	"github.com/shandysiswandi/resetmail/internal/pkg/mail"
	"github.com/shandysiswandi/resetmail/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrInvalidRecipient is returned when the user email is empty or malformed.
	ErrInvalidRecipient = errors.New("notification: invalid recipient")
	// ErrTranslationMissing is returned when a catalog entry cannot be resolved for the locale.
	ErrTranslationMissing = errors.New("notification: translation missing")
	// ErrTransportFailure is returned when the mail transport rejects the message.
	ErrTransportFailure = errors.New("notification: transport failure")
)

type recipient struct {
	Email string `validate:"required,email"`
}

// ManagerOptions carries the ambient dependencies of ResetPasswordEmailManager.
type ManagerOptions struct {
	Config     config.Config
	Clock      clock.Clocker
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

// ResetPasswordEmailManager composes the admin password reset email and
// hands it to a mail transport. Every call builds and sends one message.
type ResetPasswordEmailManager struct {
	translator translator
	mailer     repoMail
	cfg        config.Config
	clock      clock.Clocker
	validator  validator.Validator
	ins        instrument.Instrumentation

	sent   metric.Int64Counter
	failed metric.Int64Counter
}

func NewResetPasswordEmailManager(t translator, mailer repoMail, opts ManagerOptions) (*ResetPasswordEmailManager, error) {
	meter := opts.Instrument.Meter("notification.usecase")

	sent, err := meter.Int64Counter("notification.email.sent", metric.WithDescription("Emails handed to the transport."))
	if err != nil {
		return nil, err
	}
	failed, err := meter.Int64Counter("notification.email.failed", metric.WithDescription("Emails that could not be composed or sent."))
	if err != nil {
		return nil, err
	}

	return &ResetPasswordEmailManager{
		translator: t,
		mailer:     mailer,
		cfg:        opts.Config,
		clock:      opts.Clock,
		validator:  opts.Validator,
		ins:        opts.Instrument,
		sent:       sent,
		failed:     failed,
	}, nil
}

type resetPasswordView struct {
	Lang    string
	Subject string
	Hello   string
	Prompt  string
	Button  string
	Ignore  string
	URL     string
}

// SendAdminResetPasswordEmail sends the reset link to user. localeCode wins
// over the user's own locale, which wins over the configured default.
func (m *ResetPasswordEmailManager) SendAdminResetPasswordEmail(ctx context.Context, user entity.AdminUser, localeCode string) (err error) {
	ctx, span := m.ins.Tracer("notification.usecase").Start(ctx, "SendAdminResetPasswordEmail")
	defer span.End()

	code := attribute.String("email_code", entity.EmailCodeAdminPasswordReset.String())
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			m.failed.Add(ctx, 1, metric.WithAttributes(code))
			return
		}
		m.sent.Add(ctx, 1, metric.WithAttributes(code))
	}()

	email := strings.TrimSpace(user.Email)
	if verr := m.validator.Validate(recipient{Email: email}); verr != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidRecipient, email, verr)
	}

	locale := m.resolveLocale(user, localeCode)
	span.SetAttributes(attribute.String("locale", locale))

	view, err := m.translateView(user, locale)
	if err != nil {
		return err
	}
	view.URL = m.resetURL(user.PasswordResetToken)

	msg, err := m.compose(email, locale, view)
	if err != nil {
		return err
	}

	if err := m.mailer.Send(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to send admin password reset email", "user_id", user.ID, "locale", locale, "error", err)
		return fmt.Errorf("%w: %w", ErrTransportFailure, err)
	}

	slog.InfoContext(ctx, "admin password reset email sent", "user_id", user.ID, "locale", locale)
	return nil
}

func (m *ResetPasswordEmailManager) resolveLocale(user entity.AdminUser, localeCode string) string {
	for _, candidate := range []string{localeCode, user.LocaleCode} {
		if c := strings.TrimSpace(candidate); c != "" {
			return i18n.Normalize(c)
		}
	}
	return i18n.Normalize(m.cfg.GetString("modules.notification.default_locale"))
}

func (m *ResetPasswordEmailManager) translateView(user entity.AdminUser, locale string) (resetPasswordView, error) {
	view := resetPasswordView{Lang: strings.SplitN(locale, "_", 2)[0]}

	for _, entry := range []struct {
		key    string
		dst    *string
		params []string
	}{
		{key: entity.KeyAdminPasswordResetSubject, dst: &view.Subject},
		{key: entity.KeyAdminPasswordResetHello, dst: &view.Hello, params: []string{user.DisplayName()}},
		{key: entity.KeyAdminPasswordResetPrompt, dst: &view.Prompt},
		{key: entity.KeyAdminPasswordResetButton, dst: &view.Button},
		{key: entity.KeyAdminPasswordResetIgnoreNotice, dst: &view.Ignore},
	} {
		text, err := m.translator.TranslateParams(entry.key, locale, entry.params...)
		if err != nil {
			return resetPasswordView{}, fmt.Errorf("%w: %w", ErrTranslationMissing, err)
		}
		if strings.TrimSpace(text) == "" {
			return resetPasswordView{}, fmt.Errorf("%w: %s (%s) is empty", ErrTranslationMissing, entry.key, locale)
		}
		*entry.dst = text
	}

	return view, nil
}

func (m *ResetPasswordEmailManager) resetURL(token string) string {
	base := strings.TrimRight(m.cfg.GetString("app.admin_url"), "/")
	path := m.cfg.GetString("modules.notification.reset_path")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path + url.PathEscape(token)
}

func (m *ResetPasswordEmailManager) compose(email, locale string, view resetPasswordView) (mail.Message, error) {
	var html, text bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, "admin_password_reset.html.tmpl", view); err != nil {
		return mail.Message{}, fmt.Errorf("render html body: %w", err)
	}
	if err := textTemplates.ExecuteTemplate(&text, "admin_password_reset.txt.tmpl", view); err != nil {
		return mail.Message{}, fmt.Errorf("render text body: %w", err)
	}

	return mail.Message{
		To:       []string{email},
		Subject:  view.Subject,
		HTMLBody: html.String(),
		TextBody: text.String(),
		Locale:   locale,
		Headers: map[string]string{
			entity.HeaderEmailCode: entity.EmailCodeAdminPasswordReset.String(),
			"Date":                 m.clock.Now().UTC().Format(time.RFC1123Z),
		},
	}, nil
}
