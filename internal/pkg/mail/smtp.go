package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	gomail "github.com/go-mail/mail"
)

// TLS modes accepted by SMTPConfig.TLSMode.
const (
	TLSModeAuto     = "auto"
	TLSModeStartTLS = "starttls"
	TLSModeSSL      = "ssl"
	TLSModeNone     = "none"
)

var (
	// ErrSMTPHostPortRequired is returned when Host/Port are missing.
	ErrSMTPHostPortRequired = errors.New("mail: smtp host and port are required")
	// ErrSMTPUnknownTLSMode is returned for a TLS mode outside the supported set.
	ErrSMTPUnknownTLSMode = errors.New("mail: unknown smtp tls mode")
)

// SMTPConfig configures the SMTP transport.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the default sender when Message.From is empty.
	From     string
	FromName string
	// TLSMode is one of auto, starttls, ssl or none. Empty means auto.
	TLSMode            string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// SMTP is a Mail implementation backed by github.com/go-mail/mail.
type SMTP struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

// NewSMTP constructs an SMTP mail sender.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrSMTPHostPortRequired
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	//nolint:gosec // skip verify is opt-in for local relays
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, InsecureSkipVerify: cfg.InsecureSkipVerify}
	if cfg.Timeout > 0 {
		d.Timeout = cfg.Timeout
	}

	switch strings.ToLower(strings.TrimSpace(cfg.TLSMode)) {
	case "", TLSModeAuto:
		d.StartTLSPolicy = gomail.OpportunisticStartTLS
	case TLSModeStartTLS:
		d.StartTLSPolicy = gomail.MandatoryStartTLS
	case TLSModeSSL:
		d.SSL = true
	case TLSModeNone:
		d.StartTLSPolicy = gomail.NoStartTLS
	default:
		return nil, fmt.Errorf("%w: %s", ErrSMTPUnknownTLSMode, cfg.TLSMode)
	}

	return &SMTP{dialer: d, from: cfg.From, fromName: cfg.FromName}, nil
}

// Send delivers a message over SMTP.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := prepare(msg, s.from)
	if err != nil {
		return err
	}

	m := s.build(msg)

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTP) build(msg Message) *gomail.Message {
	m := gomail.NewMessage()

	if msg.From == s.from && s.fromName != "" {
		m.SetAddressHeader("From", msg.From, s.fromName)
	} else {
		m.SetHeader("From", msg.From)
	}
	if len(msg.To) > 0 {
		m.SetHeader("To", msg.To...)
	}
	if len(msg.Cc) > 0 {
		m.SetHeader("Cc", msg.Cc...)
	}
	if len(msg.Bcc) > 0 {
		m.SetHeader("Bcc", msg.Bcc...)
	}
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)

	keys := make([]string, 0, len(msg.Headers))
	for k := range msg.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.SetHeader(k, msg.Headers[k])
	}

	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		m.SetBody("text/plain", msg.TextBody)
		m.AddAlternative("text/html", msg.HTMLBody)
	case msg.HTMLBody != "":
		m.SetBody("text/html", msg.HTMLBody)
	default:
		m.SetBody("text/plain", msg.TextBody)
	}

	return m
}

// Close implements io.Closer; connections are opened per Send.
func (s *SMTP) Close() error {
	return nil
}
