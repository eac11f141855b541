package mail

import (
	"context"
	"errors"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/samber/lo"
)

var (
	// ErrNoRecipients is returned when To, Cc and Bcc are all empty.
	ErrNoRecipients = errors.New("mail: no recipients provided")
	// ErrNoSender is returned when neither the message nor the transport has a sender.
	ErrNoSender = errors.New("mail: no sender provided")
	// ErrClosed is returned by transports used after Close.
	ErrClosed = errors.New("mail: transport closed")
)

// Message is a provider-agnostic email payload.
type Message struct {
	ID       string            `json:"id,omitempty"`
	From     string            `json:"from,omitempty"`
	To       []string          `json:"to"`
	Cc       []string          `json:"cc,omitempty"`
	Bcc      []string          `json:"bcc,omitempty"`
	ReplyTo  string            `json:"reply_to,omitempty"`
	Subject  string            `json:"subject"`
	TextBody string            `json:"text_body,omitempty"`
	HTMLBody string            `json:"html_body,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`
	// Locale records the locale the content was rendered in.
	Locale string `json:"locale,omitempty"`
}

// Mail abstracts an email transport.
type Mail interface {
	io.Closer
	// Send hands the message to the transport.
	Send(ctx context.Context, msg Message) error
}

// Recipients returns the unique non-empty addresses of To, Cc and Bcc.
func (m Message) Recipients() []string {
	all := slices.Concat(m.To, m.Cc, m.Bcc)
	all = lo.Map(all, func(addr string, _ int) string { return strings.TrimSpace(addr) })
	return lo.Uniq(lo.Compact(all))
}

// Clone returns a deep copy so transports never share slices with callers.
func (m Message) Clone() Message {
	m.To = slices.Clone(m.To)
	m.Cc = slices.Clone(m.Cc)
	m.Bcc = slices.Clone(m.Bcc)
	m.Headers = maps.Clone(m.Headers)
	return m
}

// prepare validates msg and fills the sender from defaultFrom when missing.
func prepare(msg Message, defaultFrom string) (Message, error) {
	if len(msg.Recipients()) == 0 {
		return Message{}, ErrNoRecipients
	}

	msg = msg.Clone()
	if strings.TrimSpace(msg.From) == "" {
		msg.From = defaultFrom
	}
	if strings.TrimSpace(msg.From) == "" {
		return Message{}, ErrNoSender
	}

	return msg, nil
}
