// Package mailtest provides assertions over captured and spooled messages.
package mailtest

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/shandysiswandi/resetmail/internal/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SpoolReader is the read side of a spool.
type SpoolReader interface {
	Messages(ctx context.Context) ([]mail.SpooledMessage, error)
}

// NewFileSpool returns a spool backed by a fresh temporary directory.
func NewFileSpool(t testing.TB, from string, opts ...mail.SpoolOption) (*mail.Spool, *mail.FileStore) {
	t.Helper()

	store := mail.NewFileStore(t.TempDir())
	return mail.NewSpool(store, from, opts...), store
}

// AssertEmailCount checks how many messages the memory transport captured.
func AssertEmailCount(t testing.TB, m *mail.Memory, want int) bool {
	t.Helper()
	return assert.Equal(t, want, m.Count(), "captured email count")
}

// AssertEmailAddressContains checks that one of the addresses in header
// (To, Cc, Bcc, From or Reply-To) contains address.
func AssertEmailAddressContains(t testing.TB, msg mail.Message, header, address string) bool {
	t.Helper()

	var addrs []string
	switch strings.ToLower(header) {
	case "to":
		addrs = msg.To
	case "cc":
		addrs = msg.Cc
	case "bcc":
		addrs = msg.Bcc
	case "from":
		addrs = []string{msg.From}
	case "reply-to":
		addrs = []string{msg.ReplyTo}
	}

	found := slices.ContainsFunc(addrs, func(a string) bool { return strings.Contains(a, address) })
	return assert.Truef(t, found, "header %s %v does not contain %q", header, addrs, address)
}

// AssertEmailHTMLBodyContains checks the HTML body of msg.
func AssertEmailHTMLBodyContains(t testing.TB, msg mail.Message, text string) bool {
	t.Helper()
	return assert.Contains(t, msg.HTMLBody, text)
}

// AssertEmailTextBodyContains checks the plain-text body of msg.
func AssertEmailTextBodyContains(t testing.TB, msg mail.Message, text string) bool {
	t.Helper()
	return assert.Contains(t, msg.TextBody, text)
}

// AssertSpooledCountWithRecipient checks how many spooled messages are addressed to recipient.
func AssertSpooledCountWithRecipient(t testing.TB, spool SpoolReader, want int, recipient string) bool {
	t.Helper()

	got := len(filterSpooled(t, spool, func(msg mail.Message) bool {
		return slices.Contains(msg.Recipients(), recipient)
	}))
	return assert.Equalf(t, want, got, "spooled messages for %s", recipient)
}

// AssertSpooledWithContentHasRecipient checks that a spooled message whose
// body contains content is addressed to recipient.
func AssertSpooledWithContentHasRecipient(t testing.TB, spool SpoolReader, content, recipient string) bool {
	t.Helper()

	matches := filterSpooled(t, spool, func(msg mail.Message) bool {
		return (strings.Contains(msg.HTMLBody, content) || strings.Contains(msg.TextBody, content)) &&
			slices.Contains(msg.Recipients(), recipient)
	})
	return assert.NotEmptyf(t, matches, "no spooled message for %s containing %q", recipient, content)
}

func filterSpooled(t testing.TB, spool SpoolReader, keep func(mail.Message) bool) []mail.Message {
	t.Helper()

	spooled, err := spool.Messages(context.Background())
	require.NoError(t, err)

	var out []mail.Message
	for _, sm := range spooled {
		if keep(sm.Message) {
			out = append(out, sm.Message)
		}
	}
	return out
}
