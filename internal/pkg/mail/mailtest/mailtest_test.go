package mailtest

import (
	"context"
	"testing"

	"github.com/shandysiswandi/resetmail/internal/pkg/mail"
	"github.com/stretchr/testify/require"
)

func TestAssertions(t *testing.T) {
	ctx := context.Background()
	msg := mail.Message{
		To:       []string{"sylius@example.com"},
		Cc:       []string{"copy@example.com"},
		Subject:  "Password reset",
		TextBody: "plain reset text",
		HTMLBody: "<p>reset link</p>",
	}

	memory := mail.NewMemory("no-reply@example.com")
	require.NoError(t, memory.Send(ctx, msg))

	AssertEmailCount(t, memory, 1)
	last, ok := memory.Last()
	require.True(t, ok)
	AssertEmailAddressContains(t, last, "To", "sylius@example.com")
	AssertEmailAddressContains(t, last, "cc", "copy@")
	AssertEmailAddressContains(t, last, "From", "no-reply")
	AssertEmailHTMLBodyContains(t, last, "reset link")
	AssertEmailTextBodyContains(t, last, "plain reset")

	spool, _ := NewFileSpool(t, "no-reply@example.com")
	require.NoError(t, spool.Send(ctx, msg))
	require.NoError(t, spool.Send(ctx, mail.Message{To: []string{"other@example.com"}, HTMLBody: "other"}))

	AssertSpooledCountWithRecipient(t, spool, 1, "sylius@example.com")
	AssertSpooledCountWithRecipient(t, spool, 1, "copy@example.com")
	AssertSpooledCountWithRecipient(t, spool, 0, "nobody@example.com")
	AssertSpooledWithContentHasRecipient(t, spool, "reset link", "sylius@example.com")
	AssertSpooledWithContentHasRecipient(t, spool, "plain reset", "sylius@example.com")
}
