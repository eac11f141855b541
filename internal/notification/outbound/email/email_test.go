package email

import (
	"context"
	"testing"

	"github.com/shandysiswandi/resetmail/internal/pkg/instrument"
	"github.com/shandysiswandi/resetmail/internal/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMail_Send(t *testing.T) {
	memory := mail.NewMemory("no-reply@example.com")
	m := New(memory, mail.DriverMemory, instrument.NewNoop())

	require.NoError(t, m.Send(context.Background(), mail.Message{To: []string{"sylius@example.com"}, Subject: "s"}))
	assert.Equal(t, 1, memory.Count())

	err := m.Send(context.Background(), mail.Message{Subject: "no recipients"})
	assert.ErrorIs(t, err, mail.ErrNoRecipients)
}
