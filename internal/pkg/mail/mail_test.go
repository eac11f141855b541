package mail

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_Recipients(t *testing.T) {
	msg := Message{
		To:  []string{" a@example.com ", "b@example.com"},
		Cc:  []string{"", "a@example.com"},
		Bcc: []string{"c@example.com"},
	}
	assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com"}, msg.Recipients())
	assert.Empty(t, Message{To: []string{" "}}.Recipients())
}

func TestMessage_Clone(t *testing.T) {
	msg := Message{To: []string{"a@example.com"}, Headers: map[string]string{"X-A": "1"}}
	cp := msg.Clone()
	cp.To[0] = "changed@example.com"
	cp.Headers["X-A"] = "2"

	assert.Equal(t, "a@example.com", msg.To[0])
	assert.Equal(t, "1", msg.Headers["X-A"])
}

func TestPrepare(t *testing.T) {
	_, err := prepare(Message{}, "from@example.com")
	assert.ErrorIs(t, err, ErrNoRecipients)

	_, err = prepare(Message{To: []string{"a@example.com"}}, "")
	assert.ErrorIs(t, err, ErrNoSender)

	got, err := prepare(Message{To: []string{"a@example.com"}}, "from@example.com")
	require.NoError(t, err)
	assert.Equal(t, "from@example.com", got.From)

	got, err = prepare(Message{From: "own@example.com", To: []string{"a@example.com"}}, "from@example.com")
	require.NoError(t, err)
	assert.Equal(t, "own@example.com", got.From)
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("no-reply@example.com")

	_, ok := m.Last()
	assert.False(t, ok)

	require.NoError(t, m.Send(ctx, Message{To: []string{"first@example.com"}, Subject: "1"}))
	require.NoError(t, m.Send(ctx, Message{To: []string{"second@example.com"}, Subject: "2"}))
	assert.ErrorIs(t, m.Send(ctx, Message{Subject: "nobody"}), ErrNoRecipients)

	assert.Equal(t, 2, m.Count())
	last, ok := m.Last()
	require.True(t, ok)
	assert.Equal(t, "2", last.Subject)
	assert.Equal(t, "no-reply@example.com", last.From)

	msgs := m.Messages()
	msgs[0].Subject = "mutated"
	assert.Equal(t, "1", m.Messages()[0].Subject)

	m.Reset()
	assert.Equal(t, 0, m.Count())
	assert.NoError(t, m.Close())
}

func TestMemory_Concurrent(t *testing.T) {
	m := NewMemory("no-reply@example.com")

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Send(context.Background(), Message{To: []string{"a@example.com"}})
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, m.Count())
}

func TestMemory_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMemory("no-reply@example.com")
	assert.ErrorIs(t, m.Send(ctx, Message{To: []string{"a@example.com"}}), context.Canceled)
	assert.Equal(t, 0, m.Count())
}

func TestNull(t *testing.T) {
	n := NewNull("no-reply@example.com")
	assert.NoError(t, n.Send(context.Background(), Message{To: []string{"a@example.com"}}))
	assert.ErrorIs(t, n.Send(context.Background(), Message{}), ErrNoRecipients)
	assert.NoError(t, n.Close())
}

func TestNewSMTP(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SMTPConfig
		wantErr error
		ssl     bool
	}{
		{name: "missing host", cfg: SMTPConfig{Port: 25}, wantErr: ErrSMTPHostPortRequired},
		{name: "missing port", cfg: SMTPConfig{Host: "localhost"}, wantErr: ErrSMTPHostPortRequired},
		{name: "unknown tls", cfg: SMTPConfig{Host: "localhost", Port: 25, TLSMode: "tls13"}, wantErr: ErrSMTPUnknownTLSMode},
		{name: "auto", cfg: SMTPConfig{Host: "localhost", Port: 587}},
		{name: "ssl", cfg: SMTPConfig{Host: "localhost", Port: 465, TLSMode: "SSL"}, ssl: true},
		{name: "none", cfg: SMTPConfig{Host: "localhost", Port: 1025, TLSMode: "none", Timeout: time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewSMTP(tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ssl, got.dialer.SSL)
			assert.NoError(t, got.Close())
		})
	}
}

func TestSMTP_Build(t *testing.T) {
	s, err := NewSMTP(SMTPConfig{Host: "localhost", Port: 1025, From: "no-reply@example.com", FromName: "Administration"})
	require.NoError(t, err)

	msg, err := prepare(Message{
		To:       []string{"sylius@example.com"},
		Cc:       []string{"copy@example.com"},
		ReplyTo:  "support@example.com",
		Subject:  "Password reset",
		TextBody: "plain body",
		HTMLBody: "<p>html body</p>",
		Headers:  map[string]string{"X-Email-Code": "admin_password_reset"},
	}, s.from)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = s.build(msg).WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "Administration")
	assert.Contains(t, raw, "no-reply@example.com")
	assert.Contains(t, raw, "To: sylius@example.com")
	assert.Contains(t, raw, "Cc: copy@example.com")
	assert.Contains(t, raw, "Reply-To: support@example.com")
	assert.Contains(t, raw, "Subject: Password reset")
	assert.Contains(t, raw, "X-Email-Code: admin_password_reset")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "plain body")
	assert.Contains(t, raw, "html body")
}

func TestSMTP_SendValidatesFirst(t *testing.T) {
	s, err := NewSMTP(SMTPConfig{Host: "localhost", Port: 1025})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Send(context.Background(), Message{To: []string{"a@example.com"}}), ErrNoSender)
}

func TestNewFromDriver(t *testing.T) {
	store := NewFileStore(t.TempDir())

	tests := []struct {
		driver  string
		opts    FactoryOptions
		want    any
		wantErr error
	}{
		{driver: "memory", want: &Memory{}},
		{driver: " NULL ", want: &Null{}},
		{driver: "spool", opts: FactoryOptions{SpoolStore: store}, want: &Spool{}},
		{driver: "spool", wantErr: ErrSpoolStoreRequired},
		{driver: "smtp", opts: FactoryOptions{SMTP: SMTPConfig{Host: "localhost", Port: 25}}, want: &SMTP{}},
		{driver: "smtp", wantErr: ErrSMTPHostPortRequired},
		{driver: "sendmail", wantErr: ErrUnknownDriver},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			got, err := NewFromDriver(tt.driver, tt.opts)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}
}
