package mq

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/resetmail/internal/identity/usecase"
	"github.com/shandysiswandi/resetmail/internal/pkg/instrument"
	"github.com/shandysiswandi/resetmail/internal/pkg/messaging"
	"github.com/shandysiswandi/resetmail/internal/shared/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	err    error
	topics []string
	msgs   []messaging.Outgoing
}

func (r *recordingPublisher) Publish(_ context.Context, topic string, msg messaging.Outgoing) (string, error) {
	r.topics = append(r.topics, topic)
	r.msgs = append(r.msgs, msg)
	return "id-1", r.err
}

func TestMessaging_NotifyAdminPasswordResetRequested(t *testing.T) {
	pub := &recordingPublisher{}
	m := NewMessaging(pub, instrument.NewNoop())

	ctx := instrument.SetCorrelationID(context.Background(), "corr-1")
	err := m.NotifyAdminPasswordResetRequested(ctx, usecase.AdminPasswordResetRequestedEvent{
		EventID:    "ev-1",
		UserID:     3,
		Email:      "admin@example.com",
		LocaleCode: "pl_PL",
		Token:      "tok",
	})
	require.NoError(t, err)

	require.Equal(t, []string{event.AdminPasswordResetRequestedDestination}, pub.topics)
	assert.Equal(t, "corr-1", pub.msgs[0].Headers[event.HeaderCorrelationID])
	assert.JSONEq(t, `{
		"event_id": "ev-1",
		"user_id": 3,
		"email": "admin@example.com",
		"username": "",
		"first_name": "",
		"last_name": "",
		"locale_code": "pl_PL",
		"token": "tok"
	}`, string(pub.msgs[0].Body))
}

func TestMessaging_NotifyAdminPasswordResetRequested_Error(t *testing.T) {
	errPublish := errors.New("broker down")
	m := NewMessaging(&recordingPublisher{err: errPublish}, instrument.NewNoop())

	err := m.NotifyAdminPasswordResetRequested(context.Background(), usecase.AdminPasswordResetRequestedEvent{EventID: "ev-1"})
	assert.ErrorIs(t, err, errPublish)
}
