package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("redis container test skipped in short mode")
	}

	ctx := context.Background()
	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := ctr.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)

	opt, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestStateTracker_Exec(t *testing.T) {
	client := newRedis(t)
	tracker := New(client)
	ctx := context.Background()

	calls := 0
	fn := func(context.Context) error { calls++; return nil }

	require.NoError(t, tracker.Exec(ctx, "evt-1", fn, WithStateTTL(time.Minute)))
	assert.ErrorIs(t, tracker.Exec(ctx, "evt-1", fn), ErrAlreadyCompleted)
	assert.Equal(t, 1, calls)

	stored, err := client.Get(ctx, "idempotency:evt-1").Result()
	require.NoError(t, err)
	assert.Equal(t, StateCompleted.String(), stored)
}

func TestStateTracker_FailureReleasesKey(t *testing.T) {
	client := newRedis(t)
	tracker := New(client)
	ctx := context.Background()
	boom := errors.New("smtp down")

	err := tracker.Exec(ctx, "evt-2", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)

	calls := 0
	require.NoError(t, tracker.Exec(ctx, "evt-2", func(context.Context) error { calls++; return nil }))
	assert.Equal(t, 1, calls)
}

func TestStateTracker_InProgress(t *testing.T) {
	client := newRedis(t)
	tracker := New(client)
	ctx := context.Background()

	state, err := tracker.Acquire(ctx, "evt-3", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, StateNone, state)

	err = tracker.Exec(ctx, "evt-3", func(context.Context) error { return nil }, WithLockDuration(time.Second))
	assert.ErrorIs(t, err, ErrAlreadyInProgress)

	require.NoError(t, client.Set(ctx, "idempotency:evt-4", "garbage", time.Minute).Err())
	_, err = tracker.Acquire(ctx, "evt-4", time.Minute)
	assert.ErrorIs(t, err, ErrInvalidState)
}
