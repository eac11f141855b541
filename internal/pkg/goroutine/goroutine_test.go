package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_CollectsErrors(t *testing.T) {
	m := NewManager(4)
	ctx := context.Background()
	boom := errors.New("boom")

	var ran atomic.Int32
	require.NoError(t, m.Go(ctx, "ok", func(context.Context) error { ran.Add(1); return nil }))
	require.NoError(t, m.Go(ctx, "fail", func(context.Context) error { ran.Add(1); return boom }))
	require.NoError(t, m.Go(ctx, "panic", func(context.Context) error { ran.Add(1); panic("oops") }))

	err := m.Wait()
	assert.Equal(t, int32(3), ran.Load())
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "panic: oops")
	assert.ErrorIs(t, m.Go(ctx, "late", func(context.Context) error { return nil }), ErrClosed)
}

func TestManager_Limit(t *testing.T) {
	m := NewManager(1)
	release := make(chan struct{})

	require.NoError(t, m.Go(context.Background(), "blocker", func(context.Context) error {
		<-release
		return nil
	}))
	assert.ErrorIs(t, m.Go(context.Background(), "extra", func(context.Context) error { return nil }), ErrLimitReached)

	close(release)
	assert.NoError(t, m.Wait())
}

func TestManager_CanceledContext(t *testing.T) {
	m := NewManager(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	require.NoError(t, m.Go(ctx, "skipped", func(context.Context) error { called = true; return nil }))

	assert.NoError(t, m.Wait())
	assert.False(t, called)
}
