// Package goroutine runs background work (message consumers, the spool
// flusher) under a concurrency limit with panic recovery and a single place
// to wait for shutdown.
package goroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shandysiswandi/resetmail/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine = 100

// ErrClosed is returned by Go after Wait has been called.
var ErrClosed = errors.New("goroutine: manager is closed")

// ErrLimitReached is returned by Go when every slot is taken.
var ErrLimitReached = errors.New("goroutine: maximum goroutine limit reached")

// Manager runs functions in goroutines with a concurrency limit and collects
// their errors.
type Manager struct {
	wg   sync.WaitGroup
	sema chan struct{}

	mu     sync.Mutex
	errs   []error
	closed bool
}

// NewManager creates a Manager allowing at most maxGoroutine concurrent tasks.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}

	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go starts f in a new goroutine. It never blocks: when the manager is closed
// or full the task is rejected and the reason is returned.
func (g *Manager) Go(ctx context.Context, name string, f func(ctx context.Context) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		slog.WarnContext(ctx, "goroutine manager closed, task rejected", "task", name)
		return ErrClosed
	}

	select {
	case g.sema <- struct{}{}:
	default:
		slog.WarnContext(ctx, "goroutine limit reached, task rejected", "task", name)
		return ErrLimitReached
	}

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() { <-g.sema }()

		if err := g.run(ctx, name, f); err != nil && !errors.Is(err, context.Canceled) {
			g.mu.Lock()
			g.errs = append(g.errs, fmt.Errorf("%s: %w", name, err))
			g.mu.Unlock()
		}
	}()

	return nil
}

func (g *Manager) run(ctx context.Context, name string, f func(ctx context.Context) error) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			slog.ErrorContext(ctx, "panic occurred in goroutine", "task", name, "panic", rvr, "stack", stacktrace.InternalFrames(2))
			err = fmt.Errorf("panic: %v", rvr)
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	return f(ctx)
}

// Wait rejects new tasks, blocks until running ones finish and returns their
// joined errors. Context cancellation is not reported as an error.
func (g *Manager) Wait() error {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}
