// Package idempotency guards handlers against duplicate deliveries of the
// same logical operation using Redis as the shared state store.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrAlreadyInProgress is returned when another worker holds the key.
	ErrAlreadyInProgress = errors.New("idempotency: operation already in progress")
	// ErrAlreadyCompleted is returned when the key finished successfully before.
	ErrAlreadyCompleted = errors.New("idempotency: operation already completed")
	// ErrInvalidState is returned when the stored value is not a known state.
	ErrInvalidState = errors.New("idempotency: invalid state")
)

// State is the value stored under an idempotency key.
type State string

const (
	StateNone       State = "none"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

func (s State) String() string {
	return string(s)
}

// Idempotency runs fn at most once per key until the key expires.
type Idempotency interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = 24 * time.Hour
)

// Option customises Exec.
type Option func(*execOptions)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
}

// WithLockDuration bounds how long an in-progress marker survives a crashed worker.
func WithLockDuration(d time.Duration) Option {
	return func(o *execOptions) { o.lockDuration = d }
}

// WithStateTTL sets how long a completed key is remembered.
func WithStateTTL(d time.Duration) Option {
	return func(o *execOptions) { o.stateTTL = d }
}

// StateTracker implements Idempotency on Redis.
type StateTracker struct {
	client redis.UniversalClient
	prefix string
}

// New returns a tracker storing keys under "idempotency:".
func New(client redis.UniversalClient) *StateTracker {
	return &StateTracker{client: client, prefix: "idempotency:"}
}

// Acquire marks key as in progress. It returns StateNone when the caller now
// owns the key, otherwise the state found in Redis.
func (s *StateTracker) Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error) {
	fk := s.prefix + key

	ok, err := s.client.SetNX(ctx, fk, StateInProgress.String(), lockDuration).Result()
	if err != nil {
		return "", err
	}
	if ok {
		return StateNone, nil
	}

	current, err := s.client.Get(ctx, fk).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET, try once more
		return s.retryAcquire(ctx, fk, lockDuration)
	}
	if err != nil {
		return "", err
	}

	switch State(current) {
	case StateInProgress, StateCompleted:
		return State(current), nil
	default:
		return "", ErrInvalidState
	}
}

func (s *StateTracker) retryAcquire(ctx context.Context, fk string, lockDuration time.Duration) (State, error) {
	ok, err := s.client.SetNX(ctx, fk, StateInProgress.String(), lockDuration).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return StateInProgress, nil
	}
	return StateNone, nil
}

// Exec runs fn when key is free. A failing fn releases the key so a later
// redelivery can try again; a successful one marks it completed for stateTTL.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	o := execOptions{lockDuration: defaultLockDuration, stateTTL: defaultStateTTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.lockDuration <= 0 {
		o.lockDuration = defaultLockDuration
	}
	if o.stateTTL <= 0 {
		o.stateTTL = defaultStateTTL
	}

	state, err := s.Acquire(ctx, key, o.lockDuration)
	if err != nil {
		return err
	}

	switch state {
	case StateInProgress:
		return ErrAlreadyInProgress
	case StateCompleted:
		return ErrAlreadyCompleted
	}

	if err := fn(ctx); err != nil {
		if delErr := s.client.Del(context.WithoutCancel(ctx), s.prefix+key).Err(); delErr != nil {
			return errors.Join(err, delErr)
		}
		return err
	}

	return s.client.Set(context.WithoutCancel(ctx), s.prefix+key, StateCompleted.String(), o.stateTTL).Err()
}
