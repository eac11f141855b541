package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// DefaultRecoverTimeout is how long a message may stay claimed before Recover requeues it.
const DefaultRecoverTimeout = 900 * time.Second

// ErrSpoolEntryClaimed is returned by SpoolStore.Claim when the entry is gone or
// already claimed by another flusher.
var ErrSpoolEntryClaimed = errors.New("mail: spool entry already claimed")

var unsafeIDChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SpooledMessage is the envelope persisted by a SpoolStore.
type SpooledMessage struct {
	ID       string    `json:"id"`
	QueuedAt time.Time `json:"queued_at"`
	Attempts int       `json:"attempts"`
	Message  Message   `json:"message"`
}

// entryName is the stable file or object name of a spooled message.
func (sm SpooledMessage) entryName() string {
	return fmt.Sprintf("%d-%s%s", sm.QueuedAt.UnixNano(), unsafeIDChars.ReplaceAllString(sm.ID, "_"), spoolExt)
}

// SpoolStore persists spooled messages.
//
// An entry is either queued or claimed. Claim moves a queued entry to the
// claimed state; Release moves it back and Remove deletes it.
type SpoolStore interface {
	Enqueue(ctx context.Context, sm SpooledMessage) error
	// Queued returns the queued entries ordered by QueuedAt.
	Queued(ctx context.Context) ([]SpooledMessage, error)
	Claim(ctx context.Context, sm SpooledMessage, at time.Time) error
	Release(ctx context.Context, sm SpooledMessage) error
	Remove(ctx context.Context, sm SpooledMessage) error
	// Recover requeues entries claimed before cutoff and reports how many moved.
	Recover(ctx context.Context, cutoff time.Time) (int, error)
	Clear(ctx context.Context) error
}

// SpoolOption customizes a Spool.
type SpoolOption func(*Spool)

// WithSpoolClock sets the time source used for queue and claim timestamps.
func WithSpoolClock(now func() time.Time) SpoolOption {
	return func(s *Spool) { s.now = now }
}

// WithSpoolIDGenerator sets the generator used for messages without an ID.
func WithSpoolIDGenerator(gen func() string) SpoolOption {
	return func(s *Spool) { s.newID = gen }
}

// Spool is a Mail transport that queues messages in a SpoolStore instead of
// delivering them.
type Spool struct {
	store SpoolStore
	from  string
	now   func() time.Time
	newID func() string
}

// NewSpool returns a spooling transport using from as the default sender.
func NewSpool(store SpoolStore, from string, opts ...SpoolOption) *Spool {
	s := &Spool{
		store: store,
		from:  from,
		now:   time.Now,
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send queues the message.
func (s *Spool) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := prepare(msg, s.from)
	if err != nil {
		return err
	}

	if msg.ID == "" {
		msg.ID = s.newID()
	}

	return s.store.Enqueue(ctx, SpooledMessage{
		ID:       msg.ID,
		QueuedAt: s.now().UTC(),
		Message:  msg,
	})
}

// Count returns the number of queued messages.
func (s *Spool) Count(ctx context.Context) (int, error) {
	queued, err := s.store.Queued(ctx)
	if err != nil {
		return 0, err
	}
	return len(queued), nil
}

// Messages returns the queued messages ordered by queue time.
func (s *Spool) Messages(ctx context.Context) ([]SpooledMessage, error) {
	return s.store.Queued(ctx)
}

// Clear drops every queued and claimed message.
func (s *Spool) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// Recover requeues messages claimed longer than timeout ago.
// A non-positive timeout uses DefaultRecoverTimeout.
func (s *Spool) Recover(ctx context.Context, timeout time.Duration) (int, error) {
	if timeout <= 0 {
		timeout = DefaultRecoverTimeout
	}
	return s.store.Recover(ctx, s.now().Add(-timeout))
}

// Close implements io.Closer.
func (s *Spool) Close() error {
	return nil
}

// FlushOptions bounds a single Flush run. Zero values mean unlimited.
type FlushOptions struct {
	// MessageLimit stops the run after this many successful sends.
	MessageLimit int
	// TimeLimit stops the run once it has been running this long.
	TimeLimit time.Duration
	// RecoverTimeout is passed to Recover before flushing.
	RecoverTimeout time.Duration
}

// FlushResult reports the outcome of a Flush run.
type FlushResult struct {
	Sent      int
	Failed    int
	Recovered int
}

// Flush delivers queued messages through transport.
//
// Delivered messages are removed from the store. Messages the transport
// rejects are released back to the queue with their attempt counter
// incremented, so the next run retries them.
func (s *Spool) Flush(ctx context.Context, transport Mail, opts FlushOptions) (FlushResult, error) {
	var result FlushResult

	recovered, err := s.Recover(ctx, opts.RecoverTimeout)
	if err != nil {
		return result, fmt.Errorf("recover spool: %w", err)
	}
	result.Recovered = recovered

	queued, err := s.store.Queued(ctx)
	if err != nil {
		return result, err
	}

	start := s.now()
	for _, sm := range queued {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if opts.MessageLimit > 0 && result.Sent >= opts.MessageLimit {
			break
		}
		if opts.TimeLimit > 0 && s.now().Sub(start) >= opts.TimeLimit {
			break
		}

		if err := s.store.Claim(ctx, sm, s.now()); err != nil {
			if errors.Is(err, ErrSpoolEntryClaimed) {
				continue
			}
			return result, err
		}

		if err := transport.Send(ctx, sm.Message); err != nil {
			slog.WarnContext(ctx, "failed to deliver spooled message", "id", sm.ID, "attempts", sm.Attempts+1, "error", err)

			sm.Attempts++
			result.Failed++
			if relErr := s.store.Release(ctx, sm); relErr != nil {
				return result, relErr
			}
			continue
		}

		if err := s.store.Remove(ctx, sm); err != nil {
			return result, err
		}
		result.Sent++
	}

	return result, nil
}
