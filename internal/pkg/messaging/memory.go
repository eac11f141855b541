package messaging

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Memory is an in-process broker. Each topic fans out to one queue per
// consumer group and competing consumers in a group share that queue. A nack
// redelivers the message to the same group.
type Memory struct {
	mu     sync.Mutex
	groups map[string]map[string]chan *memoryEnvelope
	closed bool
	seq    atomic.Uint64
	buffer int
}

type memoryEnvelope struct {
	id      string
	topic   string
	msg     Outgoing
	attempt int
}

// NewMemory returns a broker whose group queues hold up to buffer messages.
func NewMemory(buffer int) *Memory {
	if buffer <= 0 {
		buffer = 1024
	}
	return &Memory{groups: map[string]map[string]chan *memoryEnvelope{}, buffer: buffer}
}

// Close stops accepting publishes. Running consumers exit with their context.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// Publish enqueues msg for every group subscribed to topic. Messages published
// before any consumer joins are dropped, like NATS without JetStream.
func (m *Memory) Publish(ctx context.Context, topic string, msg Outgoing) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if topic == "" {
		return "", ErrTopicRequired
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return "", ErrClosed
	}
	queues := make([]chan *memoryEnvelope, 0, len(m.groups[topic]))
	for _, q := range m.groups[topic] {
		queues = append(queues, q)
	}
	m.mu.Unlock()

	id := strconv.FormatUint(m.seq.Add(1), 10)
	for _, q := range queues {
		env := &memoryEnvelope{id: id, topic: topic, msg: msg, attempt: 1}
		if msg.Delay > 0 {
			time.AfterFunc(msg.Delay, func() { m.enqueue(q, env) })
			continue
		}
		select {
		case q <- env:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return id, nil
}

// Consume blocks until ctx is done.
func (m *Memory) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(ctx, topic, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)

	q, err := m.queue(topic, co.group)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case env := <-q:
					//nolint:errcheck // errors are logged by the handler
					_ = dispatch(ctx, "memory", handler, m.delivery(q, env), co.autoAck)
				}
			}
		})
	}
	wg.Wait()

	return ctx.Err()
}

// Ready reports whether a consumer group has joined topic.
func (m *Memory) Ready(topic, group string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.groups[topic][group]
	return ok
}

func (m *Memory) queue(topic, group string) (chan *memoryEnvelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	if m.groups[topic] == nil {
		m.groups[topic] = map[string]chan *memoryEnvelope{}
	}
	q, ok := m.groups[topic][group]
	if !ok {
		q = make(chan *memoryEnvelope, m.buffer)
		m.groups[topic][group] = q
	}
	return q, nil
}

func (m *Memory) enqueue(q chan *memoryEnvelope, env *memoryEnvelope) {
	select {
	case q <- env:
	default:
	}
}

func (m *Memory) delivery(q chan *memoryEnvelope, env *memoryEnvelope) *delivery {
	return &delivery{
		id:      env.id,
		topic:   env.topic,
		body:    env.msg.Body,
		headers: env.msg.Headers,
		attempt: env.attempt,
		ack:     func() error { return nil },
		nack: func() error {
			next := *env
			next.attempt++
			go m.enqueue(q, &next)
			return nil
		},
	}
}
