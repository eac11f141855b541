package mail

import (
	"context"
	"slices"
	"sync"
)

// Memory captures sent messages in process. It is safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	from     string
	messages []Message
}

// NewMemory returns a capturing transport using from as the default sender.
func NewMemory(from string) *Memory {
	return &Memory{from: from}
}

// Send records a copy of the message.
func (m *Memory) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := prepare(msg, m.from)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.messages = append(m.messages, msg)
	m.mu.Unlock()

	return nil
}

// Messages returns copies of the captured messages in send order.
func (m *Memory) Messages() []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Message, 0, len(m.messages))
	for _, msg := range m.messages {
		out = append(out, msg.Clone())
	}
	return out
}

// Count returns the number of captured messages.
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages)
}

// Last returns the most recent message, if any.
func (m *Memory) Last() (Message, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.messages) == 0 {
		return Message{}, false
	}
	return m.messages[len(m.messages)-1].Clone(), true
}

// Reset drops every captured message.
func (m *Memory) Reset() {
	m.mu.Lock()
	m.messages = slices.Delete(m.messages, 0, len(m.messages))
	m.mu.Unlock()
}

// Close implements io.Closer.
func (m *Memory) Close() error {
	return nil
}
