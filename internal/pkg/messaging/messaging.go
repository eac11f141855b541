package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrUnsupported is returned when the broker cannot honour a publish setting, such as Delay.
	ErrUnsupported = errors.New("messaging: unsupported operation")
	// ErrTopicRequired is returned when the topic is empty.
	ErrTopicRequired = errors.New("messaging: topic is required")
	// ErrHandlerRequired is returned when Consume is called with a nil handler.
	ErrHandlerRequired = errors.New("messaging: handler is required")
	// ErrGroupRequired is returned when the broker needs a consumer group and none was given.
	ErrGroupRequired = errors.New("messaging: consumer group is required")
	// ErrClosed is returned by a client after Close.
	ErrClosed = errors.New("messaging: client closed")
)

// Messaging is a broker client that can publish and consume.
type Messaging interface {
	io.Closer

	Publisher
	Consumer
}

// Publisher publishes messages to a topic.
type Publisher interface {
	// Publish returns the broker message ID when the broker assigns one.
	Publish(ctx context.Context, topic string, msg Outgoing) (string, error)
}

// Consumer consumes messages from a topic until ctx is done.
type Consumer interface {
	Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes one delivery. With auto-ack enabled a nil error acks and
// a non-nil error nacks.
type Handler func(ctx context.Context, msg Message) error

// Outgoing is a message to publish.
type Outgoing struct {
	// Key is the Kafka partition key and the Pub/Sub ordering key.
	Key     []byte
	Body    []byte
	Headers map[string]string
	// Delay defers delivery. Only NSQ and the in-process broker support it.
	Delay time.Duration
}

// Message is a received delivery.
type Message interface {
	ID() string
	Topic() string
	Body() []byte
	Header(key string) string
	// Attempt is the delivery attempt, starting at 1.
	Attempt() int

	Ack(ctx context.Context) error
	Nack(ctx context.Context) error
}
