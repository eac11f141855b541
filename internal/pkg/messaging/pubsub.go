package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cloud.google.com/go/pubsub/v2"
	"google.golang.org/api/option"
)

// ErrPubSubProjectIDRequired is returned when neither a client nor a project ID is given.
var ErrPubSubProjectIDRequired = errors.New("messaging: pubsub project id is required")

// PubSubConfig configures NewPubSub.
type PubSubConfig struct {
	ProjectID     string
	Client        *pubsub.Client
	ClientOptions []option.ClientOption
}

// PubSub is a Messaging backed by Google Pub/Sub. Publish takes a topic ID and
// Consume takes the topic ID for logging plus the subscription from WithGroup.
type PubSub struct {
	client *pubsub.Client

	mu         sync.Mutex
	publishers map[string]*pubsub.Publisher
	closed     bool
}

// NewPubSub uses cfg.Client when set and otherwise dials cfg.ProjectID.
func NewPubSub(ctx context.Context, cfg PubSubConfig) (*PubSub, error) {
	client := cfg.Client
	if client == nil {
		if cfg.ProjectID == "" {
			return nil, ErrPubSubProjectIDRequired
		}

		c, err := pubsub.NewClient(ctx, cfg.ProjectID, cfg.ClientOptions...)
		if err != nil {
			return nil, fmt.Errorf("messaging: pubsub new client: %w", err)
		}
		client = c
	}

	return &PubSub{client: client, publishers: map[string]*pubsub.Publisher{}}, nil
}

// Close flushes the publishers and closes the client.
func (p *PubSub) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	pubs := p.publishers
	p.publishers = nil
	p.mu.Unlock()

	for _, pub := range pubs {
		pub.Stop()
	}
	return p.client.Close()
}

// Publish sends msg with headers as attributes and Key as the ordering key.
func (p *PubSub) Publish(ctx context.Context, topic string, msg Outgoing) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if topic == "" {
		return "", ErrTopicRequired
	}
	if msg.Delay > 0 {
		return "", ErrUnsupported
	}

	pub, err := p.publisher(topic)
	if err != nil {
		return "", err
	}

	id, err := pub.Publish(ctx, &pubsub.Message{
		Data:        msg.Body,
		Attributes:  msg.Headers,
		OrderingKey: string(msg.Key),
	}).Get(ctx)
	if err != nil {
		return "", fmt.Errorf("messaging: pubsub publish: %w", err)
	}
	return id, nil
}

// Consume receives from the subscription named by WithGroup until ctx is done.
func (p *PubSub) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(ctx, topic, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)
	if co.group == "" {
		return ErrGroupRequired
	}
	if p.isClosed() {
		return ErrClosed
	}

	sub := p.client.Subscriber(co.group)
	sub.ReceiveSettings.NumGoroutines = co.concurrency
	sub.ReceiveSettings.MaxOutstandingMessages = co.maxInFlight

	return sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		//nolint:errcheck // errors are logged by the handler
		_ = dispatch(ctx, "pubsub", handler, pubsubDelivery(topic, m), co.autoAck)
	})
}

func (p *PubSub) publisher(topic string) (*pubsub.Publisher, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	if pub, ok := p.publishers[topic]; ok {
		return pub, nil
	}
	pub := p.client.Publisher(topic)
	pub.EnableMessageOrdering = true
	p.publishers[topic] = pub
	return pub, nil
}

func (p *PubSub) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func pubsubDelivery(topic string, m *pubsub.Message) *delivery {
	d := &delivery{
		id:      m.ID,
		topic:   topic,
		body:    m.Data,
		headers: m.Attributes,
		ack: func() error {
			m.Ack()
			return nil
		},
		nack: func() error {
			m.Nack()
			return nil
		},
	}
	if m.DeliveryAttempt != nil {
		d.attempt = *m.DeliveryAttempt
	}
	return d
}
