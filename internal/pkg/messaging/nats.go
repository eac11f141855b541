package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
)

// ErrNATSURLRequired is returned when the server URL is missing.
var ErrNATSURLRequired = errors.New("messaging: nats url is required")

// NATSConfig configures NewNATS.
type NATSConfig struct {
	URL     string
	Options []nats.Option
}

// NATS is a Messaging backed by core NATS. Delivery is at-most-once unless the
// subject is bound to a JetStream consumer.
type NATS struct {
	conn *nats.Conn

	mu     sync.Mutex
	subs   []*nats.Subscription
	closed bool
}

// NewNATS connects to cfg.URL.
func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect: %w", err)
	}

	return &NATS{conn: conn}, nil
}

// Close drains the subscriptions and the connection.
func (n *NATS) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	subs := n.subs
	n.subs = nil
	n.mu.Unlock()

	var errs error
	for _, sub := range subs {
		errs = errors.Join(errs, sub.Drain())
	}
	errs = errors.Join(errs, n.conn.Drain())
	n.conn.Close()
	return errs
}

// Publish sends msg to the subject topic and flushes the connection.
func (n *NATS) Publish(ctx context.Context, topic string, msg Outgoing) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if topic == "" {
		return "", ErrTopicRequired
	}
	if msg.Delay > 0 {
		return "", ErrUnsupported
	}

	nmsg := nats.NewMsg(topic)
	nmsg.Data = msg.Body
	for k, v := range msg.Headers {
		nmsg.Header.Set(k, v)
	}

	if err := n.conn.PublishMsg(nmsg); err != nil {
		return "", fmt.Errorf("messaging: nats publish: %w", err)
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return "", fmt.Errorf("messaging: nats flush: %w", err)
	}
	return "", nil
}

// Consume joins the queue group named by WithGroup and blocks until ctx is done.
func (n *NATS) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(ctx, topic, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)

	msgCh := make(chan *nats.Msg, co.maxInFlight)
	sub, err := n.conn.QueueSubscribe(topic, co.group, func(m *nats.Msg) {
		select {
		case msgCh <- m:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return fmt.Errorf("messaging: nats subscribe: %w", err)
	}

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for m := range msgCh {
				//nolint:errcheck // errors are logged by the handler
				_ = dispatch(ctx, "nats", handler, natsDelivery(m), co.autoAck)
			}
		})
	}

	if err := n.track(sub); err != nil {
		err = errors.Join(err, sub.Drain())
		close(msgCh)
		wg.Wait()
		return err
	}

	<-ctx.Done()

	derr := sub.Drain()
	close(msgCh)
	wg.Wait()
	return errors.Join(ctx.Err(), derr)
}

func (n *NATS) track(sub *nats.Subscription) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrClosed
	}
	n.subs = append(n.subs, sub)
	return nil
}

func natsDelivery(m *nats.Msg) *delivery {
	d := &delivery{
		topic:   m.Subject,
		body:    m.Data,
		headers: make(map[string]string, len(m.Header)),
		ack:     func() error { return ignoreNoReply(m.Ack()) },
		nack:    func() error { return ignoreNoReply(m.Nak()) },
	}
	for k := range m.Header {
		d.headers[k] = m.Header.Get(k)
	}
	if md, err := m.Metadata(); err == nil {
		d.id = fmt.Sprintf("%s/%d", md.Stream, md.Sequence.Stream)
		d.attempt = int(md.NumDelivered)
	}
	return d
}

// ignoreNoReply treats ack on a core NATS message as a no-op.
func ignoreNoReply(err error) error {
	if errors.Is(err, nats.ErrMsgNoReply) || errors.Is(err, nats.ErrMsgNotBound) {
		return nil
	}
	return err
}
