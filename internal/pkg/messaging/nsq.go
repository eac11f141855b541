package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	nsq "github.com/nsqio/go-nsq"
)

var (
	// ErrNSQProducerAddrRequired is returned by Publish when no nsqd address was configured.
	ErrNSQProducerAddrRequired = errors.New("messaging: nsq producer address is required")
	// ErrNSQConsumerAddrsRequired is returned by Consume when neither nsqd nor lookupd addresses are configured.
	ErrNSQConsumerAddrsRequired = errors.New("messaging: nsq nsqd or lookupd addresses are required")
)

// NSQConfig configures NewNSQ.
type NSQConfig struct {
	ProducerAddr         string
	ConsumerNSQDAddrs    []string
	ConsumerLookupdAddrs []string

	// Config overrides nsq.NewConfig for both producer and consumers.
	Config *nsq.Config
}

// nsqFrame carries headers, which NSQ has no native slot for.
type nsqFrame struct {
	Headers map[string]string `json:"h,omitempty"`
	Body    []byte            `json:"b"`
}

// NSQ is a Messaging backed by nsqd.
type NSQ struct {
	producer *nsq.Producer
	cfg      NSQConfig

	mu        sync.Mutex
	consumers []*nsq.Consumer
	closed    bool
}

// NewNSQ builds the producer when ProducerAddr is set. Consumers connect lazily.
func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	if cfg.Config == nil {
		cfg.Config = nsq.NewConfig()
	}

	n := &NSQ{cfg: cfg}
	if cfg.ProducerAddr != "" {
		p, err := nsq.NewProducer(cfg.ProducerAddr, cfg.Config)
		if err != nil {
			return nil, fmt.Errorf("messaging: nsq new producer: %w", err)
		}
		p.SetLoggerLevel(nsq.LogLevelError)
		n.producer = p
	}

	return n, nil
}

// Close stops every consumer and the producer.
func (n *NSQ) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	consumers := n.consumers
	n.consumers = nil
	n.mu.Unlock()

	for _, c := range consumers {
		c.Stop()
		<-c.StopChan
	}
	if n.producer != nil {
		n.producer.Stop()
	}
	return nil
}

// Publish frames msg with its headers and sends it, deferred when Delay is set.
func (n *NSQ) Publish(ctx context.Context, topic string, msg Outgoing) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if topic == "" {
		return "", ErrTopicRequired
	}
	if n.producer == nil {
		return "", ErrNSQProducerAddrRequired
	}

	body, err := json.Marshal(nsqFrame{Headers: msg.Headers, Body: msg.Body})
	if err != nil {
		return "", err
	}

	if msg.Delay > 0 {
		err = n.producer.DeferredPublish(topic, msg.Delay, body)
	} else {
		err = n.producer.Publish(topic, body)
	}
	if err != nil {
		return "", fmt.Errorf("messaging: nsq publish: %w", err)
	}
	return "", nil
}

// Consume reads topic on the channel named by WithGroup and blocks until ctx is done.
func (n *NSQ) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(ctx, topic, handler); err != nil {
		return err
	}
	if len(n.cfg.ConsumerNSQDAddrs) == 0 && len(n.cfg.ConsumerLookupdAddrs) == 0 {
		return ErrNSQConsumerAddrsRequired
	}
	co := newConsumeOptions(opts...)
	if co.group == "" {
		return ErrGroupRequired
	}

	ccfg := *n.cfg.Config
	ccfg.MaxInFlight = co.maxInFlight

	consumer, err := nsq.NewConsumer(topic, co.group, &ccfg)
	if err != nil {
		return fmt.Errorf("messaging: nsq new consumer: %w", err)
	}
	consumer.SetLoggerLevel(nsq.LogLevelError)
	consumer.AddConcurrentHandlers(nsq.HandlerFunc(func(m *nsq.Message) error {
		m.DisableAutoResponse()
		return dispatch(ctx, "nsq", handler, nsqDelivery(topic, m), co.autoAck)
	}), co.concurrency)

	if err := n.track(consumer); err != nil {
		stopNSQ(consumer)
		return err
	}

	if len(n.cfg.ConsumerLookupdAddrs) > 0 {
		err = consumer.ConnectToNSQLookupds(n.cfg.ConsumerLookupdAddrs)
	} else {
		err = consumer.ConnectToNSQDs(n.cfg.ConsumerNSQDAddrs)
	}
	if err != nil {
		stopNSQ(consumer)
		return fmt.Errorf("messaging: nsq connect: %w", err)
	}

	select {
	case <-ctx.Done():
		stopNSQ(consumer)
		return ctx.Err()
	case <-consumer.StopChan:
		return nil
	}
}

func (n *NSQ) track(c *nsq.Consumer) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrClosed
	}
	n.consumers = append(n.consumers, c)
	return nil
}

func stopNSQ(c *nsq.Consumer) {
	c.Stop()
	<-c.StopChan
}

func nsqDelivery(topic string, m *nsq.Message) *delivery {
	d := &delivery{
		id:      fmt.Sprintf("%x", m.ID),
		topic:   topic,
		body:    m.Body,
		attempt: int(m.Attempts),
		ack: func() error {
			m.Finish()
			return nil
		},
		nack: func() error {
			m.Requeue(-1)
			return nil
		},
	}

	// Bodies that are not frames are delivered untouched.
	var frame nsqFrame
	if err := json.Unmarshal(m.Body, &frame); err == nil && frame.Body != nil {
		d.body = frame.Body
		d.headers = frame.Headers
	}
	return d
}
