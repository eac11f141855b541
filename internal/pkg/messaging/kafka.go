package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// ErrKafkaBrokersRequired is returned when no broker is configured.
var ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")

// KafkaConfig configures NewKafka.
type KafkaConfig struct {
	Brokers []string
	Dialer  *kafka.Dialer
}

// Kafka is a Messaging backed by kafka-go with one writer per topic.
type Kafka struct {
	brokers []string
	dialer  *kafka.Dialer

	mu      sync.Mutex
	writers map[string]*kafka.Writer
	readers map[*kafka.Reader]struct{}
	closed  bool
}

// NewKafka validates cfg. Connections are opened on first use.
func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}

	return &Kafka{
		brokers: cfg.Brokers,
		dialer:  cfg.Dialer,
		writers: map[string]*kafka.Writer{},
		readers: map[*kafka.Reader]struct{}{},
	}, nil
}

// Close closes every reader and writer.
func (k *Kafka) Close() error {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return nil
	}
	k.closed = true
	writers, readers := k.writers, k.readers
	k.writers, k.readers = nil, nil
	k.mu.Unlock()

	var errs error
	for r := range readers {
		errs = errors.Join(errs, r.Close())
	}
	for _, w := range writers {
		errs = errors.Join(errs, w.Close())
	}
	return errs
}

// Publish writes msg to topic and returns "<topic>/<partition>/<offset>" when known.
func (k *Kafka) Publish(ctx context.Context, topic string, msg Outgoing) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if topic == "" {
		return "", ErrTopicRequired
	}
	if msg.Delay > 0 {
		return "", ErrUnsupported
	}

	w, err := k.writer(topic)
	if err != nil {
		return "", err
	}

	kmsg := kafka.Message{Key: msg.Key, Value: msg.Body, Time: time.Now()}
	for key, v := range msg.Headers {
		kmsg.Headers = append(kmsg.Headers, kafka.Header{Key: key, Value: []byte(v)})
	}

	if err := w.WriteMessages(ctx, kmsg); err != nil {
		return "", fmt.Errorf("messaging: kafka publish: %w", err)
	}
	return "", nil
}

// Consume joins the consumer group named by WithGroup and blocks until ctx is
// done or the reader fails. Offsets are committed on Ack only.
func (k *Kafka) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(ctx, topic, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)
	if co.group == "" {
		return ErrGroupRequired
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  k.brokers,
		GroupID:  co.group,
		Topic:    topic,
		MaxBytes: 10e6,
		Dialer:   k.dialer,
	})
	if err := k.track(reader); err != nil {
		return errors.Join(err, reader.Close())
	}
	defer k.untrack(reader)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	msgCh := make(chan kafka.Message, co.maxInFlight)
	var fetchErr error
	go func() {
		defer close(msgCh)
		for {
			m, err := reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() == nil {
					fetchErr = fmt.Errorf("messaging: kafka fetch: %w", err)
				}
				return
			}
			select {
			case msgCh <- m:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for m := range msgCh {
				//nolint:errcheck // errors are logged by the handler
				_ = dispatch(ctx, "kafka", handler, kafkaDelivery(ctx, reader, m), co.autoAck)
			}
		})
	}
	wg.Wait()

	if fetchErr != nil {
		return errors.Join(fetchErr, reader.Close())
	}
	return errors.Join(context.Cause(ctx), reader.Close())
}

func (k *Kafka) writer(topic string) (*kafka.Writer, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return nil, ErrClosed
	}
	if w, ok := k.writers[topic]; ok {
		return w, nil
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(k.brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	if k.dialer != nil {
		w.Transport = &kafka.Transport{TLS: k.dialer.TLS, SASL: k.dialer.SASLMechanism}
	}
	k.writers[topic] = w
	return w, nil
}

func (k *Kafka) track(r *kafka.Reader) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return ErrClosed
	}
	k.readers[r] = struct{}{}
	return nil
}

func (k *Kafka) untrack(r *kafka.Reader) {
	k.mu.Lock()
	defer k.mu.Unlock()

	delete(k.readers, r)
}

func kafkaDelivery(ctx context.Context, r *kafka.Reader, m kafka.Message) *delivery {
	d := &delivery{
		id:      fmt.Sprintf("%s/%d/%d", m.Topic, m.Partition, m.Offset),
		topic:   m.Topic,
		body:    m.Value,
		headers: make(map[string]string, len(m.Headers)),
		ack:     func() error { return r.CommitMessages(ctx, m) },
		// Kafka has no per-message nack. The offset stays uncommitted and
		// is redelivered after a rebalance or restart.
		nack: func() error { return nil },
	}
	for _, h := range m.Headers {
		if _, ok := d.headers[h.Key]; !ok {
			d.headers[h.Key] = string(h.Value)
		}
	}
	return d
}
