package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	DriverNSQ          = "nsq"
	DriverNATS         = "nats"
	DriverKafka        = "kafka"
	DriverGooglePubSub = "google-pubsub"
	DriverMemory       = "memory"
)

// ErrUnknownDriver indicates an unsupported messaging driver.
var ErrUnknownDriver = errors.New("messaging: unknown driver")

// FactoryOptions groups the per-driver configuration.
type FactoryOptions struct {
	NSQ          NSQConfig
	Kafka        KafkaConfig
	NATS         NATSConfig
	PubSub       PubSubConfig
	MemoryBuffer int
}

// NewFromDriver builds the Messaging selected by driver.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Messaging, error) {
	var (
		m   Messaging
		err error
	)

	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverNSQ:
		m, err = NewNSQ(opts.NSQ)
	case DriverKafka:
		m, err = NewKafka(opts.Kafka)
	case DriverNATS:
		m, err = NewNATS(opts.NATS)
	case DriverGooglePubSub:
		m, err = NewPubSub(ctx, opts.PubSub)
	case DriverMemory, "":
		m = NewMemory(opts.MemoryBuffer)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}
