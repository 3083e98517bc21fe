package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	// DriverNSQ selects the NSQ backend.
	DriverNSQ = "nsq"
	// DriverNATS selects the NATS backend.
	DriverNATS = "nats"
	// DriverKafka selects the Kafka backend.
	DriverKafka = "kafka"
	// DriverGooglePubSub selects the Google Pub/Sub backend.
	DriverGooglePubSub = "google-pubsub"
)

// ErrUnknownDriver indicates an unsupported messaging driver.
var ErrUnknownDriver = errors.New("messaging: unknown driver")

// FactoryOptions groups config for supported messaging backends.
type FactoryOptions struct {
	NSQ    NSQConfig
	Kafka  KafkaConfig
	NATS   NATSConfig
	PubSub PubSubConfig
}

// NewFromDriver constructs a Broker by driver name. On error the returned
// Broker is a nil interface, never a typed nil pointer.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Broker, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverNSQ:
		return asBroker(NewNSQ(opts.NSQ))
	case DriverKafka:
		return asBroker(NewKafka(opts.Kafka))
	case DriverNATS:
		return asBroker(NewNATS(opts.NATS))
	case DriverGooglePubSub:
		return asBroker(NewPubSub(ctx, opts.PubSub))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}

func asBroker[T Broker](b T, err error) (Broker, error) {
	if err != nil {
		return nil, err
	}
	return b, nil
}
