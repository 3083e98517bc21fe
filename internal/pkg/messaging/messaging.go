package messaging

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/samber/lo"
)

// ErrUnsupported is returned when a feature is not supported by the selected broker.
//
// For example, not all brokers support delayed delivery.
var ErrUnsupported = errors.New("pkgmessage: unsupported operation")

// Broker is a publisher that owns a broker connection.
type Broker interface {
	io.Closer
	Publisher
}

// Publisher publishes messages to a destination (topic/subject).
type Publisher interface {
	// Publish sends a message to the destination.
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// OutgoingMessage represents a broker-agnostic message to be published.
type OutgoingMessage struct {
	// Body is the message payload.
	Body []byte

	// Key is used by Kafka for partitioning.
	Key []byte

	// Headers support arbitrary binary values and duplicate keys.
	Headers []Header

	// Attributes is a convenience for brokers that model string attributes (e.g. Pub/Sub).
	Attributes map[string]string

	// OrderingKey is used by Google Pub/Sub.
	OrderingKey string

	// Delay is used for deferred delivery (when supported).
	Delay time.Duration
}

// Header is a key/value pair used for message headers.
type Header struct {
	Key   string
	Value []byte
}

// HeaderValue returns the first value stored under key, or "".
func (m OutgoingMessage) HeaderValue(key string) string {
	h, ok := lo.Find(m.Headers, func(h Header) bool { return h.Key == key })
	if !ok {
		return ""
	}
	return string(h.Value)
}

// stringAttributes merges headers into attributes for brokers that only carry strings.
// Explicit attributes win over headers with the same key.
func (m OutgoingMessage) stringAttributes() map[string]string {
	headers := lo.Filter(m.Headers, func(h Header, _ int) bool { return h.Key != "" })
	if len(headers) == 0 {
		return m.Attributes
	}

	out := lo.SliceToMap(headers, func(h Header) (string, string) { return h.Key, string(h.Value) })
	return lo.Assign(out, m.Attributes)
}

// PublishResult carries optional broker-specific publish metadata.
type PublishResult struct {
	// MessageID is the broker-assigned message ID.
	MessageID string

	// Topic is the topic or subject used for publishing.
	Topic string
	// Partition is the partition used for publishing (Kafka).
	Partition int32
	// Offset is the publish offset (Kafka).
	Offset int64

	// Timestamp is when the broker accepted the message.
	Timestamp time.Time
}
