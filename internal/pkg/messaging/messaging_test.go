package messaging

import (
	"context"
	"errors"
	"testing"
)

func TestNewFromDriverErrors(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		wantErr error
	}{
		{name: "unknown", driver: "rabbitmq", wantErr: ErrUnknownDriver},
		{name: "nats without url", driver: DriverNATS, wantErr: ErrNATSURLRequired},
		{name: "nsq without producer", driver: DriverNSQ, wantErr: ErrNSQProducerAddrRequired},
		{name: "kafka without brokers", driver: " Kafka ", wantErr: ErrKafkaBrokersRequired},
		{name: "pubsub without project", driver: DriverGooglePubSub, wantErr: ErrPubSubProjectIDRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			b, err := NewFromDriver(context.Background(), tt.driver, FactoryOptions{})

			// Assert
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewFromDriver() error = %v, want %v", err, tt.wantErr)
			}
			if b != nil {
				t.Fatalf("NewFromDriver() broker = %v, want nil", b)
			}
		})
	}
}

func TestKafkaPublishGuards(t *testing.T) {
	// Arrange
	k, err := NewKafka(KafkaConfig{Brokers: []string{"127.0.0.1:9092"}})
	if err != nil {
		t.Fatalf("NewKafka() error = %v", err)
	}

	// Act & Assert
	if _, err := k.Publish(context.Background(), "", OutgoingMessage{}); !errors.Is(err, ErrKafkaTopicRequired) {
		t.Fatalf("Publish(no topic) error = %v", err)
	}
	if _, err := k.Publish(context.Background(), "t", OutgoingMessage{Delay: 1}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Publish(delay) error = %v", err)
	}

	if err := k.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := k.Publish(context.Background(), "t", OutgoingMessage{}); err == nil {
		t.Fatal("Publish() after Close() succeeded")
	}
}

func TestOutgoingMessageHeaders(t *testing.T) {
	// Arrange
	msg := OutgoingMessage{
		Headers: []Header{
			{Key: "cID", Value: []byte("abc")},
			{Key: "", Value: []byte("dropped")},
			{Key: "event", Value: []byte("from-header")},
		},
		Attributes: map[string]string{"event": "from-attribute"},
	}

	// Act
	attrs := msg.stringAttributes()

	// Assert
	if msg.HeaderValue("cID") != "abc" || msg.HeaderValue("missing") != "" {
		t.Fatalf("HeaderValue() mismatch")
	}
	if len(attrs) != 2 || attrs["cID"] != "abc" || attrs["event"] != "from-attribute" {
		t.Fatalf("stringAttributes() = %#v", attrs)
	}
}
