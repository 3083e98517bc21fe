package delivery

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/gorecover/internal/pkg/instrument"
	"github.com/shandysiswandi/gorecover/internal/pkg/messaging"
	"github.com/shandysiswandi/gorecover/internal/recovery/entity"
	"github.com/shandysiswandi/gorecover/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

const (
	defaultRetryBase  = 100 * time.Millisecond
	defaultRetryCap   = 2 * time.Second
	defaultMaxRetries = 3
)

// BrokerOption tweaks the publish retry policy. Zero values keep the defaults.
type BrokerOption func(*Broker)

func WithRetry(base, capped time.Duration, maxRetries uint64) BrokerOption {
	return func(b *Broker) {
		if base > 0 {
			b.retryBase = base
		}
		if capped > 0 {
			b.retryCap = capped
		}
		if maxRetries > 0 {
			b.maxRetries = maxRetries
		}
	}
}

// Broker publishes issued codes for an email worker to pick up. The code never
// travels back in the HTTP response when this channel is used.
type Broker struct {
	client messaging.Publisher
	ins    instrument.Instrumentation

	retryBase  time.Duration
	retryCap   time.Duration
	maxRetries uint64
}

func NewBroker(client messaging.Publisher, ins instrument.Instrumentation, opts ...BrokerOption) *Broker {
	b := &Broker{
		client:     client,
		ins:        ins,
		retryBase:  defaultRetryBase,
		retryCap:   defaultRetryCap,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

func (b *Broker) RevealsCode() bool { return false }

func (b *Broker) Deliver(ctx context.Context, msg entity.OtpDelivery) error {
	ctx, span := b.ins.Tracer("recovery.outbound.delivery").Start(ctx, "Deliver")
	defer span.End()

	body, err := json.Marshal(event.OtpIssuedMessage{
		AccountID: msg.AccountID,
		Email:     msg.Email,
		Code:      msg.Code,
		ExpiresAt: msg.ExpiresAt.Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	out := messaging.OutgoingMessage{
		Body:        body,
		Key:         []byte(strconv.FormatInt(msg.AccountID, 10)),
		OrderingKey: strconv.FormatInt(msg.AccountID, 10),
		Headers:     []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(instrument.GetCorrelationID(ctx))}},
	}

	backoff := retry.NewFibonacci(b.retryBase)
	backoff = retry.WithCappedDuration(b.retryCap, backoff)
	backoff = retry.WithMaxRetries(b.maxRetries, backoff)

	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if _, err := b.client.Publish(ctx, event.OtpIssuedDestination, out); err != nil {
			slog.WarnContext(ctx, "failed to publish otp issued", "attempt", attempt, "account_id", msg.AccountID, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
