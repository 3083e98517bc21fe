package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gorecover/internal/pkg/goerror"
	"github.com/shandysiswandi/gorecover/internal/pkg/instrument"
	"github.com/shandysiswandi/gorecover/internal/recovery/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultTTL = 5 * time.Minute
	keyPrefix  = "recovery:account:"
)

type account struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Cache keeps the email to account id mapping in redis. Password hashes are never cached.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	ins    instrument.Instrumentation
}

func New(client *redis.Client, ttl time.Duration, ins instrument.Instrumentation) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache{
		client: client,
		ttl:    ttl,
		ins:    ins,
	}
}

func (c *Cache) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.ins.Tracer("recovery.outbound.cache").Start(ctx, name)
}

func (c *Cache) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (c *Cache) GetAccount(ctx context.Context, email string) (_ *entity.Account, err error) {
	ctx, span := c.startSpan(ctx, "GetAccount")
	defer func() { c.endSpan(span, err) }()

	raw, err := c.client.Get(ctx, keyPrefix+email).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, goerror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var a account
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, err
	}

	return &entity.Account{ID: a.ID, Email: a.Email}, nil
}

func (c *Cache) SetAccount(ctx context.Context, acc entity.Account) (err error) {
	ctx, span := c.startSpan(ctx, "SetAccount")
	defer func() { c.endSpan(span, err) }()

	raw, err := json.Marshal(account{ID: acc.ID, Email: acc.Email})
	if err != nil {
		return err
	}

	return c.client.Set(ctx, keyPrefix+acc.Email, raw, c.ttl).Err()
}

func (c *Cache) InvalidateAccount(ctx context.Context, email string) (err error) {
	ctx, span := c.startSpan(ctx, "InvalidateAccount")
	defer func() { c.endSpan(span, err) }()

	return c.client.Del(ctx, keyPrefix+email).Err()
}
