package recovery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gorecover/internal/pkg/clock"
	"github.com/shandysiswandi/gorecover/internal/pkg/config"
	"github.com/shandysiswandi/gorecover/internal/pkg/goroutine"
	"github.com/shandysiswandi/gorecover/internal/pkg/hash"
	"github.com/shandysiswandi/gorecover/internal/pkg/instrument"
	"github.com/shandysiswandi/gorecover/internal/pkg/messaging"
	"github.com/shandysiswandi/gorecover/internal/pkg/otp"
	"github.com/shandysiswandi/gorecover/internal/pkg/router"
	"github.com/shandysiswandi/gorecover/internal/pkg/uid"
	"github.com/shandysiswandi/gorecover/internal/pkg/validator"
	"github.com/shandysiswandi/gorecover/internal/recovery/entity"
	"github.com/shandysiswandi/gorecover/internal/recovery/inbound"
	"github.com/shandysiswandi/gorecover/internal/recovery/outbound/cache"
	"github.com/shandysiswandi/gorecover/internal/recovery/outbound/db"
	"github.com/shandysiswandi/gorecover/internal/recovery/outbound/delivery"
	"github.com/shandysiswandi/gorecover/internal/recovery/outbound/mysqldb"
	"github.com/shandysiswandi/gorecover/internal/recovery/usecase"
)

// ErrPublisherRequired is returned when broker delivery is configured without a publisher.
var ErrPublisherRequired = errors.New("recovery: otp_delivery is broker but no publisher is wired")

type recordStore interface {
	GetAccountByEmail(ctx context.Context, email string) (*entity.Account, error)
	CommitPasswordReset(ctx context.Context, accountID, otpID int64, hash string) error
	ReplaceOtp(ctx context.Context, rec entity.OtpRecord) error
	GetLiveOtp(ctx context.Context, accountID int64, codeDigest string, now time.Time) (*entity.OtpRecord, error)
	DeleteOtp(ctx context.Context, id int64) error
	DeleteExpiredOtps(ctx context.Context, now time.Time) (int64, error)

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
}

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	PgxConn    *pgxpool.Pool              `validate:"required_without=SQLConn"`
	SQLConn    *sql.DB                    `validate:"required_without=PgxConn"`
	CacheConn  *redis.Client
	Publisher  messaging.Publisher
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Password   hash.Hash                  `validate:"required"`
	OTP        otp.Generator              `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	var store recordStore = mysqldb.NewDB(dep.SQLConn, dep.Instrument)
	if dep.PgxConn != nil {
		store = db.NewDB(dep.PgxConn, dep.Instrument)
	}

	if dep.Config.GetBool("modules.recovery.migrate") {
		if err := store.Migrate(dep.Ctx); err != nil {
			return fmt.Errorf("recovery: migrate: %w", err)
		}
	}

	otpDelivery, err := newDelivery(dep)
	if err != nil {
		return err
	}

	deps := usecase.Dependency{
		RepoDB:     store,
		Delivery:   otpDelivery,
		Validator:  dep.Validator,
		Config:     dep.Config,
		HMAC:       dep.HMAC,
		Password:   dep.Password,
		OTP:        dep.OTP,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	}
	if dep.CacheConn != nil {
		ttl := dep.Config.GetSecond("modules.recovery.identity_cache_ttl_seconds")
		deps.Cache = cache.New(dep.CacheConn, ttl, dep.Instrument)
	}

	uc := usecase.New(deps)

	inbound.RegisterHTTPEndpoint(dep.Router, uc, store)

	if interval := dep.Config.GetSecond("modules.recovery.purge_interval_seconds"); interval > 0 {
		if err := dep.Goroutine.Go(dep.Ctx, "recovery.otp.purge", func(ctx context.Context) error {
			return goroutine.Every(ctx, interval, "recovery.otp.purge", func(ctx context.Context) error {
				_, err := uc.PurgeExpiredOtps(ctx)
				return err
			})
		}); err != nil {
			return fmt.Errorf("recovery: start purge loop: %w", err)
		}
	}

	return nil
}

func newDelivery(dep Dependency) (interface {
	Deliver(ctx context.Context, msg entity.OtpDelivery) error
	RevealsCode() bool
}, error) {
	mode := strings.ToLower(strings.TrimSpace(dep.Config.GetString("modules.recovery.otp_delivery")))
	switch mode {
	case "", delivery.ModeDirect:
		return delivery.NewDirect(), nil
	case delivery.ModeBroker:
		if dep.Publisher == nil {
			return nil, ErrPublisherRequired
		}
		return delivery.NewBroker(dep.Publisher, dep.Instrument, delivery.WithRetry(
			time.Duration(dep.Config.GetInt("modules.recovery.delivery.retry_base_millis"))*time.Millisecond,
			time.Duration(dep.Config.GetInt("modules.recovery.delivery.retry_cap_millis"))*time.Millisecond,
			uint64(dep.Config.GetUint("modules.recovery.delivery.max_retries")),
		)), nil
	default:
		return nil, fmt.Errorf("recovery: unknown otp_delivery %q", mode)
	}
}
