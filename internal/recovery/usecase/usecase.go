package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gorecover/internal/pkg/clock"
	"github.com/shandysiswandi/gorecover/internal/pkg/config"
	"github.com/shandysiswandi/gorecover/internal/pkg/goerror"
	"github.com/shandysiswandi/gorecover/internal/pkg/hash"
	"github.com/shandysiswandi/gorecover/internal/pkg/instrument"
	"github.com/shandysiswandi/gorecover/internal/pkg/otp"
	"github.com/shandysiswandi/gorecover/internal/pkg/strength"
	"github.com/shandysiswandi/gorecover/internal/pkg/uid"
	"github.com/shandysiswandi/gorecover/internal/pkg/validator"
	"github.com/shandysiswandi/gorecover/internal/recovery/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const defaultOtpTTL = 10 * time.Minute

type accountStore interface {
	GetAccountByEmail(ctx context.Context, email string) (*entity.Account, error)
	// CommitPasswordReset stores the new hash and deletes the OTP record in one
	// transaction. It returns goerror.ErrNotFound, changing nothing, when the
	// record is already gone.
	CommitPasswordReset(ctx context.Context, accountID, otpID int64, hash string) error
}

type otpStore interface {
	// ReplaceOtp deletes every record of the account and inserts rec in one transaction.
	ReplaceOtp(ctx context.Context, rec entity.OtpRecord) error
	// GetLiveOtp returns the record matching the digest that expires strictly
	// after now, latest expiry first.
	GetLiveOtp(ctx context.Context, accountID int64, codeDigest string, now time.Time) (*entity.OtpRecord, error)
	DeleteOtp(ctx context.Context, id int64) error
	// DeleteExpiredOtps removes records whose expiry is at or before now.
	DeleteExpiredOtps(ctx context.Context, now time.Time) (int64, error)
}

type repoDB interface {
	accountStore
	otpStore
}

type otpDelivery interface {
	Deliver(ctx context.Context, msg entity.OtpDelivery) error
	// RevealsCode reports whether the caller gets the code back in the response.
	RevealsCode() bool
}

type identityCache interface {
	GetAccount(ctx context.Context, email string) (*entity.Account, error)
	SetAccount(ctx context.Context, acc entity.Account) error
	InvalidateAccount(ctx context.Context, email string) error
}

type Usecase struct {
	repoDB    repoDB
	delivery  otpDelivery
	cache     identityCache
	validator validator.Validator
	cfg       config.Config
	hmac      hash.Hash
	password  hash.Hash
	otp       otp.Generator
	uid       uid.NumberID
	clock     clock.Clocker
	ins       instrument.Instrumentation

	otpIssued     metric.Int64Counter
	otpVerified   metric.Int64Counter
	passwordReset metric.Int64Counter
}

type Dependency struct {
	RepoDB     repoDB
	Delivery   otpDelivery
	Cache      identityCache
	Validator  validator.Validator
	Config     config.Config
	HMAC       hash.Hash
	Password   hash.Hash
	OTP        otp.Generator
	UID        uid.NumberID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	s := &Usecase{
		repoDB:    dep.RepoDB,
		delivery:  dep.Delivery,
		cache:     dep.Cache,
		validator: dep.Validator,
		cfg:       dep.Config,
		hmac:      dep.HMAC,
		password:  dep.Password,
		otp:       dep.OTP,
		uid:       dep.UID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}

	if s.cache == nil {
		s.cache = noCache{}
	}

	meter := s.ins.Meter("recovery.usecase")
	s.otpIssued = newCounter(meter, "recovery.otp.issued", "One-time passcodes requested")
	s.otpVerified = newCounter(meter, "recovery.otp.verified", "One-time passcodes submitted for verification")
	s.passwordReset = newCounter(meter, "recovery.password.reset", "Password reset attempts")

	return s
}

func newCounter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		slog.Error("failed to create counter", "name", name, "error", err)
	}
	return c
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("recovery.usecase").Start(ctx, name)
}

// record counts one call of an operation, labelled by how it ended.
func (s *Usecase) record(ctx context.Context, c metric.Int64Counter, err error) {
	if c == nil {
		return
	}

	outcome := "ok"
	if err != nil {
		switch goerror.CodeOf(err) {
		case goerror.CodeInvalidInput, goerror.CodeInvalidFormat:
			outcome = "invalid_input"
		case goerror.CodeNotFound:
			outcome = "account_not_found"
		case goerror.CodeInvalidOtp:
			outcome = "invalid_otp"
		case goerror.CodeConflict:
			outcome = "conflict"
		default:
			outcome = "error"
		}
	}

	c.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (s *Usecase) otpTTL() time.Duration {
	if ttl := s.cfg.GetMinute("modules.recovery.otp_ttl_minutes"); ttl > 0 {
		return ttl
	}
	return defaultOtpTTL
}

func (s *Usecase) minStrength(ctx context.Context) strength.Tier {
	raw := s.cfg.GetString("modules.recovery.password_min_strength")
	tier, err := strength.ParseTier(raw)
	if err != nil {
		slog.WarnContext(ctx, "unknown password strength tier in config, gate disabled", "value", raw)
		return strength.Weak
	}
	return tier
}

func errAccountNotFound() error {
	return goerror.NewBusinessCause(entity.ErrAccountNotFound, "Account not found", goerror.CodeNotFound)
}

func errInvalidOtp() error {
	return goerror.NewBusinessCause(entity.ErrInvalidOrExpiredOtp, "Invalid or expired OTP", goerror.CodeInvalidOtp)
}

// findAccount resolves an email through the identity cache, falling back to the store.
// Cache failures are logged and never fail the lookup.
func (s *Usecase) findAccount(ctx context.Context, email string) (*entity.Account, error) {
	acc, err := s.cache.GetAccount(ctx, email)
	if err == nil {
		return acc, nil
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "failed to read identity cache", "email", email, "error", err)
	}

	acc, err = s.repoDB.GetAccountByEmail(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errAccountNotFound()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by email", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.cache.SetAccount(ctx, entity.Account{ID: acc.ID, Email: acc.Email}); err != nil {
		slog.WarnContext(ctx, "failed to fill identity cache", "account_id", acc.ID, "error", err)
	}

	return acc, nil
}

func (s *Usecase) forgetAccount(ctx context.Context, email string) {
	if err := s.cache.InvalidateAccount(ctx, email); err != nil {
		slog.WarnContext(ctx, "failed to invalidate identity cache", "email", email, "error", err)
	}
}

type noCache struct{}

func (noCache) GetAccount(context.Context, string) (*entity.Account, error) {
	return nil, goerror.ErrNotFound
}

func (noCache) SetAccount(context.Context, entity.Account) error { return nil }

func (noCache) InvalidateAccount(context.Context, string) error { return nil }
