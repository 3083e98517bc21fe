package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/gorecover/internal/pkg/goerror"
	"github.com/shandysiswandi/gorecover/internal/recovery/entity"
)

type RequestOtpInput struct {
	Email string `validate:"required,email"`
}

type RequestOtpOutput struct {
	// Code is set only when the delivery channel hands the code back to the caller.
	Code      string
	ExpiresAt time.Time
}

// RequestOtp issues a fresh code for the account, replacing any previous one, and hands it to the delivery channel.
func (s *Usecase) RequestOtp(ctx context.Context, in RequestOtpInput) (_ *RequestOtpOutput, err error) {
	ctx, span := s.startSpan(ctx, "RequestOtp")
	defer span.End()
	defer func() { s.record(ctx, s.otpIssued, err) }()

	in.Email = strings.TrimSpace(in.Email)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	acc, err := s.findAccount(ctx, in.Email)
	if err != nil {
		return nil, err
	}

	code, err := s.otp.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	digest, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	rec := entity.OtpRecord{
		ID:        s.uid.Generate(),
		AccountID: acc.ID,
		Code:      string(digest),
		ExpiresAt: s.clock.Now().Add(s.otpTTL()),
	}

	err = s.repoDB.ReplaceOtp(ctx, rec)
	if errors.Is(err, goerror.ErrNotFound) {
		// the cached id points at an account that no longer exists
		s.forgetAccount(ctx, in.Email)
		return nil, errAccountNotFound()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo replace otp", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	// The record is committed before delivery. A failed send leaves a code
	// nobody received; it expires on its own or is replaced by the retry.
	if err := s.delivery.Deliver(ctx, entity.OtpDelivery{
		AccountID: acc.ID,
		Email:     acc.Email,
		Code:      code,
		ExpiresAt: rec.ExpiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to deliver otp", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	out := &RequestOtpOutput{ExpiresAt: rec.ExpiresAt}
	if s.delivery.RevealsCode() {
		out.Code = code
	}

	return out, nil
}
