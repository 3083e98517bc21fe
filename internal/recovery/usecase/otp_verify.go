package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gorecover/internal/pkg/goerror"
)

type VerifyOtpInput struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,max=32"`
}

// VerifyOtp checks a code against the account's live record and consumes it on success.
func (s *Usecase) VerifyOtp(ctx context.Context, in VerifyOtpInput) (err error) {
	ctx, span := s.startSpan(ctx, "VerifyOtp")
	defer span.End()
	defer func() { s.record(ctx, s.otpVerified, err) }()

	in.Email = strings.TrimSpace(in.Email)
	in.Code = strings.TrimSpace(in.Code)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	acc, err := s.findAccount(ctx, in.Email)
	if err != nil {
		return err
	}

	digest, err := s.hmac.Hash(in.Code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp", "account_id", acc.ID, "error", err)
		return goerror.NewServer(err)
	}

	rec, err := s.repoDB.GetLiveOtp(ctx, acc.ID, string(digest), s.clock.Now())
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otp verification rejected", "account_id", acc.ID)
		return errInvalidOtp()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get live otp", "account_id", acc.ID, "error", err)
		return goerror.NewServer(err)
	}

	// a concurrent verify or reset may consume the record first; only one wins
	err = s.repoDB.DeleteOtp(ctx, rec.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return errInvalidOtp()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete otp", "account_id", acc.ID, "otp_id", rec.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
