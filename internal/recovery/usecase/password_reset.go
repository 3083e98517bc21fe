package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gorecover/internal/pkg/goerror"
	"github.com/shandysiswandi/gorecover/internal/pkg/strength"
)

type ResetPasswordInput struct {
	Email       string `validate:"required,email"`
	NewPassword string `validate:"required,password"`
	Code        string `validate:"required,max=32"`
}

// ResetPassword replaces the account's password hash when code matches a live OTP.
// The hash update and the OTP deletion commit together or not at all.
func (s *Usecase) ResetPassword(ctx context.Context, in ResetPasswordInput) (err error) {
	ctx, span := s.startSpan(ctx, "ResetPassword")
	defer span.End()
	defer func() { s.record(ctx, s.passwordReset, err) }()

	in.Email = strings.TrimSpace(in.Email)
	in.Code = strings.TrimSpace(in.Code)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if minTier := s.minStrength(ctx); !strength.Classify(in.NewPassword).AtLeast(minTier) {
		return goerror.NewInvalidInput(nil, "new_password", "new_password must be at least "+minTier.String())
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
		slog.WarnContext(ctx, "password reset rejected", "account_id", acc.ID)
		return errInvalidOtp()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get live otp", "account_id", acc.ID, "error", err)
		return goerror.NewServer(err)
	}

	newHash, err := s.password.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new password", "account_id", acc.ID, "error", err)
		return goerror.NewServer(err)
	}

	err = s.repoDB.CommitPasswordReset(ctx, acc.ID, rec.ID, string(newHash))
	if errors.Is(err, goerror.ErrNotFound) {
		return errInvalidOtp()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo commit password reset", "account_id", acc.ID, "otp_id", rec.ID, "error", err)
		return goerror.NewServer(err)
	}

	s.forgetAccount(ctx, acc.Email)

	return nil
}
