package inbound

import (
	"context"

	"github.com/shandysiswandi/gorecover/internal/pkg/router"
	"github.com/shandysiswandi/gorecover/internal/recovery/usecase"
)

type uc interface {
	RequestOtp(ctx context.Context, in usecase.RequestOtpInput) (*usecase.RequestOtpOutput, error)
	VerifyOtp(ctx context.Context, in usecase.VerifyOtpInput) error
	ResetPassword(ctx context.Context, in usecase.ResetPasswordInput) error

	PasswordStrength(ctx context.Context, in usecase.PasswordStrengthInput) (*usecase.PasswordStrengthOutput, error)
	EmailAvailability(ctx context.Context, in usecase.EmailAvailabilityInput) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, store pinger) {
	end := &HTTPEndpoint{uc: uc, store: store}

	// One-time passcodes
	r.POST("/api/v1/recovery/otp", end.RequestOtp)
	r.POST("/api/v1/recovery/otp/verify", end.VerifyOtp)

	// Password
	r.POST("/api/v1/recovery/password/reset", end.ResetPassword)
	r.POST("/api/v1/recovery/password/strength", end.PasswordStrength)

	r.POST("/api/v1/recovery/email/check", end.EmailAvailability)

	r.GET("/health", end.Health)
}
