package inbound

import (
	"log/slog"

	"github.com/shandysiswandi/gorecover/internal/pkg/goerror"
	"github.com/shandysiswandi/gorecover/internal/pkg/router"
	"github.com/shandysiswandi/gorecover/internal/recovery/usecase"
)

// HTTPEndpoint exposes the account recovery flow over JSON.
type HTTPEndpoint struct {
	uc    uc
	store pinger
}

// RequestOtp issues a fresh code for the account, replacing any earlier one.
func (h *HTTPEndpoint) RequestOtp(r *router.Request) (any, error) {
	var req RequestOtpRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RequestOtp(r.Context(), usecase.RequestOtpInput{
		Email: req.Email,
	})
	if err != nil {
		return nil, err
	}

	return RequestOtpResponse{
		Code:      resp.Code,
		ExpiresAt: resp.ExpiresAt,
	}, nil
}

// VerifyOtp consumes a code without changing the password.
func (h *HTTPEndpoint) VerifyOtp(r *router.Request) (any, error) {
	var req VerifyOtpRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.VerifyOtp(r.Context(), usecase.VerifyOtpInput{
		Email: req.Email,
		Code:  req.Code,
	}); err != nil {
		return nil, err
	}

	return VerifyOtpResponse{}, nil
}

// ResetPassword consumes a code and replaces the password in one step.
func (h *HTTPEndpoint) ResetPassword(r *router.Request) (any, error) {
	var req ResetPasswordRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.ResetPassword(r.Context(), usecase.ResetPasswordInput{
		Email:       req.Email,
		NewPassword: req.NewPassword,
		Code:        req.Code,
	}); err != nil {
		return nil, err
	}

	return ResetPasswordResponse{}, nil
}

func (h *HTTPEndpoint) PasswordStrength(r *router.Request) (any, error) {
	var req PasswordStrengthRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.PasswordStrength(r.Context(), usecase.PasswordStrengthInput{
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return PasswordStrengthResponse{
		Tier:  resp.Tier.String(),
		Score: resp.Score,
	}, nil
}

func (h *HTTPEndpoint) EmailAvailability(r *router.Request) (any, error) {
	var req EmailAvailabilityRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.EmailAvailability(r.Context(), usecase.EmailAvailabilityInput{
		Email: req.Email,
	}); err != nil {
		return nil, err
	}

	return EmailAvailabilityResponse{}, nil
}

// Health reports whether the record store answers.
func (h *HTTPEndpoint) Health(r *router.Request) (any, error) {
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "health check failed to ping store", "error", err)
			return nil, goerror.NewBusiness("Service unavailable", goerror.CodeUnavailable)
		}
	}

	return HealthResponse{Status: "ok"}, nil
}
