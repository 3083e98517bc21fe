package inbound

import "time"

type RequestOtpRequest struct {
	Email string `json:"email"`
}

type RequestOtpResponse struct {
	Code      string    `json:"code,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (r RequestOtpResponse) Message() string {
	if r.Code != "" {
		return "OTP generated successfully"
	}
	return "OTP sent to your email"
}

type VerifyOtpRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type VerifyOtpResponse struct{}

func (VerifyOtpResponse) Message() string {
	return "OTP verified successfully"
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
	Code        string `json:"code"`
}

type ResetPasswordResponse struct{}

func (ResetPasswordResponse) Message() string {
	return "Password reset successfully"
}

type PasswordStrengthRequest struct {
	Password string `json:"password"`
}

type PasswordStrengthResponse struct {
	Tier  string `json:"tier"`
	Score int    `json:"score"`
}

func (PasswordStrengthResponse) Message() string {
	return "Password strength evaluated"
}

type EmailAvailabilityRequest struct {
	Email string `json:"email"`
}

type EmailAvailabilityResponse struct{}

func (EmailAvailabilityResponse) Message() string {
	return "Email is available"
}

type HealthResponse struct {
	Status string `json:"status"`
}

func (HealthResponse) Message() string {
	return "Service is healthy"
}
