package entity

import "errors"

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidOrExpiredOtp = errors.New("invalid or expired otp")
	ErrEmailInUse          = errors.New("email already in use")
)
