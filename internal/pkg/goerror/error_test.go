package goerror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "server", err: NewServer(errors.New("db down")), want: http.StatusInternalServerError},
		{name: "invalid input", err: NewInvalidInput(errors.New("email required")), want: http.StatusUnprocessableEntity},
		{name: "invalid format", err: NewInvalidFormat(), want: http.StatusBadRequest},
		{name: "not found", err: NewBusiness("Account not found", CodeNotFound), want: http.StatusNotFound},
		{name: "invalid otp", err: NewBusiness("Invalid or expired OTP", CodeInvalidOtp), want: http.StatusBadRequest},
		{name: "conflict", err: NewBusiness("Email already in use", CodeConflict), want: http.StatusConflict},
		{name: "unavailable", err: NewBusiness("Under maintenance", CodeUnavailable), want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			var ge *Error
			if !errors.As(tt.err, &ge) {
				t.Fatalf("errors.As() failed for %T", tt.err)
			}

			// Act
			got := ge.StatusCode()

			// Assert
			if got != tt.want {
				t.Fatalf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewBusinessCause(t *testing.T) {
	// Arrange
	sentinel := errors.New("otp invalid or expired")

	// Act
	err := fmt.Errorf("reset: %w", NewBusinessCause(sentinel, "Invalid or expired OTP", CodeInvalidOtp))

	// Assert
	if !errors.Is(err, sentinel) {
		t.Fatal("errors.Is() = false, want sentinel reachable")
	}
	if CodeOf(err) != CodeInvalidOtp {
		t.Fatalf("CodeOf() = %s, want %s", CodeOf(err), CodeInvalidOtp)
	}

	var ge *Error
	if !errors.As(err, &ge) || ge.Msg() != "Invalid or expired OTP" || ge.Type() != TypeBusiness {
		t.Fatalf("unexpected error shape: %v", ge)
	}
}

func TestNewInvalidInputFields(t *testing.T) {
	// Act
	err := NewInvalidInput(nil, "email", "email must be a valid email address", "code")

	// Assert
	if CodeOf(err) != CodeInvalidFormat {
		t.Fatalf("odd kv must yield invalid format, got %s", CodeOf(err))
	}

	err = NewInvalidInput(nil, "email", "email is required")
	var ge *Error
	if !errors.As(err, &ge) {
		t.Fatal("errors.As() failed")
	}
	if ge.Fields()["email"] != "email is required" {
		t.Fatalf("Fields() = %#v", ge.Fields())
	}
}

func TestCodeOfPlainError(t *testing.T) {
	if got := CodeOf(errors.New("boom")); got != CodeInternal {
		t.Fatalf("CodeOf() = %s, want %s", got, CodeInternal)
	}
}
