package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/gorecover/internal/pkg/goerror"
	"github.com/shandysiswandi/gorecover/internal/recovery/entity"
)

func TestVerifyOtpConsumesCode(t *testing.T) {
	// Arrange
	f := newFixture(t, "")
	ctx := context.Background()
	out, err := f.uc.RequestOtp(ctx, RequestOtpInput{Email: aliceEmail})
	if err != nil {
		t.Fatalf("RequestOtp() error = %v", err)
	}

	// Act
	first := f.uc.VerifyOtp(ctx, VerifyOtpInput{Email: aliceEmail, Code: out.Code})
	second := f.uc.VerifyOtp(ctx, VerifyOtpInput{Email: aliceEmail, Code: out.Code})
	reset := f.uc.ResetPassword(ctx, ResetPasswordInput{Email: aliceEmail, NewPassword: "NewPass1!", Code: out.Code})

	// Assert
	if first != nil {
		t.Fatalf("first VerifyOtp() error = %v", first)
	}
	assertCode(t, second, goerror.CodeInvalidOtp)
	if !errors.Is(second, entity.ErrInvalidOrExpiredOtp) {
		t.Fatalf("error = %v, want ErrInvalidOrExpiredOtp", second)
	}
	assertCode(t, reset, goerror.CodeInvalidOtp)
	if f.repo.otpCount(aliceID) != 0 {
		t.Fatal("record not consumed")
	}
}

func TestVerifyOtpExpiry(t *testing.T) {
	tests := []struct {
		name    string
		advance time.Duration
		wantErr bool
	}{
		{name: "just before expiry", advance: 10*time.Minute - time.Nanosecond},
		{name: "exact expiry instant", advance: 10 * time.Minute, wantErr: true},
		{name: "after expiry", advance: 11 * time.Minute, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t, "")
			ctx := context.Background()
			out, err := f.uc.RequestOtp(ctx, RequestOtpInput{Email: aliceEmail})
			if err != nil {
				t.Fatalf("RequestOtp() error = %v", err)
			}
			f.clock.Advance(tt.advance)

			// Act
			err = f.uc.VerifyOtp(ctx, VerifyOtpInput{Email: aliceEmail, Code: out.Code})

			// Assert
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("VerifyOtp() error = %v", err)
				}
				return
			}
			assertCode(t, err, goerror.CodeInvalidOtp)
		})
	}
}

func TestVerifyOtpFailures(t *testing.T) {
	tests := []struct {
		name     string
		in       VerifyOtpInput
		arrange  func(f *fixture)
		wantCode goerror.Code
	}{
		{name: "wrong code", in: VerifyOtpInput{Email: aliceEmail, Code: "999999"}, wantCode: goerror.CodeInvalidOtp},
		{name: "unknown account", in: VerifyOtpInput{Email: "bob@example.com", Code: "042137"}, wantCode: goerror.CodeNotFound},
		{name: "empty code", in: VerifyOtpInput{Email: aliceEmail, Code: "  "}, wantCode: goerror.CodeInvalidInput},
		{name: "bad email", in: VerifyOtpInput{Email: "alice", Code: "042137"}, wantCode: goerror.CodeInvalidInput},
		{
			name:     "store error",
			in:       VerifyOtpInput{Email: aliceEmail, Code: "042137"},
			arrange:  func(f *fixture) { f.repo.getOtpErr = errors.New("timeout") },
			wantCode: goerror.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t, "")
			ctx := context.Background()
			if _, err := f.uc.RequestOtp(ctx, RequestOtpInput{Email: aliceEmail}); err != nil {
				t.Fatalf("RequestOtp() error = %v", err)
			}
			if tt.arrange != nil {
				tt.arrange(f)
			}

			// Act
			err := f.uc.VerifyOtp(ctx, tt.in)

			// Assert
			assertCode(t, err, tt.wantCode)
			if tt.wantCode != goerror.CodeInternal && f.repo.otpCount(aliceID) != 1 {
				t.Fatal("a failed verification must not consume the record")
			}
		})
	}
}

func TestVerifyOtpConcurrentConsumption(t *testing.T) {
	// Arrange
	f := newFixture(t, "")
	ctx := context.Background()
	out, err := f.uc.RequestOtp(ctx, RequestOtpInput{Email: aliceEmail})
	if err != nil {
		t.Fatalf("RequestOtp() error = %v", err)
	}

	// Act
	const workers = 8
	results := make(chan error, workers)
	for range workers {
		go func() {
			results <- f.uc.VerifyOtp(ctx, VerifyOtpInput{Email: aliceEmail, Code: out.Code})
		}()
	}

	// Assert
	ok := 0
	for range workers {
		if err := <-results; err == nil {
			ok++
		} else if goerror.CodeOf(err) != goerror.CodeInvalidOtp {
			t.Fatalf("unexpected error = %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("successful verifications = %d, want exactly 1", ok)
	}
}
