package usecase

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/shandysiswandi/gorecover/internal/pkg/goerror"
	"github.com/shandysiswandi/gorecover/internal/pkg/otp"
	"github.com/shandysiswandi/gorecover/internal/recovery/entity"
)

func TestRequestOtp(t *testing.T) {
	// Arrange
	f := newFixture(t, "")
	f.uc.otp = otp.NewNumeric(6)

	// Act
	out, err := f.uc.RequestOtp(context.Background(), RequestOtpInput{Email: "  " + aliceEmail + " "})

	// Assert
	if err != nil {
		t.Fatalf("RequestOtp() error = %v", err)
	}
	if !regexp.MustCompile(`^[0-9]{6}$`).MatchString(out.Code) {
		t.Fatalf("RequestOtp() code = %q, want 6 digits", out.Code)
	}
	if want := f.clock.Now().Add(10 * time.Minute); !out.ExpiresAt.Equal(want) {
		t.Fatalf("ExpiresAt = %v, want %v", out.ExpiresAt, want)
	}
	if f.repo.otpCount(aliceID) != 1 {
		t.Fatalf("live records = %d, want 1", f.repo.otpCount(aliceID))
	}
	for _, rec := range f.repo.otps {
		if rec.Code == out.Code {
			t.Fatal("raw code stored, want digest")
		}
	}
	if len(f.delivery.sent) != 1 || f.delivery.sent[0].Code != out.Code || f.delivery.sent[0].Email != aliceEmail {
		t.Fatalf("delivery = %+v", f.delivery.sent)
	}
}

func TestRequestOtpUnknownAccount(t *testing.T) {
	// Arrange
	f := newFixture(t, "")

	// Act
	out, err := f.uc.RequestOtp(context.Background(), RequestOtpInput{Email: "bob@example.com"})

	// Assert
	assertCode(t, err, goerror.CodeNotFound)
	if !errors.Is(err, entity.ErrAccountNotFound) {
		t.Fatalf("error = %v, want ErrAccountNotFound", err)
	}
	if out != nil {
		t.Fatalf("output = %+v, want nil", out)
	}
	if len(f.repo.otps) != 0 || len(f.delivery.sent) != 0 {
		t.Fatal("otp store or delivery touched for an unknown account")
	}
}

func TestRequestOtpInvalidEmail(t *testing.T) {
	// Arrange
	f := newFixture(t, "")

	// Act
	_, err := f.uc.RequestOtp(context.Background(), RequestOtpInput{Email: "not-an-email"})

	// Assert
	assertCode(t, err, goerror.CodeInvalidInput)
	if f.repo.calls != 0 {
		t.Fatalf("store calls = %d, want 0", f.repo.calls)
	}
}

func TestRequestOtpTwiceKeepsOneLiveRecord(t *testing.T) {
	// Arrange
	f := newFixture(t, "", "111111", "222222")
	ctx := context.Background()

	// Act
	first, err1 := f.uc.RequestOtp(ctx, RequestOtpInput{Email: aliceEmail})
	second, err2 := f.uc.RequestOtp(ctx, RequestOtpInput{Email: aliceEmail})

	// Assert
	if err1 != nil || err2 != nil {
		t.Fatalf("RequestOtp() errors = %v, %v", err1, err2)
	}
	if f.repo.otpCount(aliceID) != 1 {
		t.Fatalf("live records = %d, want 1", f.repo.otpCount(aliceID))
	}

	err := f.uc.VerifyOtp(ctx, VerifyOtpInput{Email: aliceEmail, Code: first.Code})
	assertCode(t, err, goerror.CodeInvalidOtp)

	if err := f.uc.VerifyOtp(ctx, VerifyOtpInput{Email: aliceEmail, Code: second.Code}); err != nil {
		t.Fatalf("VerifyOtp(second) error = %v", err)
	}
}

func TestRequestOtpBrokerDeliveryHidesCode(t *testing.T) {
	// Arrange
	f := newFixture(t, "")
	f.delivery.reveal = false

	// Act
	out, err := f.uc.RequestOtp(context.Background(), RequestOtpInput{Email: aliceEmail})

	// Assert
	if err != nil {
		t.Fatalf("RequestOtp() error = %v", err)
	}
	if out.Code != "" {
		t.Fatalf("code = %q, want hidden", out.Code)
	}
	if len(f.delivery.sent) != 1 || f.delivery.sent[0].Code != "042137" {
		t.Fatalf("delivery = %+v", f.delivery.sent)
	}
}

func TestRequestOtpFailures(t *testing.T) {
	tests := []struct {
		name     string
		arrange  func(f *fixture)
		wantCode goerror.Code
	}{
		{
			name:     "store error",
			arrange:  func(f *fixture) { f.repo.replaceErr = errors.New("connection reset") },
			wantCode: goerror.CodeInternal,
		},
		{
			name:     "account removed after lookup",
			arrange:  func(f *fixture) { f.repo.replaceErr = goerror.ErrNotFound },
			wantCode: goerror.CodeNotFound,
		},
		{
			name:     "delivery error",
			arrange:  func(f *fixture) { f.delivery.err = errors.New("broker unavailable") },
			wantCode: goerror.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t, "")
			tt.arrange(f)

			// Act
			out, err := f.uc.RequestOtp(context.Background(), RequestOtpInput{Email: aliceEmail})

			// Assert
			assertCode(t, err, tt.wantCode)
			if out != nil {
				t.Fatalf("output = %+v, want nil", out)
			}
		})
	}
}

func TestRequestOtpRetryAfterFailedDelivery(t *testing.T) {
	// Arrange
	f := newFixture(t, "", "111111", "222222")
	ctx := context.Background()
	f.delivery.err = errors.New("broker unavailable")

	_, err := f.uc.RequestOtp(ctx, RequestOtpInput{Email: aliceEmail})
	assertCode(t, err, goerror.CodeInternal)
	if f.repo.otpCount(aliceID) != 1 {
		t.Fatalf("live records after failed delivery = %d, want 1", f.repo.otpCount(aliceID))
	}
	f.delivery.err = nil

	// Act
	out, err := f.uc.RequestOtp(ctx, RequestOtpInput{Email: aliceEmail})

	// Assert
	if err != nil {
		t.Fatalf("RequestOtp(retry) error = %v", err)
	}
	if out.Code != "222222" || f.repo.otpCount(aliceID) != 1 {
		t.Fatalf("retry code = %q, live records = %d", out.Code, f.repo.otpCount(aliceID))
	}
	if len(f.delivery.sent) != 1 || f.delivery.sent[0].Code != "222222" {
		t.Fatalf("delivery = %+v", f.delivery.sent)
	}

	err = f.uc.VerifyOtp(ctx, VerifyOtpInput{Email: aliceEmail, Code: "111111"})
	assertCode(t, err, goerror.CodeInvalidOtp)

	if err := f.uc.VerifyOtp(ctx, VerifyOtpInput{Email: aliceEmail, Code: "222222"}); err != nil {
		t.Fatalf("VerifyOtp(retry code) error = %v", err)
	}
}

func TestRequestOtpAccountRemovedInvalidatesCache(t *testing.T) {
	// Arrange
	f := newFixture(t, "")
	f.repo.replaceErr = goerror.ErrNotFound

	// Act
	_, _ = f.uc.RequestOtp(context.Background(), RequestOtpInput{Email: aliceEmail})

	// Assert
	if len(f.cache.invalidated) != 1 || f.cache.invalidated[0] != aliceEmail {
		t.Fatalf("invalidated = %v", f.cache.invalidated)
	}
}

func TestRequestOtpCustomTTL(t *testing.T) {
	// Arrange
	f := newFixture(t, "modules:\n  recovery:\n    otp_ttl_minutes: 3\n")

	// Act
	out, err := f.uc.RequestOtp(context.Background(), RequestOtpInput{Email: aliceEmail})

	// Assert
	if err != nil {
		t.Fatalf("RequestOtp() error = %v", err)
	}
	if got := out.ExpiresAt.Sub(f.clock.Now()); got != 3*time.Minute {
		t.Fatalf("ttl = %v, want 3m", got)
	}
}

func TestRequestOtpConcurrentIssuanceConverges(t *testing.T) {
	// Arrange
	f := newFixture(t, "", "100001", "100002", "100003", "100004", "100005", "100006")
	ctx := context.Background()

	// Act
	const workers = 6
	codes := make(chan string, workers)
	for range workers {
		go func() {
			out, err := f.uc.RequestOtp(ctx, RequestOtpInput{Email: aliceEmail})
			if err != nil {
				codes <- ""
				return
			}
			codes <- out.Code
		}()
	}

	issued := make([]string, 0, workers)
	for range workers {
		if c := <-codes; c != "" {
			issued = append(issued, c)
		}
	}

	// Assert
	if len(issued) != workers {
		t.Fatalf("issued %d codes, want %d", len(issued), workers)
	}
	if n := f.repo.otpCount(aliceID); n != 1 {
		t.Fatalf("live records = %d, want 1", n)
	}

	// whichever insert landed last is the only code that still verifies
	ok := 0
	for _, c := range issued {
		if err := f.uc.VerifyOtp(ctx, VerifyOtpInput{Email: aliceEmail, Code: c}); err == nil {
			ok++
		}
	}
	if ok != 1 {
		t.Fatalf("verifiable codes = %d, want 1", ok)
	}
}

// A verify racing a re-issue may see the old code either live or already
// replaced. Both outcomes are accepted; the store must still end with exactly
// the new record.
func TestRequestOtpRacingVerify(t *testing.T) {
	for range 20 {
		// Arrange
		f := newFixture(t, "", "111111", "222222")
		ctx := context.Background()
		first, err := f.uc.RequestOtp(ctx, RequestOtpInput{Email: aliceEmail})
		if err != nil {
			t.Fatalf("RequestOtp() error = %v", err)
		}

		// Act
		verifyErr := make(chan error, 1)
		reissueErr := make(chan error, 1)
		go func() {
			verifyErr <- f.uc.VerifyOtp(ctx, VerifyOtpInput{Email: aliceEmail, Code: first.Code})
		}()
		go func() {
			_, err := f.uc.RequestOtp(ctx, RequestOtpInput{Email: aliceEmail})
			reissueErr <- err
		}()

		// Assert
		if err := <-reissueErr; err != nil {
			t.Fatalf("re-issue error = %v", err)
		}
		if err := <-verifyErr; err != nil && goerror.CodeOf(err) != goerror.CodeInvalidOtp {
			t.Fatalf("VerifyOtp() error = %v, want nil or invalid otp", err)
		}
		if n := f.repo.otpCount(aliceID); n != 1 {
			t.Fatalf("live records = %d, want 1", n)
		}
		if err := f.uc.VerifyOtp(ctx, VerifyOtpInput{Email: aliceEmail, Code: "222222"}); err != nil {
			t.Fatalf("VerifyOtp(new code) error = %v", err)
		}
	}
}
