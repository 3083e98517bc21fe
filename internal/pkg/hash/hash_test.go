package hash

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewPassword(t *testing.T) {
	tests := []struct {
		name    string
		opts    PasswordOptions
		wantErr bool
	}{
		{name: "default is bcrypt", opts: PasswordOptions{BcryptCost: bcrypt.MinCost}},
		{name: "bcrypt", opts: PasswordOptions{Algorithm: "BCRYPT", BcryptCost: bcrypt.MinCost, BcryptPepper: "p"}},
		{name: "argon2id", opts: PasswordOptions{Algorithm: AlgorithmArgon2id, Argon2idPepper: "p"}},
		{name: "unknown", opts: PasswordOptions{Algorithm: "md5"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			h, err := NewPassword(tt.opts)

			// Assert
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewPassword() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			hashed, err := h.Hash("NewPass1!")
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			if string(hashed) == "NewPass1!" {
				t.Fatal("Hash() returned plaintext")
			}
			if !h.Verify(string(hashed), "NewPass1!") {
				t.Fatal("Verify() = false for the right password")
			}
			if h.Verify(string(hashed), "OldPass1!") {
				t.Fatal("Verify() = true for the wrong password")
			}
		})
	}
}

func TestBcryptSaltedAndClamped(t *testing.T) {
	// Arrange
	h := NewBcrypt(bcrypt.MinCost, "")

	// Act
	a, errA := h.Hash("secret")
	b, errB := h.Hash("secret")

	// Assert
	if errA != nil || errB != nil {
		t.Fatalf("Hash() errors = %v, %v", errA, errB)
	}
	if string(a) == string(b) {
		t.Fatal("two hashes of the same input are equal, want random salt")
	}

	if got := NewBcrypt(0, "").Cost(); got != DefaultBcryptCost {
		t.Fatalf("Cost() = %d, want %d", got, DefaultBcryptCost)
	}
	if got := NewBcrypt(1, "").Cost(); got != bcrypt.MinCost {
		t.Fatalf("Cost() = %d, want %d", got, bcrypt.MinCost)
	}
	if got := NewBcrypt(99, "").Cost(); got != bcrypt.MaxCost {
		t.Fatalf("Cost() = %d, want %d", got, bcrypt.MaxCost)
	}
}

func TestArgon2idRejectsMalformed(t *testing.T) {
	h := NewArgon2id("")

	for _, hashed := range []string{"", "plain", "$bcrypt$v=19$m=1,t=1,p=1$AA$AA", "$argon2id$v=1$m=1,t=1,p=1$AA$AA"} {
		if h.Verify(hashed, "secret") {
			t.Fatalf("Verify(%q) = true, want false", hashed)
		}
	}
}

func TestHMACSHA256(t *testing.T) {
	// Arrange
	h := NewHMACSHA256("otp-secret")
	other := NewHMACSHA256("other-secret")

	// Act
	d1, _ := h.Hash("042137")
	d2, _ := h.Hash("042137")
	d3, _ := other.Hash("042137")

	// Assert
	if string(d1) != string(d2) {
		t.Fatal("digest is not deterministic")
	}
	if string(d1) == string(d3) {
		t.Fatal("digest does not depend on the secret")
	}
	if len(d1) != 64 || strings.Contains(string(d1), "042137") {
		t.Fatalf("digest = %q, want 64 hex chars without the code", d1)
	}
	if !h.Verify(string(d1), "042137") || h.Verify(string(d1), "042138") {
		t.Fatal("Verify() mismatch")
	}
}
