package hash

import (
	"fmt"
	"strings"
)

// Hash turns a secret into a storable digest and checks candidates against it.
type Hash interface {
	// Hash returns the encoded digest of plaintext.
	Hash(plaintext string) ([]byte, error)
	// Verify reports whether plaintext matches hashed.
	Verify(hashed, plaintext string) bool
}

// Supported password hashing algorithms.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// PasswordOptions selects and tunes the password hasher built by NewPassword.
type PasswordOptions struct {
	Algorithm      string
	BcryptCost     int
	BcryptPepper   string
	Argon2idPepper string
}

// NewPassword builds the salted, slow password hasher named by opts.Algorithm.
// An empty algorithm selects bcrypt.
func NewPassword(opts PasswordOptions) (Hash, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Algorithm)) {
	case "", AlgorithmBcrypt:
		return NewBcrypt(opts.BcryptCost, opts.BcryptPepper), nil
	case AlgorithmArgon2id:
		return NewArgon2id(opts.Argon2idPepper), nil
	default:
		return nil, fmt.Errorf("hash: unsupported password algorithm %q", opts.Algorithm)
	}
}
