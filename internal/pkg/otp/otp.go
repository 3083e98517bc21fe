package otp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/pquerna/otp"
)

// Generator produces fresh one-time passcodes.
type Generator interface {
	// Generate returns a new numeric code.
	Generate() (string, error)
}

// Numeric implements Generator with uniformly distributed decimal codes.
type Numeric struct {
	digits otp.Digits
	max    *big.Int
	rand   io.Reader
}

// NewNumeric returns a generator for codes of the given length.
//
// Lengths outside [4,9] fall back to 6 digits; wider codes overflow otp.Digits.Format.
func NewNumeric(digits int) *Numeric {
	if digits < 4 || digits > 9 {
		digits = int(otp.DigitsSix)
	}

	return &Numeric{
		digits: otp.Digits(digits),
		max:    new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil),
		rand:   rand.Reader,
	}
}

// Length returns the number of digits in generated codes.
func (n *Numeric) Length() int {
	return n.digits.Length()
}

// Generate implements Generator.
func (n *Numeric) Generate() (string, error) {
	v, err := rand.Int(n.rand, n.max)
	if err != nil {
		return "", fmt.Errorf("otp: sample code: %w", err)
	}

	return n.digits.Format(int32(v.Int64())), nil
}
