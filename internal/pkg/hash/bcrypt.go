package hash

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost keeps a single verification around the 100ms mark on common hardware.
const DefaultBcryptCost = 10

// Bcrypt implements Hash using bcrypt.
//
// Pepper is appended to the plaintext before hashing/verifying. Keep the pepper
// secret and store it in configuration (not in the database).
type Bcrypt struct {
	cost   int
	pepper string
}

// NewBcrypt returns a bcrypt-based hasher.
//
// A cost of zero selects DefaultBcryptCost; other values are clamped to
// [bcrypt.MinCost, bcrypt.MaxCost].
func NewBcrypt(cost int, pepper string) *Bcrypt {
	switch {
	case cost == 0:
		cost = DefaultBcryptCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}

	return &Bcrypt{cost: cost, pepper: pepper}
}

// Cost returns the work factor used for new hashes.
func (h *Bcrypt) Cost() int {
	return h.cost
}

// Hash hashes plaintext using bcrypt.
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext+h.pepper), h.cost)
}

// Verify returns true when plaintext matches the hashed value.
func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext+h.pepper)) == nil
}
