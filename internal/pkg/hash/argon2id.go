package hash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id implements Hash using Argon2id with an encoded PHC-style output.
//
// Each derivation allocates the configured memory, so at most maxConcurrent
// derivations run at once; extra callers wait.
type Argon2id struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
	pepper      string
	sem         chan struct{}
}

// NewArgon2id returns an Argon2id hasher with recommended defaults.
func NewArgon2id(pepper string) *Argon2id {
	const maxConcurrent = 2

	return &Argon2id{
		memory:      32 * 1024, // KiB
		iterations:  3,
		parallelism: 2,
		saltLength:  16,
		keyLength:   32,
		pepper:      pepper,
		sem:         make(chan struct{}, maxConcurrent),
	}
}

func (a *Argon2id) derive(plain string, salt []byte, t, m uint32, p uint8, keyLen uint32) []byte {
	a.sem <- struct{}{}
	defer func() { <-a.sem }()

	return argon2.IDKey([]byte(plain+a.pepper), salt, t, m, p, keyLen)
}

// Hash derives a key from str with a random salt and encodes the parameters alongside it.
func (a *Argon2id) Hash(str string) ([]byte, error) {
	salt := make([]byte, a.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key := a.derive(str, salt, a.iterations, a.memory, a.parallelism, a.keyLength)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		a.memory,
		a.iterations,
		a.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return []byte(encoded), nil
}

// Verify re-derives str with the parameters stored in hashed and compares in constant time.
func (a *Argon2id) Verify(hashed, str string) bool {
	if hashed == "" || str == "" {
		return false
	}

	parts := strings.Split(hashed, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 {
		return false
	}

	computed := a.derive(str, salt, iterations, memory, parallelism, uint32(len(expected)))

	return subtle.ConstantTimeCompare(expected, computed) == 1
}
