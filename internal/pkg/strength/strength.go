package strength

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Tier is a coarse password quality grade. Tiers are ordered: a higher value is stronger.
type Tier int

const (
	Weak Tier = iota
	Fair
	Strong
	VeryStrong
)

func (t Tier) String() string {
	switch t {
	case Fair:
		return "Fair"
	case Strong:
		return "Strong"
	case VeryStrong:
		return "VeryStrong"
	default:
		return "Weak"
	}
}

// MarshalText renders the tier by name, so JSON payloads carry "Strong" rather than 2.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// AtLeast reports whether t meets min.
func (t Tier) AtLeast(min Tier) bool {
	return t >= min
}

// ParseTier accepts a tier name case-insensitively; "very_strong" and "very-strong" work too.
func ParseTier(s string) (Tier, error) {
	norm := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch norm {
	case "weak", "":
		return Weak, nil
	case "fair":
		return Fair, nil
	case "strong":
		return Strong, nil
	case "verystrong":
		return VeryStrong, nil
	default:
		return Weak, fmt.Errorf("strength: unknown tier %q", s)
	}
}

// Score returns the number of character classes present in password, in [0,4].
// Repeats within a class count once.
func Score(password string) int {
	var lower, upper, digit, other bool

	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			other = true
		}
	}

	score := 0
	for _, ok := range [...]bool{lower, upper, digit, other} {
		if ok {
			score++
		}
	}

	return score
}

// Classify grades password. The most demanding rule that matches wins.
func Classify(password string) Tier {
	length := utf8.RuneCountInString(password)
	classes := Score(password)

	switch {
	case length >= 16 && classes == 4:
		return VeryStrong
	case length >= 12 && classes >= 3:
		return Strong
	case length >= 8 && classes >= 2:
		return Fair
	default:
		return Weak
	}
}
