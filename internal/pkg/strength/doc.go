// Package strength grades candidate passwords into coarse tiers.
//
// The grade depends only on the rune length of the password and on how many of
// four character classes (lowercase, uppercase, digit, other) appear at least
// once. It performs no I/O and keeps no state.
package strength
