// Package otp generates short numeric one-time passcodes.
//
// Codes are sampled uniformly over the full range for the configured number of
// digits (leading zeros allowed) from crypto/rand, and rendered with the
// zero-padding rules of github.com/pquerna/otp.
package otp
