// Package hash provides helpers for hashing and verifying secrets.
//
// Passwords go through a salted, slow hasher (bcrypt or Argon2id) picked by
// NewPassword: store only the hash, then verify input against it. One-time
// passcodes go through HMACSHA256, whose deterministic digest can be matched
// in a query without keeping the raw code at rest.
package hash
