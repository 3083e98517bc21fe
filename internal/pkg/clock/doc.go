// Package clock provides a tiny time abstraction.
//
// Production code should depend on the Clocker interface instead of calling
// time.Now() directly. OTP expiry is decided against Clocker.Now, so tests pin
// the time with a Frozen clock and move it across the expiry boundary.
package clock
