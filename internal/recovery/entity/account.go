package entity

import "time"

// Account is the slice of a user account this module reads and writes.
type Account struct {
	ID           int64
	Email        string
	PasswordHash string
}

// OtpRecord is a stored one-time passcode. Code holds the keyed digest, never the raw code.
type OtpRecord struct {
	ID        int64
	AccountID int64
	Code      string
	ExpiresAt time.Time
}

// IsLive reports whether the record is still usable at now. The boundary instant is already expired.
func (o OtpRecord) IsLive(now time.Time) bool {
	return o.ExpiresAt.After(now)
}

// OtpDelivery is what an out-of-band channel needs to hand a fresh code to its owner.
type OtpDelivery struct {
	AccountID int64
	Email     string
	Code      string
	ExpiresAt time.Time
}
