package event

const OtpIssuedDestination string = "recovery_otp_issued"

// OtpIssuedMessage asks a delivery worker to send a recovery code to an account's email.
type OtpIssuedMessage struct {
	AccountID int64  `json:"account_id"`
	Email     string `json:"email"`
	Code      string `json:"code"`
	ExpiresAt int64  `json:"expires_at"` // unix seconds
}
