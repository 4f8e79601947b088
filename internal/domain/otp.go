package domain

import "time"

// OTP is the pending verification code for an email. At most one record
// exists per email; reissuing replaces it. Attempts counts failed
// verifications since issuance.
type OTP struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
}
