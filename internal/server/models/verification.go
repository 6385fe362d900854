package models

import "time"

// Verification is a single-use email confirmation code bound to a user.
// User is populated only by lookups that join the owning account.
type Verification struct {
	ID        string
	Code      string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time

	User *User
}

// Expired reports whether the code can no longer be redeemed at now.
func (v *Verification) Expired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}
