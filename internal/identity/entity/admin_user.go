package entity

import "time"

type AdminUser struct {
	ID                     int64
	Email                  string
	Username               string
	FirstName              string
	LastName               string
	LocaleCode             string
	Enabled                bool
	PasswordHash           string
	PasswordResetTokenHash string
	PasswordRequestedAt    *time.Time
	UpdatedAt              time.Time
}

// PasswordResetExpired reports whether the pending reset request is older
// than ttl at now. A user without a pending request is always expired.
func (u AdminUser) PasswordResetExpired(now time.Time, ttl time.Duration) bool {
	if u.PasswordResetTokenHash == "" || u.PasswordRequestedAt == nil {
		return true
	}
	return !now.Before(u.PasswordRequestedAt.Add(ttl))
}

// PasswordResetRequest is stored when a reset is requested.
type PasswordResetRequest struct {
	UserID      int64
	TokenHash   string
	RequestedAt time.Time
}

// PasswordReset replaces the password and consumes the request token.
type PasswordReset struct {
	UserID       int64
	TokenHash    string
	PasswordHash string
	UpdatedAt    time.Time
}
