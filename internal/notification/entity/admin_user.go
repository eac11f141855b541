package entity

import "strings"

// AdminUser is the part of an administrator account the reset email needs.
type AdminUser struct {
	ID         int64
	Email      string
	Username   string
	FirstName  string
	LastName   string
	LocaleCode string
	// PasswordResetToken is the plaintext token embedded in the reset link.
	PasswordResetToken string
}

// DisplayName is the name used in the greeting line.
func (u AdminUser) DisplayName() string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	if u.Username != "" {
		return u.Username
	}
	return strings.TrimSpace(u.Email)
}
