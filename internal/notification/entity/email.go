package entity

type EmailCode string

const (
	EmailCodeAdminPasswordReset EmailCode = "admin_password_reset"
)

func (c EmailCode) String() string {
	return string(c)
}

// HeaderEmailCode tags outgoing messages with their EmailCode.
const HeaderEmailCode = "X-Email-Code"

// Catalog keys of the admin password reset email.
const (
	KeyAdminPasswordResetSubject      = "sylius.email.admin_password_reset.subject"
	KeyAdminPasswordResetHello        = "sylius.email.admin_password_reset.hello"
	KeyAdminPasswordResetPrompt       = "sylius.email.admin_password_reset.to_reset_your_password_token"
	KeyAdminPasswordResetButton       = "sylius.email.admin_password_reset.reset_password"
	KeyAdminPasswordResetIgnoreNotice = "sylius.email.admin_password_reset.ignore"
)
