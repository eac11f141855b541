package inbound

import "net/http"

type PasswordForgotRequest struct {
	Email  string `json:"email"`
	Locale string `json:"locale"`
}

type PasswordForgotResponse struct{}

func (PasswordForgotResponse) StatusCode() int { return http.StatusAccepted }

func (PasswordForgotResponse) Message() string {
	return "If the account exists, a password reset link has been sent"
}

type PasswordResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type PasswordResetResponse struct{}

func (PasswordResetResponse) Message() string { return "Password has been reset" }
