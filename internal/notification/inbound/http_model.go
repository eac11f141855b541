package inbound

import "net/http"

type SendAdminPasswordResetRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Locale    string `json:"locale"`
	Token     string `json:"token"`
}

type SendAdminPasswordResetResponse struct {
	Email string `json:"email"`
}

func (SendAdminPasswordResetResponse) StatusCode() int { return http.StatusAccepted }

func (SendAdminPasswordResetResponse) Message() string { return "Password reset email has been sent" }

type SpoolCountResponse struct {
	Count int `json:"count"`
}

type FlushSpoolRequest struct {
	MessageLimit          int `json:"message_limit"`
	TimeLimitSeconds      int `json:"time_limit_seconds"`
	RecoverTimeoutSeconds int `json:"recover_timeout_seconds"`
}

type FlushSpoolResponse struct {
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
	Recovered int `json:"recovered"`
}

func (FlushSpoolResponse) Message() string { return "Spool has been flushed" }
