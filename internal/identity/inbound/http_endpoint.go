package inbound

import (
	"github.com/shandysiswandi/resetmail/internal/identity/usecase"
	"github.com/shandysiswandi/resetmail/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// PasswordForgot starts the admin password reset flow.
// @Summary Request an admin password reset
// @Description Always answers 202 so callers cannot probe which emails exist.
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body PasswordForgotRequest true "Admin email and optional locale"
// @Success 202 {object} router.successResponse{data=PasswordForgotResponse} "Accepted"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/admin/password/forgot [post]
func (h *HTTPEndpoint) PasswordForgot(r *router.Request) (any, error) {
	var req PasswordForgotRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.RequestPasswordReset(r.Context(), usecase.RequestPasswordResetInput{
		Email:  req.Email,
		Locale: req.Locale,
	}); err != nil {
		return nil, err
	}

	return PasswordForgotResponse{}, nil
}

// PasswordReset sets a new password using the emailed token.
// @Summary Reset an admin password
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body PasswordResetRequest true "Reset token and new password"
// @Success 200 {object} router.successResponse{data=PasswordResetResponse} "Password changed"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid or expired token"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/admin/password/reset [post]
func (h *HTTPEndpoint) PasswordReset(r *router.Request) (any, error) {
	var req PasswordResetRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.ResetPassword(r.Context(), usecase.ResetPasswordInput{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	}); err != nil {
		return nil, err
	}

	return PasswordResetResponse{}, nil
}
