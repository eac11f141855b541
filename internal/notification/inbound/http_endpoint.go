package inbound

import (
	"time"

	"github.com/shandysiswandi/resetmail/internal/notification/usecase"
	"github.com/shandysiswandi/resetmail/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// SendAdminPasswordReset sends the admin password reset email immediately.
// @Summary Send admin password reset email
// @Description Composes the localized reset email and hands it to the configured transport.
// @Tags Notification
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body SendAdminPasswordResetRequest true "Recipient and token"
// @Success 202 {object} router.successResponse{data=SendAdminPasswordResetResponse} "Accepted"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 503 {object} router.errorResponse "Mail transport unavailable"
// @Router /api/v1/notification/admin-password-reset [post]
func (h *HTTPEndpoint) SendAdminPasswordReset(r *router.Request) (any, error) {
	var req SendAdminPasswordResetRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.SendAdminPasswordReset(r.Context(), usecase.SendAdminPasswordResetInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Locale:    req.Locale,
		Token:     req.Token,
	}); err != nil {
		return nil, err
	}

	return SendAdminPasswordResetResponse{Email: req.Email}, nil
}

// CountSpool returns the number of spooled messages.
// @Summary Count spooled emails
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=SpoolCountResponse} "Spool size"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 503 {object} router.errorResponse "Spool disabled"
// @Router /api/v1/notification/spool [get]
func (h *HTTPEndpoint) CountSpool(r *router.Request) (any, error) {
	n, err := h.uc.CountSpool(r.Context())
	if err != nil {
		return nil, err
	}

	return SpoolCountResponse{Count: n}, nil
}

// FlushSpool delivers spooled messages once.
// @Summary Flush the email spool
// @Tags Notification
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body FlushSpoolRequest false "Flush limits"
// @Success 200 {object} router.successResponse{data=FlushSpoolResponse} "Flush result"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 503 {object} router.errorResponse "Spool disabled"
// @Router /api/v1/notification/spool/flush [post]
func (h *HTTPEndpoint) FlushSpool(r *router.Request) (any, error) {
	var req FlushSpoolRequest
	if r.ContentLength != 0 {
		if err := r.DecodeBody(&req); err != nil {
			return nil, err
		}
	}

	out, err := h.uc.FlushSpool(r.Context(), usecase.FlushSpoolInput{
		MessageLimit:   req.MessageLimit,
		TimeLimit:      time.Duration(req.TimeLimitSeconds) * time.Second,
		RecoverTimeout: time.Duration(req.RecoverTimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	return FlushSpoolResponse{Sent: out.Sent, Failed: out.Failed, Recovered: out.Recovered}, nil
}

// ClearSpool drops every spooled message.
// @Summary Clear the email spool
// @Tags Notification
// @Security BearerAuth
// @Success 204 "Spool cleared"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 503 {object} router.errorResponse "Spool disabled"
// @Router /api/v1/notification/spool [delete]
func (h *HTTPEndpoint) ClearSpool(r *router.Request) (any, error) {
	if err := h.uc.ClearSpool(r.Context()); err != nil {
		return nil, err
	}

	return nil, nil
}
