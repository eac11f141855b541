package inbound

import (
	"github.com/shandysiswandi/resetmail/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/notification/admin-password-reset", end.SendAdminPasswordReset)

	r.GET("/api/v1/notification/spool", end.CountSpool)
	r.POST("/api/v1/notification/spool/flush", end.FlushSpool)
	r.DELETE("/api/v1/notification/spool", end.ClearSpool)
}
