package inbound

import (
	"net/http"

	"github.com/shandysiswandi/resetmail/internal/pkg/router"
)

const (
	pathPasswordForgot = "/api/v1/admin/password/forgot"
	pathPasswordReset  = "/api/v1/admin/password/reset"
)

// PublicEndpoints lists the routes served without a bearer token.
func PublicEndpoints() map[string][]string {
	return map[string][]string{
		http.MethodPost: {pathPasswordForgot, pathPasswordReset},
	}
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST(pathPasswordForgot, end.PasswordForgot)
	r.POST(pathPasswordReset, end.PasswordReset)
}
