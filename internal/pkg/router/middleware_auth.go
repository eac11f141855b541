package router

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/shandysiswandi/resetmail/internal/pkg/jwt"
)

// Enforcer decides whether a role may perform an action on an object.
type Enforcer interface {
	Enforce(rvals ...any) (bool, error)
}

func isPublic(publicEndpoints map[string]map[string]struct{}, method, path string) bool {
	s, ok := publicEndpoints[method]
	if !ok {
		return false
	}
	_, public := s[path]
	return public
}

func middlewareAuthentication(verifier jwt.JWT, publicEndpoints map[string]map[string]struct{}) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(publicEndpoints, r.Method, matchedRoutePath(r)) {
				next.ServeHTTP(w, r)
				return
			}

			if verifier == nil {
				writeJSON(w, errorResponse{Message: "Authentication is not configured"}, http.StatusUnauthorized)
				return
			}

			p := strings.Fields(r.Header.Get("Authorization"))
			if len(p) != 2 || !strings.EqualFold(p[0], "Bearer") {
				writeJSON(w, errorResponse{Message: "Authentication required"}, http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(p[1])
			if err != nil {
				writeJSON(w, errorResponse{Message: "Invalid or expired token"}, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(jwt.SetAuth(r.Context(), claims)))
		})
	}
}

// middlewareAuthorization checks the authenticated role against the policy
// (role, request path, method). Requests without claims are public routes.
func middlewareAuthorization(enforcer Enforcer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := jwt.GetAuth(r.Context())
			if claims == nil || enforcer == nil {
				next.ServeHTTP(w, r)
				return
			}

			allowed, err := enforcer.Enforce(claims.Role, r.URL.Path, r.Method)
			if err != nil {
				slog.ErrorContext(r.Context(), "failed to enforce policy", "role", claims.Role, "error", err)
				writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
				return
			}
			if !allowed {
				writeJSON(w, errorResponse{Message: "Forbidden"}, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
