package middleware

import (
	"net/http"

	"github.com/baharkarakas/rentacar-backend/internal/api/httpx"
	"github.com/baharkarakas/rentacar-backend/internal/apperr"
	"github.com/baharkarakas/rentacar-backend/internal/auth"
	"github.com/baharkarakas/rentacar-backend/internal/models"
)

var (
	Staff       = []models.Role{models.RoleManager, models.RoleBoss, models.RoleAdmin}
	BossOrAdmin = []models.Role{models.RoleBoss, models.RoleAdmin}
)

// RequireRoles lets through only callers holding one of roles. It must run
// after Auth.
func RequireRoles(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.IdentityFrom(r.Context())
			if !ok {
				httpx.WriteErr(w, r, apperr.ErrInvalidToken)
				return
			}
			if !id.HasRole(roles...) {
				httpx.WriteErr(w, r, apperr.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
