package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/baharkarakas/rentacar-backend/internal/api/httpx"
	"github.com/baharkarakas/rentacar-backend/internal/apperr"
	"github.com/baharkarakas/rentacar-backend/internal/auth"
	"github.com/baharkarakas/rentacar-backend/internal/models"
	repo "github.com/baharkarakas/rentacar-backend/internal/repository"
)

// UserLookup is the slice of the users repository Auth needs.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

type AuthMiddleware struct {
	TM    *auth.TokenManager
	Users UserLookup
}

// NewAuthMiddleware checks tokens against tm. When users is non-nil every
// request also re-reads the account, so deletion, locking and role changes
// apply before the access token expires.
func NewAuthMiddleware(tm *auth.TokenManager, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{TM: tm, Users: users}
}

// Auth requires a bearer access token and puts the caller's identity on the
// request context.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
			httpx.WriteErr(w, r, apperr.ErrInvalidToken.WithMsg("Missing bearer token"))
			return
		}
		token := strings.TrimSpace(ah[len("Bearer "):])

		claims, err := m.TM.ParseAccess(token)
		if err != nil {
			httpx.WriteErr(w, r, apperr.ErrInvalidToken)
			return
		}
		id := claims.Identity()

		if m.Users != nil {
			u, err := m.Users.GetByID(r.Context(), id.UserID)
			switch {
			case errors.Is(err, repo.ErrNotFound):
				httpx.WriteErr(w, r, apperr.ErrInvalidToken.WithMsg("User no longer exists"))
				return
			case err != nil:
				httpx.WriteErr(w, r, apperr.Internal(err))
				return
			case u.Status == models.UserLocked:
				httpx.WriteErr(w, r, apperr.ErrAccountLocked)
				return
			}
			id.Role = u.Role
		}

		ctx := auth.WithIdentity(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
