package auth

import (
	"context"

	"github.com/baharkarakas/rentacar-backend/internal/models"
)

// Identity is the authenticated caller of a service operation.
type Identity struct {
	UserID string
	Role   models.Role
}

// HasRole reports whether the caller holds one of roles.
func (i Identity) HasRole(roles ...models.Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

func (i Identity) Staff() bool { return i.Role.Staff() }

// Owns reports whether the caller is userID or a staff member acting for them.
func (i Identity) Owns(userID string) bool { return i.UserID == userID || i.Staff() }

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.UserID != ""
}
