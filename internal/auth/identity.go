package auth

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"github.com/muraken91/day-88-cafes-wifi-website/internal/models"
)

type ctxKey string

const identityCtxKey = ctxKey("identity")

// Identity is the principal attached to a request. The zero value is the
// Anonymous sentinel: callers always get a usable Identity back and can ask
// Authenticated() instead of special-casing nil.
type Identity struct {
	ID    uint
	Email string
	Name  string
}

// Anonymous is the unauthenticated principal.
var Anonymous = Identity{}

// Authenticated reports whether this identity belongs to a logged-in user.
func (i Identity) Authenticated() bool { return i.ID != 0 }

// WithIdentity stores the identity in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, id)
}

// IdentityFrom extracts the request identity, Anonymous when none was set.
func IdentityFrom(ctx context.Context) Identity {
	if v, ok := ctx.Value(identityCtxKey).(Identity); ok {
		return v
	}
	return Anonymous
}

// Middleware resolves the session cookie to a full identity. A cookie
// pointing at a user row that no longer exists is treated as an invalid
// session: the cookie is cleared and the request proceeds as Anonymous.
func Middleware(conn *gorm.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, ok := ParseSession(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			var user models.User
			if err := conn.First(&user, uid).Error; err != nil {
				ClearSession(w)
				next.ServeHTTP(w, r)
				return
			}
			id := Identity{ID: user.ID, Email: user.Email, Name: user.Name}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAuth redirects anonymous requests to /login.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IdentityFrom(r.Context()).Authenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
