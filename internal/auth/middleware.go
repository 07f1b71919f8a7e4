package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
)

const (
	AccessCookie  = "tss_access_token"
	RefreshCookie = "tss_refresh_token"
)

type ctxKey struct{}

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// CurrentUser returns the user set by Authenticate.
func CurrentUser(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*User)
	return u, ok && u != nil
}

func bearer(r *http.Request) string {
	if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if c, err := r.Cookie(AccessCookie); err == nil {
		return c.Value
	}
	return ""
}

// Authenticate resolves the bearer token (header or cookie) to a User.
func Authenticate(repo *Repository, tokens *Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			raw := bearer(r)
			if raw == "" {
				apperr.Write(w, r, apperr.Unauthenticated("Not authenticated"))
				return
			}
			userID, err := tokens.Parse(raw)
			if err != nil {
				apperr.Write(w, r, apperr.Unauthenticated("Could not validate credentials"))
				return
			}
			u, err := repo.UserByID(r.Context(), userID)
			if err != nil {
				apperr.Write(w, r, apperr.Unauthenticated("Could not validate credentials"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// Require rejects callers whose role ranks below need. It must run after Authenticate.
func Require(need Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			u, ok := CurrentUser(r.Context())
			if !ok {
				apperr.Write(w, r, apperr.Unauthenticated("Not authenticated"))
				return
			}
			if !Allows(u.Role, need) {
				apperr.Write(w, r, apperr.Forbidden("Insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
