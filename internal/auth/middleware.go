package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/ovaphlow/pitchfork/service-pantry/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/utilities"
)

type ctxKey int

const userCtxKey ctxKey = iota

// ContextWithUser stores the authenticated account in ctx.
func ContextWithUser(ctx context.Context, u *entity.User) context.Context {
	return context.WithValue(ctx, userCtxKey, u)
}

// UserFromContext returns the account stored by the guard middleware.
func UserFromContext(ctx context.Context) (*entity.User, bool) {
	u, ok := ctx.Value(userCtxKey).(*entity.User)
	return u, ok && u != nil
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header.
func BearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Authenticated only lets requests through that carry a token for an active
// account. The account is available downstream through UserFromContext.
func (g *Guard) Authenticated() func(http.Handler) http.Handler {
	return g.middleware(false, nil)
}

// Authorized is Authenticated plus a role check against allowed, which
// defaults to administrators.
func (g *Guard) Authorized(allowed ...entity.Role) func(http.Handler) http.Handler {
	return g.middleware(true, allowed)
}

func (g *Guard) middleware(checkRole bool, allowed []entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := g.Authenticate(r.Context(), BearerToken(r))
			if err == nil && checkRole {
				err = g.Authorize(u, allowed...)
			}
			if err != nil {
				utilities.WriteError(w, g.logger, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), u)))
		})
	}
}
