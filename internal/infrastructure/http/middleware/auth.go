package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/iris/internal/domain"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/http/respond"
)

const bearerPrefix = "Bearer "

// IdentityResolver turns a bearer token into the caller's identity.
type IdentityResolver interface {
	Execute(ctx context.Context, token string) (*domain.Identity, error)
}

// Authenticate requires "Authorization: Bearer <token>" and attaches the
// resolved identity to the request context. The prefix is case-sensitive.
func Authenticate(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				respond.Err(w, r, domerrors.ErrMissingToken)
				return
			}
			id, err := resolver.Execute(r.Context(), strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				respond.Err(w, r, err)
				return
			}
			ctx := WithIdentity(r.Context(), id)
			ctx = zerolog.Ctx(ctx).With().Str("user_id", id.AccountID.String()).Logger().WithContext(ctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole passes only callers holding role. Use after Authenticate.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := IdentityFromContext(r.Context())
			if id == nil {
				respond.Err(w, r, domerrors.ErrUnauthenticated)
				return
			}
			if id.Role != role {
				respond.Err(w, r, domerrors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
