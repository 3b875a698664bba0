package middleware

import (
	"context"

	"github.com/amirhosseinghanipour/iris/internal/domain"
)

type contextKey string

const identityContextKey contextKey = "identity"

// WithIdentity attaches the authenticated caller to ctx.
func WithIdentity(ctx context.Context, id *domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext returns the authenticated caller, or nil.
func IdentityFromContext(ctx context.Context) *domain.Identity {
	id, _ := ctx.Value(identityContextKey).(*domain.Identity)
	return id
}
