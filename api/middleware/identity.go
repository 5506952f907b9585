package middleware

import (
	"context"
	"net/http"

	"github.com/andresvelez/golmarket-backend/api/responses"
	"github.com/andresvelez/golmarket-backend/internal/identity"
	pkgerrors "github.com/andresvelez/golmarket-backend/pkg/errors"
	"github.com/andresvelez/golmarket-backend/pkg/logger"
)

type contextKey string

const ctxIdentity contextKey = "identity"

// WithIdentity seeds the context with a resolved cart owner.
func WithIdentity(ctx context.Context, id identity.Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, id)
}

// IdentityFromContext returns the resolved cart owner, if any.
func IdentityFromContext(ctx context.Context) (identity.Identity, bool) {
	if ctx == nil {
		return identity.Identity{}, false
	}
	id, ok := ctx.Value(ctxIdentity).(identity.Identity)
	return id, ok
}

// Identity resolves the caller (bearer token or session header) and seeds the
// request context. Requests with neither credential are rejected.
func Identity(resolver *identity.Resolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := resolver.Resolve(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithIdentity(r.Context(), id)
			if logg != nil {
				if id.IsAccount() {
					ctx = logg.WithUserID(ctx, id.UserID.String())
				} else {
					ctx = logg.WithSessionID(ctx, id.SessionID)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAccount rejects guests; it expects Identity to have run first.
func RequireAccount(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok || !id.IsAccount() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "account credentials required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
