package identity

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/andresvelez/golmarket-backend/pkg/config"
	pkgerrors "github.com/andresvelez/golmarket-backend/pkg/errors"
)

// SessionHeader names the header guest clients use to scope their cart.
const SessionHeader = "X-Session-Id"

// Resolver turns an incoming request into an Identity. A valid bearer token
// wins over a session header; with neither present the request has no cart
// owner and resolution fails.
type Resolver struct {
	jwtCfg config.JWTConfig
}

func NewResolver(jwtCfg config.JWTConfig) *Resolver {
	return &Resolver{jwtCfg: jwtCfg}
}

// Resolve extracts the caller identity from request headers.
func (r *Resolver) Resolve(req *http.Request) (Identity, error) {
	if token := bearerToken(req); token != "" {
		claims, err := ParseAccessToken(r.jwtCfg, token)
		if err != nil {
			return Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
		}
		if claims.UserID == uuid.Nil {
			return Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "token has no user id")
		}
		return Account(claims.UserID), nil
	}

	if sessionID := strings.TrimSpace(req.Header.Get(SessionHeader)); sessionID != "" {
		return Guest(sessionID), nil
	}

	return Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials or session id")
}

// ResolveAccount requires a valid bearer token; guests are rejected.
func (r *Resolver) ResolveAccount(req *http.Request) (Identity, error) {
	id, err := r.Resolve(req)
	if err != nil {
		return Identity{}, err
	}
	if !id.IsAccount() {
		return Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "account credentials required")
	}
	return id, nil
}

func bearerToken(req *http.Request) string {
	raw := strings.TrimSpace(req.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return ""
}
