// Package identity resolves who a request acts as: an authenticated account
// (via a bearer JWT) or an anonymous guest session (via a session id header).
// The rest of the service treats the resolved identity as opaque.
package identity

import (
	"github.com/google/uuid"

	"github.com/andresvelez/golmarket-backend/pkg/enums"
)

// Identity names the owner of a cart. Exactly one of UserID/SessionID is
// meaningful depending on Kind.
type Identity struct {
	Kind      enums.IdentityKind
	UserID    uuid.UUID
	SessionID string
}

// IsAccount reports whether the identity belongs to a logged-in user.
func (i Identity) IsAccount() bool {
	return i.Kind == enums.IdentityKindAccount
}

// Key returns a stable string identifying the cart owner, used in logs.
func (i Identity) Key() string {
	if i.IsAccount() {
		return i.UserID.String()
	}
	return i.SessionID
}

// Guest builds a guest identity for the given session id.
func Guest(sessionID string) Identity {
	return Identity{Kind: enums.IdentityKindGuest, SessionID: sessionID}
}

// Account builds an account identity for the given user id.
func Account(userID uuid.UUID) Identity {
	return Identity{Kind: enums.IdentityKindAccount, UserID: userID}
}
