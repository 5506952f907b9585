package cart

import (
	"context"

	"github.com/andresvelez/golmarket-backend/internal/identity"
)

// Repository abstracts cart line persistence. Two implementations exist: the
// account-backed relational store and the guest session store. A missing cart
// reads as empty, never as an error, and every mutation is visible to the
// next GetLines call.
type Repository interface {
	GetLines(ctx context.Context, owner identity.Identity) ([]Line, error)
	// SetLineQuantity upserts the line for (ProductID, SizeVariant),
	// snapshotting the display fields from line on first insert. Quantities
	// of zero or less are rejected; callers remove lines explicitly.
	SetLineQuantity(ctx context.Context, owner identity.Identity, line Line) (*Line, error)
	// RemoveLine is idempotent; removing an absent line is a no-op.
	RemoveLine(ctx context.Context, owner identity.Identity, lineID string) error
	Clear(ctx context.Context, owner identity.Identity) error
}

// Selector picks the repository that is authoritative for an identity.
type Selector struct {
	account Repository
	guest   Repository
}

func NewSelector(account, guest Repository) *Selector {
	return &Selector{account: account, guest: guest}
}

// For returns the backend owning the identity's cart.
func (s *Selector) For(owner identity.Identity) Repository {
	if owner.IsAccount() {
		return s.account
	}
	return s.guest
}
