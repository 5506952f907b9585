package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andresvelez/golmarket-backend/internal/identity"
	pkgerrors "github.com/andresvelez/golmarket-backend/pkg/errors"
	"github.com/andresvelez/golmarket-backend/pkg/redis"
)

// kvStore is the key-value surface the guest backend needs; pkg/redis.Client
// satisfies it.
type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// GuestRepository holds device-scoped carts as JSON arrays under the guest
// cart key for the session. A missing key reads as an empty cart.
type GuestRepository struct {
	kv  kvStore
	ttl time.Duration
}

// NewGuestRepository builds the guest backend. A zero ttl keeps carts until
// explicitly cleared.
func NewGuestRepository(kv kvStore, ttl time.Duration) (*GuestRepository, error) {
	if kv == nil {
		return nil, fmt.Errorf("kv store required")
	}
	return &GuestRepository{kv: kv, ttl: ttl}, nil
}

func requireGuest(owner identity.Identity) error {
	if owner.IsAccount() || owner.SessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "guest identity required")
	}
	return nil
}

func (r *GuestRepository) load(ctx context.Context, sessionID string) ([]Line, error) {
	raw, err := r.kv.Get(ctx, redis.GuestCartKey(sessionID))
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("decoding guest cart: %w", err)
	}
	return lines, nil
}

func (r *GuestRepository) save(ctx context.Context, sessionID string, lines []Line) error {
	if len(lines) == 0 {
		return r.kv.Del(ctx, redis.GuestCartKey(sessionID))
	}

	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encoding guest cart: %w", err)
	}
	return r.kv.Set(ctx, redis.GuestCartKey(sessionID), string(payload), r.ttl)
}

// GetLines returns the session's cart lines.
func (r *GuestRepository) GetLines(ctx context.Context, owner identity.Identity) ([]Line, error) {
	if err := requireGuest(owner); err != nil {
		return nil, err
	}
	return r.load(ctx, owner.SessionID)
}

// SetLineQuantity upserts the line keyed by (product, variant).
func (r *GuestRepository) SetLineQuantity(ctx context.Context, owner identity.Identity, line Line) (*Line, error) {
	if err := requireGuest(owner); err != nil {
		return nil, err
	}
	if line.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	lines, err := r.load(ctx, owner.SessionID)
	if err != nil {
		return nil, err
	}

	var stored *Line
	for i := range lines {
		if lines[i].Matches(line.ProductID, line.SizeVariant) {
			lines[i].Quantity = line.Quantity
			stored = &lines[i]
			break
		}
	}
	if stored == nil {
		line.ID = uuid.NewString()
		lines = append(lines, line)
		stored = &lines[len(lines)-1]
	}

	if err := r.save(ctx, owner.SessionID, lines); err != nil {
		return nil, err
	}

	result := *stored
	return &result, nil
}

// RemoveLine deletes a line by id; absent lines are a no-op.
func (r *GuestRepository) RemoveLine(ctx context.Context, owner identity.Identity, lineID string) error {
	if err := requireGuest(owner); err != nil {
		return err
	}

	lines, err := r.load(ctx, owner.SessionID)
	if err != nil {
		return err
	}

	kept := lines[:0]
	for _, line := range lines {
		if line.ID != lineID {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(lines) {
		return nil
	}
	return r.save(ctx, owner.SessionID, kept)
}

// Clear drops the session's cart key.
func (r *GuestRepository) Clear(ctx context.Context, owner identity.Identity) error {
	if err := requireGuest(owner); err != nil {
		return err
	}
	return r.kv.Del(ctx, redis.GuestCartKey(owner.SessionID))
}
