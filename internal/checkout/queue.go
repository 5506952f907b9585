package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andresvelez/golmarket-backend/pkg/db/models"
	"github.com/andresvelez/golmarket-backend/pkg/redis"
)

// TierLocalQueue names the last-resort persistence tier.
const TierLocalQueue = "local_queue"

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// PendingQueue is the tertiary tier: when both remote writes fail, the whole
// order (header plus lines) is appended to a JSON array under the pending
// orders key and left for manual follow-up.
type PendingQueue struct {
	kv  kvStore
	ttl time.Duration
	now func() time.Time
}

func NewPendingQueue(kv kvStore, ttl time.Duration) (*PendingQueue, error) {
	if kv == nil {
		return nil, fmt.Errorf("kv store required")
	}
	return &PendingQueue{kv: kv, ttl: ttl, now: time.Now}, nil
}

func (q *PendingQueue) Name() string {
	return TierLocalQueue
}

// WriteOrder appends the full order payload to the queue. Lines travel with
// the header here, so WriteLine is a no-op for this tier.
func (q *PendingQueue) WriteOrder(ctx context.Context, order *models.Order) error {
	pending, err := q.List(ctx)
	if err != nil {
		return err
	}
	pending = append(pending, pendingFrom(order, q.now().UTC()))

	payload, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("encoding pending orders: %w", err)
	}
	return q.kv.Set(ctx, redis.PendingOrdersKey(), string(payload), q.ttl)
}

func (q *PendingQueue) WriteLine(ctx context.Context, line *models.OrderLine) error {
	return nil
}

// List returns the queued orders awaiting manual reconciliation.
func (q *PendingQueue) List(ctx context.Context) ([]PendingLocalOrder, error) {
	raw, err := q.kv.Get(ctx, redis.PendingOrdersKey())
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var pending []PendingLocalOrder
	if err := json.Unmarshal([]byte(raw), &pending); err != nil {
		return nil, fmt.Errorf("decoding pending orders: %w", err)
	}
	return pending, nil
}
