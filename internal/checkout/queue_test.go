package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresvelez/golmarket-backend/pkg/db/models"
	"github.com/andresvelez/golmarket-backend/pkg/enums"
	"github.com/andresvelez/golmarket-backend/pkg/redis"
)

type memoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: map[string]string{}}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (m *memoryKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.(string)
	return nil
}

func (m *memoryKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func sampleOrder() *models.Order {
	orderID := uuid.New()
	variant := "M"
	return &models.Order{
		ID:              orderID,
		CustomerName:    "Ana Torres",
		CustomerPhone:   "+573001234567",
		ShippingAddress: "Calle 10 #5-21, Bogota",
		PaymentMethod:   enums.PaymentMethodNequi,
		Status:          enums.OrderStatusPending,
		Total:           decimal.NewFromInt(240000),
		Lines: []models.OrderLine{
			{
				ID:          uuid.New(),
				OrderID:     orderID,
				ProductID:   uuid.New(),
				SizeVariant: &variant,
				Quantity:    2,
				UnitPrice:   decimal.NewFromInt(120000),
				ProductName: "Camiseta Local 2026",
			},
		},
	}
}

func TestPendingQueueAppendsAndLists(t *testing.T) {
	t.Parallel()

	queue, err := NewPendingQueue(newMemoryKV(), 0)
	require.NoError(t, err)
	ctx := context.Background()

	first := sampleOrder()
	second := sampleOrder()

	require.NoError(t, queue.WriteOrder(ctx, first))
	require.NoError(t, queue.WriteOrder(ctx, second))

	pending, err := queue.List(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].Order.ID)
	assert.Equal(t, second.ID, pending[1].Order.ID)
	require.Len(t, pending[0].Lines, 1)
	assert.Equal(t, "120000.00", pending[0].Lines[0].UnitPrice)
	assert.False(t, pending[0].QueuedAt.IsZero())
}

func TestPendingQueueEmptyList(t *testing.T) {
	t.Parallel()

	queue, err := NewPendingQueue(newMemoryKV(), 0)
	require.NoError(t, err)

	pending, err := queue.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPendingQueueWriteLineIsNoop(t *testing.T) {
	t.Parallel()

	queue, err := NewPendingQueue(newMemoryKV(), 0)
	require.NoError(t, err)
	require.NoError(t, queue.WriteLine(context.Background(), &models.OrderLine{}))
}
