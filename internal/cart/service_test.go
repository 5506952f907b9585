package cart

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresvelez/golmarket-backend/internal/identity"
	"github.com/andresvelez/golmarket-backend/pkg/db/models"
	pkgerrors "github.com/andresvelez/golmarket-backend/pkg/errors"
	"github.com/andresvelez/golmarket-backend/pkg/logger"
)

type stubProducts struct {
	byID map[uuid.UUID]*models.Product
}

func (s stubProducts) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.byID[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cart-test", Output: io.Discard})
}

func newCartService(t *testing.T, products map[uuid.UUID]*models.Product) Service {
	t.Helper()

	guest, err := NewGuestRepository(newMemoryKV(), 0)
	require.NoError(t, err)
	account := NewStoreRepository(setupCartTestDB(t))

	svc, err := NewService(NewSelector(account, guest), stubProducts{byID: products}, testLogger())
	require.NoError(t, err)
	return svc
}

func catalogProduct(stock int, variants ...models.SizeVariant) *models.Product {
	product := &models.Product{
		ID:        uuid.New(),
		Name:      "Camiseta Local 2026",
		Category:  "jerseys",
		Price:     decimal.NewFromInt(120000),
		Stock:     stock,
		ImageURLs: pq.StringArray{"https://cdn.example.com/jersey-front.jpg"},
		IsActive:  true,
		Variants:  variants,
	}
	for i := range product.Variants {
		product.Variants[i].ProductID = product.ID
	}
	return product
}

func TestAddToCartRejectsOutOfStock(t *testing.T) {
	product := catalogProduct(0)
	svc := newCartService(t, map[uuid.UUID]*models.Product{product.ID: product})

	_, err := svc.AddToCart(context.Background(), identity.Guest("sess-1"), AddInput{
		ProductID: product.ID,
		Quantity:  1,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeOutOfStock, typed.Code())
}

func TestAddToCartGuestMergeScenario(t *testing.T) {
	product := catalogProduct(5)
	svc := newCartService(t, map[uuid.UUID]*models.Product{product.ID: product})
	owner := identity.Guest("sess-merge")
	ctx := context.Background()

	first, err := svc.AddToCart(ctx, owner, AddInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)

	second, err := svc.AddToCart(ctx, owner, AddInput{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, second.Quantity)
	assert.Equal(t, first.ID, second.ID)

	// cart holds all available stock now
	_, err = svc.AddToCart(ctx, owner, AddInput{ProductID: product.ID, Quantity: 1})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStockExhausted, typed.Code())
	details, ok := typed.Details().(map[string]int)
	require.True(t, ok)
	assert.Equal(t, 0, details["available"])
}

func TestAddToCartInsufficientStockAbortsEntirely(t *testing.T) {
	product := catalogProduct(5)
	svc := newCartService(t, map[uuid.UUID]*models.Product{product.ID: product})
	owner := identity.Guest("sess-partial")
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, owner, AddInput{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	_, err = svc.AddToCart(ctx, owner, AddInput{ProductID: product.ID, Quantity: 4})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
	details, ok := typed.Details().(map[string]int)
	require.True(t, ok)
	assert.Equal(t, 2, details["available"])

	// no partial amount was added
	lines, err := svc.GetLines(ctx, owner)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestAddToCartVariantIsolationScenario(t *testing.T) {
	product := catalogProduct(10,
		models.SizeVariant{ID: uuid.New(), Variant: "M", QuantityAvailable: 2},
		models.SizeVariant{ID: uuid.New(), Variant: "L", QuantityAvailable: 2},
	)
	svc := newCartService(t, map[uuid.UUID]*models.Product{product.ID: product})
	owner := identity.Guest("sess-variants")
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, owner, AddInput{ProductID: product.ID, SizeVariant: strPtr("M"), Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, owner, AddInput{ProductID: product.ID, SizeVariant: strPtr("L"), Quantity: 1})
	require.NoError(t, err)

	// M is exhausted, L still addable
	_, err = svc.AddToCart(ctx, owner, AddInput{ProductID: product.ID, SizeVariant: strPtr("M"), Quantity: 1})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStockExhausted, typed.Code())

	_, err = svc.AddToCart(ctx, owner, AddInput{ProductID: product.ID, SizeVariant: strPtr("L"), Quantity: 1})
	require.NoError(t, err)

	total, err := svc.CountTotalItems(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}

func TestAddToCartMergeCorrectness(t *testing.T) {
	product := catalogProduct(10)
	svc := newCartService(t, map[uuid.UUID]*models.Product{product.ID: product})
	owner := identity.Guest("sess-sum")
	ctx := context.Background()

	requests := []int{1, 2, 3, 4}
	for _, quantity := range requests {
		_, err := svc.AddToCart(ctx, owner, AddInput{ProductID: product.ID, Quantity: quantity})
		require.NoError(t, err)
	}

	lines, err := svc.GetLines(ctx, owner)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 10, lines[0].Quantity)
}

func TestAddToCartUnknownVariant(t *testing.T) {
	product := catalogProduct(5, models.SizeVariant{ID: uuid.New(), Variant: "M", QuantityAvailable: 5})
	svc := newCartService(t, map[uuid.UUID]*models.Product{product.ID: product})

	_, err := svc.AddToCart(context.Background(), identity.Guest("sess-1"), AddInput{
		ProductID:   product.ID,
		SizeVariant: strPtr("XL"),
		Quantity:    1,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestAddToCartSnapshotsPriceAndName(t *testing.T) {
	product := catalogProduct(5)
	svc := newCartService(t, map[uuid.UUID]*models.Product{product.ID: product})
	owner := identity.Guest("sess-snap")

	stored, err := svc.AddToCart(context.Background(), owner, AddInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	assert.True(t, stored.UnitPrice.Equal(decimal.NewFromInt(120000)))
	assert.Equal(t, "Camiseta Local 2026", stored.ProductName)
	require.NotNil(t, stored.ProductImage)
	assert.Equal(t, "https://cdn.example.com/jersey-front.jpg", *stored.ProductImage)
}

func TestSetLineQuantityRejectsNonPositive(t *testing.T) {
	product := catalogProduct(5)
	svc := newCartService(t, map[uuid.UUID]*models.Product{product.ID: product})

	_, err := svc.SetLineQuantity(context.Background(), identity.Guest("sess-1"), product.ID, nil, 0)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSetLineQuantityEnforcesStockCeiling(t *testing.T) {
	product := catalogProduct(5)
	svc := newCartService(t, map[uuid.UUID]*models.Product{product.ID: product})
	owner := identity.Guest("sess-set")
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, owner, AddInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = svc.SetLineQuantity(ctx, owner, product.ID, nil, 999)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
	details, ok := typed.Details().(map[string]int)
	require.True(t, ok)
	assert.Equal(t, 5, details["available"])

	// the rejected set left the line untouched
	lines, err := svc.GetLines(ctx, owner)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)

	// an absolute set within the ceiling succeeds
	stored, err := svc.SetLineQuantity(ctx, owner, product.ID, nil, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Quantity)
}

func TestSetLineQuantityVariantAndActiveGuards(t *testing.T) {
	product := catalogProduct(10, models.SizeVariant{ID: uuid.New(), Variant: "M", QuantityAvailable: 2})
	inactive := catalogProduct(10)
	inactive.IsActive = false
	svc := newCartService(t, map[uuid.UUID]*models.Product{
		product.ID:  product,
		inactive.ID: inactive,
	})
	owner := identity.Guest("sess-set-guards")
	ctx := context.Background()

	_, err := svc.SetLineQuantity(ctx, owner, product.ID, strPtr("M"), 3)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())

	_, err = svc.SetLineQuantity(ctx, owner, product.ID, strPtr("XL"), 1)
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.SetLineQuantity(ctx, owner, inactive.ID, nil, 1)
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRemoveLineIdempotentThroughService(t *testing.T) {
	product := catalogProduct(5)
	svc := newCartService(t, map[uuid.UUID]*models.Product{product.ID: product})
	owner := identity.Guest("sess-rm")
	ctx := context.Background()

	stored, err := svc.AddToCart(ctx, owner, AddInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveLine(ctx, owner, stored.ID))
	require.NoError(t, svc.RemoveLine(ctx, owner, stored.ID))

	total, err := svc.CountTotalItems(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestNotifierPublishesRecounts(t *testing.T) {
	product := catalogProduct(5)
	svc := newCartService(t, map[uuid.UUID]*models.Product{product.ID: product})
	owner := identity.Guest("sess-badge")
	ctx := context.Background()

	var events []RecountEvent
	cancel := svc.Notifier().Subscribe(func(event RecountEvent) {
		events = append(events, event)
	})
	defer cancel()

	_, err := svc.AddToCart(ctx, owner, AddInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, owner, AddInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, owner))

	require.Len(t, events, 3)
	assert.Equal(t, 2, events[0].TotalItems)
	assert.Equal(t, 3, events[1].TotalItems)
	assert.Equal(t, 0, events[2].TotalItems)
	assert.Equal(t, owner, events[0].Owner)

	// a cancelled subscription stops receiving
	cancel()
	_, err = svc.AddToCart(ctx, owner, AddInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestCountTotalItemsFollowsIdentityBackend(t *testing.T) {
	product := catalogProduct(5)
	svc := newCartService(t, map[uuid.UUID]*models.Product{product.ID: product})
	ctx := context.Background()

	guest := identity.Guest("sess-switch")
	account := identity.Account(uuid.New())

	_, err := svc.AddToCart(ctx, guest, AddInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	guestTotal, err := svc.CountTotalItems(ctx, guest)
	require.NoError(t, err)
	assert.Equal(t, 2, guestTotal)

	// logging in switches the authoritative backend; the account cart is its own
	accountTotal, err := svc.CountTotalItems(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, 0, accountTotal)

	_, err = svc.AddToCart(ctx, account, AddInput{ProductID: product.ID, Quantity: 4})
	require.NoError(t, err)

	accountTotal, err = svc.CountTotalItems(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, 4, accountTotal)
}
