package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgerrors "github.com/andresvelez/golmarket-backend/pkg/errors"
)

type passthroughTx struct {
	db *gorm.DB
}

func (p passthroughTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(p.db)
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupProductTestDB(t)
	svc, err := NewService(NewRepository(db), passthroughTx{db: db})
	require.NoError(t, err)
	return svc, db
}

func TestServiceCreateAndGetProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:     "Guayos Clasicos",
		Category: "footwear",
		Price:    decimal.NewFromInt(250000),
		Stock:    8,
		Variants: []VariantInput{
			{Variant: "40", QuantityAvailable: 5},
			{Variant: "42", QuantityAvailable: 3},
		},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	assert.True(t, created.IsActive)

	fetched, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Guayos Clasicos", fetched.Name)
	assert.Len(t, fetched.Variants, 2)
}

func TestServiceCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"missing name", CreateProductInput{Category: "balls", Price: decimal.NewFromInt(1)}},
		{"missing category", CreateProductInput{Name: "Balon", Price: decimal.NewFromInt(1)}},
		{"negative price", CreateProductInput{Name: "Balon", Category: "balls", Price: decimal.NewFromInt(-1)}},
		{"negative stock", CreateProductInput{Name: "Balon", Category: "balls", Price: decimal.NewFromInt(1), Stock: -1}},
		{"duplicate variant", CreateProductInput{
			Name: "Camiseta", Category: "jerseys", Price: decimal.NewFromInt(1),
			Variants: []VariantInput{{Variant: "M"}, {Variant: "M"}},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestServiceUpdateProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:     "Camiseta Visitante",
		Category: "jerseys",
		Price:    decimal.NewFromInt(110000),
		Stock:    4,
	})
	require.NoError(t, err)

	newName := "Camiseta Visitante 2026"
	newStock := 9
	variants := []VariantInput{{Variant: "M", QuantityAvailable: 6}}

	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{
		Name:     &newName,
		Stock:    &newStock,
		Variants: &variants,
	})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, 9, updated.Stock)
	require.Len(t, updated.Variants, 1)
	assert.Equal(t, "M", updated.Variants[0].Variant)
}

func TestServiceDeactivateHidesFromCatalog(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:     "Medias Oficiales",
		Category: "accessories",
		Price:    decimal.NewFromInt(25000),
		Stock:    20,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateProduct(ctx, created.ID))

	listed, err := svc.ListCatalog(ctx, ListFilter{Category: "accessories"})
	require.NoError(t, err)
	assert.Empty(t, listed)
}
