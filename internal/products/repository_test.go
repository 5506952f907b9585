package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/andresvelez/golmarket-backend/pkg/db/models"
	pkgerrors "github.com/andresvelez/golmarket-backend/pkg/errors"
)

func setupProductTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:products_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT NOT NULL,
  price TEXT NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  image_urls TEXT,
  supplier_id TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	sizeVariants := `
CREATE TABLE IF NOT EXISTS size_variants (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  variant TEXT NOT NULL,
  quantity_available INTEGER NOT NULL DEFAULT 0,
  updated_at DATETIME
);`

	for _, ddl := range []string{products, sizeVariants} {
		require.NoError(t, db.Exec(ddl).Error)
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM size_variants")
		db.Exec("DELETE FROM products")
	})

	return db
}

func seedProduct(t *testing.T, db *gorm.DB, stock int, variants ...models.SizeVariant) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:        uuid.New(),
		Name:      "Camiseta Local 2026",
		Category:  "jerseys",
		Price:     decimal.NewFromInt(120000),
		Stock:     stock,
		ImageURLs: pq.StringArray{"https://cdn.example.com/jersey-front.jpg"},
		IsActive:  true,
	}
	for i := range variants {
		variants[i].ID = uuid.New()
		variants[i].ProductID = product.ID
	}
	product.Variants = variants
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryFindByIDLoadsVariants(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := seedProduct(t, db, 10,
		models.SizeVariant{Variant: "M", QuantityAvailable: 4},
		models.SizeVariant{Variant: "L", QuantityAvailable: 6},
	)

	found, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)
	assert.Len(t, found.Variants, 2)
	require.NotNil(t, found.VariantFor("M"))
	assert.Equal(t, 4, found.VariantFor("M").QuantityAvailable)
	assert.Nil(t, found.VariantFor("XL"))
}

func TestRepositoryFindByIDNotFound(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRepositoryListActiveFilters(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	jersey := seedProduct(t, db, 5)

	ball := &models.Product{
		ID:       uuid.New(),
		Name:     "Balon Profesional",
		Category: "balls",
		Price:    decimal.NewFromInt(95000),
		Stock:    3,
		IsActive: true,
	}
	require.NoError(t, db.Create(ball).Error)

	hidden := &models.Product{
		ID:       uuid.New(),
		Name:     "Camiseta Retro",
		Category: "jerseys",
		Price:    decimal.NewFromInt(80000),
		Stock:    1,
		IsActive: false,
	}
	require.NoError(t, db.Create(hidden).Error)

	all, err := repo.ListActive(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	jerseys, err := repo.ListActive(ctx, ListFilter{Category: "jerseys"})
	require.NoError(t, err)
	require.Len(t, jerseys, 1)
	assert.Equal(t, jersey.ID, jerseys[0].ID)

	byName, err := repo.ListActive(ctx, ListFilter{Search: "Balon"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, ball.ID, byName[0].ID)
}

func TestRepositoryDeactivate(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := seedProduct(t, db, 5)
	require.NoError(t, repo.Deactivate(ctx, seeded.ID))

	found, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)

	err = repo.Deactivate(ctx, uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRepositoryReplaceVariants(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := seedProduct(t, db, 5, models.SizeVariant{Variant: "S", QuantityAvailable: 2})

	err := repo.ReplaceVariants(ctx, seeded.ID, []models.SizeVariant{
		{Variant: "M", QuantityAvailable: 3},
		{Variant: "L", QuantityAvailable: 1},
	})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Len(t, found.Variants, 2)
	assert.Nil(t, found.VariantFor("S"))
	require.NotNil(t, found.VariantFor("L"))
	assert.Equal(t, 1, found.VariantFor("L").QuantityAvailable)
}
