package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/darkandwhite/shop-backend/pkg/db/models"
	pkgerrors "github.com/darkandwhite/shop-backend/pkg/errors"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  price TEXT NOT NULL DEFAULT '0',
  image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	designAssets := `
CREATE TABLE IF NOT EXISTS design_assets (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price TEXT NOT NULL DEFAULT '0',
  image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(designAssets).Error)

	return db
}

func decimalFromString(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	parsed, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return parsed
}

func TestGetProduct(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := models.Product{
		ID:       uuid.New(),
		Name:     "Hoodie 1",
		Slug:     "hoodie-1",
		Price:    decimalFromString(t, "120.00"),
		IsActive: true,
	}
	require.NoError(t, db.Create(&product).Error)

	got, err := repo.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)
	assert.Equal(t, "Hoodie 1", got.Name)
	assert.True(t, got.Price.Equal(product.Price))
	assert.True(t, got.IsActive)

	_, err = repo.GetProduct(ctx, uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestGetDesign(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	design := models.DesignAsset{
		ID:       uuid.New(),
		Name:     "Grid Study",
		Price:    decimalFromString(t, "45.50"),
		IsActive: false,
	}
	require.NoError(t, db.Create(&design).Error)

	got, err := repo.GetDesign(ctx, design.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grid Study", got.Name)
	assert.False(t, got.IsActive)

	_, err = repo.GetDesign(ctx, uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
