package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/darkandwhite/shop-backend/pkg/db/models"
	"github.com/darkandwhite/shop-backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  currency TEXT NOT NULL DEFAULT 'UZS',
  total_price TEXT NOT NULL DEFAULT '0',
  first_name TEXT,
  last_name TEXT,
  email TEXT,
  phone TEXT,
  address1 TEXT,
  address2 TEXT,
  country TEXT,
  state TEXT,
  zip TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  kind TEXT NOT NULL,
  product_id TEXT,
  design_asset_id TEXT,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  unit_price TEXT NOT NULL DEFAULT '0',
  currency TEXT NOT NULL DEFAULT 'UZS',
  line_total TEXT NOT NULL DEFAULT '0',
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)

	return db
}

func TestRecalcTotalSumsItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := &models.Order{ID: uuid.New(), Currency: enums.CurrencyUZS}
	_, err := repo.CreateOrder(ctx, order)
	require.NoError(t, err)

	items := []models.OrderItem{
		{
			ID:        uuid.New(),
			OrderID:   order.ID,
			Kind:      enums.ItemKindProduct,
			Name:      "Hoodie 1",
			Quantity:  2,
			UnitPrice: decimal.RequireFromString("120.00"),
			Currency:  enums.CurrencyUZS,
			LineTotal: decimal.RequireFromString("240.00"),
			CreatedAt: time.Now().Add(-time.Minute),
		},
		{
			ID:        uuid.New(),
			OrderID:   order.ID,
			Kind:      enums.ItemKindDonation,
			Name:      "Advance Payment",
			Quantity:  1,
			UnitPrice: decimal.RequireFromString("50000.00"),
			Currency:  enums.CurrencyUZS,
			LineTotal: decimal.RequireFromString("50000.00"),
			CreatedAt: time.Now(),
		},
	}
	require.NoError(t, repo.CreateOrderItems(ctx, items))

	total, err := repo.RecalcTotal(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("50240.00")), "got %s", total)

	// Recalculation is idempotent.
	again, err := repo.RecalcTotal(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, again.Equal(total))

	stored, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalPrice.Equal(total))
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "Hoodie 1", stored.Items[0].Name)
	assert.Equal(t, "Advance Payment", stored.Items[1].Name)
}

func TestRecalcTotalEmptyOrderIsZero(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := &models.Order{ID: uuid.New(), Currency: enums.CurrencyUSD}
	_, err := repo.CreateOrder(ctx, order)
	require.NoError(t, err)

	total, err := repo.RecalcTotal(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestFindByIDMissingOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
