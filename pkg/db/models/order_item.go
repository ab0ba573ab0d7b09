package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/darkandwhite/shop-backend/pkg/enums"
)

// OrderItem captures the snapshot of one cart line. Name and UnitPrice are
// copied at order time so later catalog edits never change historical orders.
type OrderItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	Kind          enums.ItemKind  `gorm:"column:kind;type:text;not null"`
	ProductID     *uuid.UUID      `gorm:"column:product_id;type:uuid"`
	DesignAssetID *uuid.UUID      `gorm:"column:design_asset_id;type:uuid"`
	Name          string          `gorm:"column:name;not null"`
	Quantity      int             `gorm:"column:quantity;not null;default:1"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null;default:0"`
	Currency      enums.Currency  `gorm:"column:currency;type:text;not null;default:'UZS'"`
	LineTotal     decimal.Decimal `gorm:"column:line_total;type:numeric(14,2);not null;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
