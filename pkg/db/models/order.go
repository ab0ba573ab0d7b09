package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/darkandwhite/shop-backend/pkg/enums"
)

// Order is the durable aggregation of a checked-out cart. TotalPrice is only
// ever written by recalculation from the owned items, never trusted from
// callers.
type Order struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Currency   enums.Currency  `gorm:"column:currency;type:text;not null;default:'UZS'"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(14,2);not null;default:0"`
	FirstName  *string         `gorm:"column:first_name"`
	LastName   *string         `gorm:"column:last_name"`
	Email      *string         `gorm:"column:email"`
	Phone      *string         `gorm:"column:phone"`
	Address1   *string         `gorm:"column:address1"`
	Address2   *string         `gorm:"column:address2"`
	Country    *string         `gorm:"column:country"`
	State      *string         `gorm:"column:state"`
	Zip        *string         `gorm:"column:zip"`
	Items      []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
