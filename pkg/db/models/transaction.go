package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/darkandwhite/shop-backend/pkg/enums"
)

// Transaction is one payment attempt against an Order. Amount is fixed at
// creation in minor units (tiyin/cents) and never mutated; only status and
// gateway metadata change afterward.
type Transaction struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID               `gorm:"column:order_id;type:uuid;not null;index"`
	Order         *Order                  `gorm:"foreignKey:OrderID"`
	ExternalID    *string                 `gorm:"column:external_id"`
	Amount        int64                   `gorm:"column:amount;not null"`
	Currency      enums.Currency          `gorm:"column:currency;type:text;not null"`
	Status        enums.TransactionStatus `gorm:"column:status;type:text;not null;default:'waiting'"`
	PaymentTime   *time.Time              `gorm:"column:payment_time"`
	PaymentURL    *string                 `gorm:"column:payment_url;size:1255"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
