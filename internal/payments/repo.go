package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/darkandwhite/shop-backend/pkg/db/models"
	"github.com/darkandwhite/shop-backend/pkg/enums"
)

// Repository owns Transaction persistence. Status is only ever written by the
// settlement service's transitions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, transaction *models.Transaction) (*models.Transaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	FindSuccessfulByOrder(ctx context.Context, orderID uuid.UUID) (*models.Transaction, error)
	MarkSuccess(ctx context.Context, id uuid.UUID, externalID string, paidAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, externalID string) error
	CancelWaitingSiblings(ctx context.Context, orderID, winnerID uuid.UUID) error
	SetPaymentURL(ctx context.Context, id uuid.UUID, url string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, transaction *models.Transaction) (*models.Transaction, error) {
	if err := r.db.WithContext(ctx).Create(transaction).Error; err != nil {
		return nil, err
	}
	return transaction, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&transaction).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// FindByIDForUpdate locks the row for the duration of the surrounding
// transaction. Concurrent perform callbacks serialize here.
func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&transaction).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// FindSuccessfulByOrder returns the winning attempt for an order, if any.
// The settlement transitions guarantee there is at most one.
func (r *repository) FindSuccessfulByOrder(ctx context.Context, orderID uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID, enums.TransactionStatusSuccess).
		First(&transaction).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *repository) MarkSuccess(ctx context.Context, id uuid.UUID, externalID string, paidAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"external_id":  externalID,
			"status":       enums.TransactionStatusSuccess,
			"payment_time": paidAt,
		}).Error
}

func (r *repository) MarkFailed(ctx context.Context, id uuid.UUID, externalID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"external_id": externalID,
			"status":      enums.TransactionStatusFailed,
		}).Error
}

// CancelWaitingSiblings retires every other WAITING attempt on the order.
// Runs in the same transaction as MarkSuccess so no second attempt can win.
func (r *repository) CancelWaitingSiblings(ctx context.Context, orderID, winnerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("order_id = ? AND id <> ? AND status = ?", orderID, winnerID, enums.TransactionStatusWaiting).
		Update("status", enums.TransactionStatusCancelled).Error
}

func (r *repository) SetPaymentURL(ctx context.Context, id uuid.UUID, url string) error {
	return r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", id).
		Update("payment_url", url).Error
}
