package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/darkandwhite/shop-backend/internal/cart"
	"github.com/darkandwhite/shop-backend/internal/payments"
	"github.com/darkandwhite/shop-backend/pkg/db/models"
	"github.com/darkandwhite/shop-backend/pkg/enums"
	pkgerrors "github.com/darkandwhite/shop-backend/pkg/errors"
	"github.com/darkandwhite/shop-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type linkBuilder interface {
	BuildPaymentLink(transaction *models.Transaction) (string, error)
}

// CustomerInfo is the optional contact block captured at checkout.
type CustomerInfo struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address1  string
	Address2  string
	Country   string
	State     string
	Zip       string
}

// CreateInput carries everything checkout supplies beyond the session cart.
type CreateInput struct {
	Currency enums.Currency
	Customer CustomerInfo
}

// CreateResult is the outcome of a checkout: the durable order, its first
// payment attempt, and the link the client is redirected to.
type CreateResult struct {
	Order       *models.Order
	Transaction *models.Transaction
	PaymentURL  string
}

// Service owns checkout and the post-payment order views.
type Service interface {
	CreateFromCart(ctx context.Context, sessionID string, input CreateInput) (*CreateResult, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	PaymentReturn(ctx context.Context, transactionID uuid.UUID) (*models.Order, error)
}

type service struct {
	repo         Repository
	transactions payments.Repository
	carts        cart.Service
	links        linkBuilder
	tx           txRunner
	log          *logger.Logger
}

// NewService wires the orders service.
func NewService(
	repo Repository,
	transactions payments.Repository,
	carts cart.Service,
	links linkBuilder,
	tx txRunner,
	log *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if transactions == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if links == nil {
		return nil, fmt.Errorf("payment link builder required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:         repo,
		transactions: transactions,
		carts:        carts,
		links:        links,
		tx:           tx,
		log:          log,
	}, nil
}

// CreateFromCart converts the session cart into a durable Order with a
// WAITING payment attempt. Prices are re-resolved from the catalog at this
// moment and snapshotted onto the items; the stored cart is never the source
// of truth for money. The whole write is one transaction, and the session
// cart is only cleared after it commits.
func (s *service) CreateFromCart(ctx context.Context, sessionID string, input CreateInput) (*CreateResult, error) {
	currency := input.Currency
	if currency == "" {
		currency = enums.CurrencyUZS
	}
	if !currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency").
			WithDetails(map[string]any{"currency": string(input.Currency)})
	}

	resolution, err := s.carts.Resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(resolution.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart has no purchasable items")
	}

	result := &CreateResult{}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		txRepo := s.transactions.WithTx(tx)

		order := &models.Order{
			Currency:  currency,
			FirstName: optional(input.Customer.FirstName),
			LastName:  optional(input.Customer.LastName),
			Email:     optional(input.Customer.Email),
			Phone:     optional(input.Customer.Phone),
			Address1:  optional(input.Customer.Address1),
			Address2:  optional(input.Customer.Address2),
			Country:   optional(input.Customer.Country),
			State:     optional(input.Customer.State),
			Zip:       optional(input.Customer.Zip),
		}
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		items := make([]models.OrderItem, 0, len(resolution.Lines))
		for _, line := range resolution.Lines {
			items = append(items, snapshotItem(order.ID, currency, line))
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		total, err := repo.RecalcTotal(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recalculate order total")
		}
		order.TotalPrice = total
		order.Items = items

		transaction := &models.Transaction{
			OrderID:  order.ID,
			Amount:   minorUnits(total),
			Currency: currency,
			Status:   enums.TransactionStatusWaiting,
		}
		if _, err := txRepo.Create(ctx, transaction); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create transaction")
		}

		paymentURL, err := s.links.BuildPaymentLink(transaction)
		if err != nil {
			return err
		}
		if err := txRepo.SetPaymentURL(ctx, transaction.ID, paymentURL); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store payment url")
		}
		transaction.PaymentURL = &paymentURL

		result.Order = order
		result.Transaction = transaction
		result.PaymentURL = paymentURL
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The order is committed; a failed clear only leaves a stale cart behind.
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.log.Warn(ctx, fmt.Sprintf("clearing cart after checkout: %v", err))
	}

	return result, nil
}

// Get returns the order detail view. Orders are only exposed once a payment
// attempt settled successfully; anything earlier reads as not found.
func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if _, err := s.transactions.FindSuccessfulByOrder(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order payment")
	}

	return order, nil
}

// PaymentReturn resolves the transaction reference the gateway redirects back
// with into the paid order.
func (s *service) PaymentReturn(ctx context.Context, transactionID uuid.UUID) (*models.Order, error) {
	transaction, err := s.transactions.FindByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
	}

	// An unsettled attempt reads the same as a missing one; the client just
	// redirects home.
	if transaction.Status != enums.TransactionStatusSuccess {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	order, err := s.repo.FindByID(ctx, transaction.OrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func snapshotItem(orderID uuid.UUID, currency enums.Currency, line cart.ResolvedLine) models.OrderItem {
	item := models.OrderItem{
		OrderID:   orderID,
		Kind:      line.Key.Kind,
		Name:      line.Name,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice,
		Currency:  currency,
		LineTotal: line.LineTotal,
	}
	switch line.Key.Kind {
	case enums.ItemKindProduct:
		id := line.Key.ID
		item.ProductID = &id
	case enums.ItemKindDesign:
		id := line.Key.ID
		item.DesignAssetID = &id
	}
	return item
}

// minorUnits converts a major-unit total into the gateway's tiyin/cent
// representation. Totals carry two decimal places, so the product is exact.
func minorUnits(total decimal.Decimal) int64 {
	return total.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
