package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/darkandwhite/shop-backend/api/middleware"
	"github.com/darkandwhite/shop-backend/api/responses"
	"github.com/darkandwhite/shop-backend/api/validators"
	ordersvc "github.com/darkandwhite/shop-backend/internal/orders"
	"github.com/darkandwhite/shop-backend/pkg/db/models"
	"github.com/darkandwhite/shop-backend/pkg/enums"
	pkgerrors "github.com/darkandwhite/shop-backend/pkg/errors"
	"github.com/darkandwhite/shop-backend/pkg/logger"
)

// OrdersCreate checks out the session cart into an order plus payment link.
func OrdersCreate(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session missing"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreateFromCart(r.Context(), sessionID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, result.Order.ID.String())
			ctx = logg.WithTransactionID(ctx, result.Transaction.ID.String())
			logg.Info(ctx, "order created")
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, createOrderResponse{
			OrderID:       result.Order.ID,
			TransactionID: result.Transaction.ID,
			Currency:      result.Order.Currency.String(),
			Total:         result.Order.TotalPrice.String(),
			PaymentURL:    result.PaymentURL,
		})
	}
}

// OrderFetch returns the success view of a paid order.
func OrderFetch(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// PaymentReturn resolves the gateway's return redirect into the paid order.
func PaymentReturn(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transactionID, err := validators.ParseQueryUUID(r, "tx")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PaymentReturn(r.Context(), transactionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

type createOrderRequest struct {
	Currency  string `json:"currency" validate:"omitempty,oneof=UZS USD"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	Country   string `json:"country"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
}

func (r createOrderRequest) toInput() ordersvc.CreateInput {
	return ordersvc.CreateInput{
		Currency: enums.Currency(r.Currency),
		Customer: ordersvc.CustomerInfo{
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Email:     r.Email,
			Phone:     r.Phone,
			Address1:  r.Address1,
			Address2:  r.Address2,
			Country:   r.Country,
			State:     r.State,
			Zip:       r.Zip,
		},
	}
}

type createOrderResponse struct {
	OrderID       uuid.UUID `json:"order_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Currency      string    `json:"currency"`
	Total         string    `json:"total"`
	PaymentURL    string    `json:"payment_url"`
}

type orderItemResponse struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Quantity  int    `json:"qty"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type orderResponse struct {
	ID       uuid.UUID           `json:"id"`
	Currency string              `json:"currency"`
	Total    string              `json:"total"`
	Items    []orderItemResponse `json:"items"`
}

func newOrderResponse(order *models.Order) orderResponse {
	out := orderResponse{
		ID:       order.ID,
		Currency: order.Currency.String(),
		Total:    order.TotalPrice.String(),
		Items:    make([]orderItemResponse, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		out.Items = append(out.Items, orderItemResponse{
			Kind:      item.Kind.String(),
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.String(),
			LineTotal: item.LineTotal.String(),
		})
	}
	return out
}
