package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/darkandwhite/shop-backend/api/middleware"
	"github.com/darkandwhite/shop-backend/api/responses"
	"github.com/darkandwhite/shop-backend/api/validators"
	cartsvc "github.com/darkandwhite/shop-backend/internal/cart"
	"github.com/darkandwhite/shop-backend/pkg/enums"
	pkgerrors "github.com/darkandwhite/shop-backend/pkg/errors"
	"github.com/darkandwhite/shop-backend/pkg/logger"
)

// CartFetch returns the resolved view of the session cart.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session missing"))
			return
		}

		resolution, err := svc.Resolve(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(resolution))
	}
}

// CartAdd puts a catalog item into the session cart.
func CartAdd(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session missing"))
			return
		}

		var payload addCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseItemKind(payload.Kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item kind"))
			return
		}

		result, err := svc.Add(r.Context(), sessionID, kind, payload.EntityID, payload.Qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, addCartResponse{
			Key:      result.Key.String(),
			Quantity: result.Quantity,
			Count:    result.Count,
		})
	}
}

// CartDonation adds or reprices the session's donation line.
func CartDonation(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session missing"))
			return
		}

		var payload donationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amount, err := decimal.NewFromString(payload.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid donation amount"))
			return
		}

		result, err := svc.AddDonation(r.Context(), sessionID, amount, payload.Qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, addCartResponse{
			Key:      result.Key.String(),
			Quantity: result.Quantity,
			Count:    result.Count,
		})
	}
}

// CartUpdate increments, decrements, or removes one line.
func CartUpdate(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session missing"))
			return
		}

		var payload updateCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		key, err := cartsvc.ParseKey(payload.Key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart key"))
			return
		}

		result, err := svc.Update(r.Context(), sessionID, key, cartsvc.UpdateAction(payload.Action))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updateCartResponse{
			Key:       result.Key.String(),
			Quantity:  result.Quantity,
			Count:     result.Count,
			Removed:   result.Removed,
			LineTotal: result.LineTotal.String(),
			Subtotal:  result.Subtotal.String(),
		})
	}
}

type addCartRequest struct {
	Kind     string    `json:"kind" validate:"required,oneof=product design"`
	EntityID uuid.UUID `json:"entity_id" validate:"required"`
	Qty      int       `json:"qty"`
}

type donationRequest struct {
	Amount string `json:"amount" validate:"required"`
	Qty    int    `json:"qty"`
}

type updateCartRequest struct {
	Key    string `json:"key" validate:"required"`
	Action string `json:"action" validate:"required,oneof=inc dec remove"`
}

type addCartResponse struct {
	Key      string `json:"key"`
	Quantity int    `json:"qty"`
	Count    int    `json:"count"`
}

type updateCartResponse struct {
	Key       string `json:"key"`
	Quantity  int    `json:"qty"`
	Count     int    `json:"count"`
	Removed   bool   `json:"removed"`
	LineTotal string `json:"line_total"`
	Subtotal  string `json:"subtotal"`
}

type cartLineResponse struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Quantity  int    `json:"qty"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type cartResponse struct {
	Items    []cartLineResponse `json:"items"`
	Subtotal string             `json:"subtotal"`
	Count    int                `json:"count"`
}

func newCartResponse(resolution *cartsvc.Resolution) cartResponse {
	out := cartResponse{
		Items:    make([]cartLineResponse, 0, len(resolution.Lines)),
		Subtotal: resolution.Subtotal.String(),
	}
	for _, line := range resolution.Lines {
		out.Count += line.Quantity
		out.Items = append(out.Items, cartLineResponse{
			Key:       line.Key.String(),
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.String(),
			LineTotal: line.LineTotal.String(),
		})
	}
	return out
}
