package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/darkandwhite/shop-backend/api/responses"
	gatewaysvc "github.com/darkandwhite/shop-backend/internal/gateway"
	"github.com/darkandwhite/shop-backend/internal/payments"
	pkgerrors "github.com/darkandwhite/shop-backend/pkg/errors"
	"github.com/darkandwhite/shop-backend/pkg/logger"
	"github.com/darkandwhite/shop-backend/pkg/metrics"
)

const (
	methodCheckTransaction   = "CheckTransaction"
	methodPerformTransaction = "PerformTransaction"
)

// GatewayCallback is the JSON-RPC endpoint the payment gateway calls. Every
// recognized method answers HTTP 200 with the protocol's result envelope;
// protocol-level failure lives in the result code, not the HTTP status.
func GatewayCallback(
	svc payments.Service,
	auth *gatewaysvc.Authenticator,
	gm *metrics.GatewayMetrics,
	logg *logger.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := auth.Authenticate(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload rpcRequest
		defer io.Copy(io.Discard, r.Body)
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid callback body"))
			return
		}

		if payload.Method != methodCheckTransaction && payload.Method != methodPerformTransaction {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "unknown callback method").
					WithDetails(map[string]any{"method": payload.Method}))
			return
		}

		// A body without a usable amount never reaches the state machine;
		// dispatching a made-up amount would retire a live WAITING attempt.
		amount, err := payload.Params.amount()
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid callback amount"))
			return
		}

		start := time.Now()
		code := dispatchCallback(r, svc, payload, amount)
		gm.ObserveDuration(payload.Method, time.Since(start))
		gm.IncCallback(payload.Method, code)

		statusText := gatewaysvc.StatusTextOK
		if code != gatewaysvc.CodeSuccess {
			statusText = gatewaysvc.StatusTextError
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithFields(ctx, map[string]any{
				"callback_method": payload.Method,
				"callback_code":   code,
			})
			logg.Info(ctx, "gateway callback handled")
		}

		writeRPC(w, payload.ID, code, statusText)
	}
}

func dispatchCallback(r *http.Request, svc payments.Service, payload rpcRequest, amount int64) string {
	// An unparseable reference behaves like a reference to nothing.
	transactionID, err := uuid.Parse(payload.Params.Account.OrderID)
	if err != nil {
		return gatewaysvc.CodeOrderNotFound
	}

	cb := payments.Callback{
		TransactionID: transactionID,
		ExternalID:    payload.Params.externalID(),
		Amount:        amount,
	}

	var outcome error
	switch payload.Method {
	case methodCheckTransaction:
		outcome = svc.Check(r.Context(), cb)
	case methodPerformTransaction:
		outcome = svc.Perform(r.Context(), cb)
	}

	code, _ := gatewaysvc.ResultCode(outcome)
	return code
}

type rpcRequest struct {
	ID     any       `json:"id"`
	Method string    `json:"method"`
	Params rpcParams `json:"params"`
}

type rpcParams struct {
	Account struct {
		OrderID string `json:"order_id"`
	} `json:"account"`
	AmountTiyin   json.Number `json:"amount_tiyin"`
	TransactionID any         `json:"transaction_id"`
}

func (p rpcParams) amount() (int64, error) {
	if p.AmountTiyin == "" {
		return 0, fmt.Errorf("amount_tiyin is required")
	}
	value, err := p.AmountTiyin.Int64()
	if err != nil {
		return 0, fmt.Errorf("amount_tiyin %q is not an integer", p.AmountTiyin)
	}
	return value, nil
}

func (p rpcParams) externalID() string {
	switch v := p.TransactionID.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

type rpcResult struct {
	Status     string `json:"status"`
	StatusText string `json:"statusText"`
}

type rpcResponse struct {
	Result  rpcResult `json:"result"`
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
}

func writeRPC(w http.ResponseWriter, id any, code, statusText string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(rpcResponse{
		Result:  rpcResult{Status: code, StatusText: statusText},
		JSONRPC: "2.0",
		ID:      id,
	})
}
