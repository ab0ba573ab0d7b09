package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	gatewaysvc "github.com/darkandwhite/shop-backend/internal/gateway"
	"github.com/darkandwhite/shop-backend/internal/payments"
	"github.com/darkandwhite/shop-backend/pkg/config"
	pkgerrors "github.com/darkandwhite/shop-backend/pkg/errors"
	"github.com/darkandwhite/shop-backend/pkg/logger"
	"github.com/darkandwhite/shop-backend/pkg/metrics"
)

type stubPayments struct {
	checkErr   error
	performErr error

	checked   []payments.Callback
	performed []payments.Callback
}

func (s *stubPayments) Check(_ context.Context, cb payments.Callback) error {
	s.checked = append(s.checked, cb)
	return s.checkErr
}

func (s *stubPayments) Perform(_ context.Context, cb payments.Callback) error {
	s.performed = append(s.performed, cb)
	return s.performErr
}

func testHandlerLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newCallbackHandler(t *testing.T, svc payments.Service) http.HandlerFunc {
	t.Helper()
	auth, err := gatewaysvc.NewAuthenticator(config.GatewayConfig{Username: "merchant", Password: "secret"})
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}
	return GatewayCallback(svc, auth, metrics.NewGatewayMetrics(nil), testHandlerLogger())
}

func postCallback(t *testing.T, handler http.HandlerFunc, body string, withAuth bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/gateway/callback", strings.NewReader(body))
	if withAuth {
		req.SetBasicAuth("merchant", "secret")
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func callbackBody(method string, transactionID, amount, externalID string) string {
	return fmt.Sprintf(`{
		"id": 7,
		"method": %q,
		"params": {
			"account": {"order_id": %q},
			"amount_tiyin": %s,
			"transaction_id": %q
		}
	}`, method, transactionID, amount, externalID)
}

func decodeRPC(t *testing.T, rec *httptest.ResponseRecorder) (status, statusText string, id any) {
	t.Helper()
	var resp struct {
		Result struct {
			Status     string `json:"status"`
			StatusText string `json:"statusText"`
		} `json:"result"`
		JSONRPC string `json:"jsonrpc"`
		ID      any    `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.JSONRPC != "2.0" {
		t.Errorf("jsonrpc = %q, want 2.0", resp.JSONRPC)
	}
	return resp.Result.Status, resp.Result.StatusText, resp.ID
}

func TestGatewayCallbackRejectsBadCredentials(t *testing.T) {
	svc := &stubPayments{}
	handler := newCallbackHandler(t, svc)

	rec := postCallback(t, handler, callbackBody("CheckTransaction", uuid.NewString(), "1000", "ext-1"), false)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if len(svc.checked) != 0 {
		t.Error("service must not be reached without credentials")
	}
}

func TestGatewayCallbackCheckSuccess(t *testing.T) {
	svc := &stubPayments{}
	handler := newCallbackHandler(t, svc)
	transactionID := uuid.New()

	rec := postCallback(t, handler, callbackBody("CheckTransaction", transactionID.String(), "5024000", "ext-9"), true)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	status, statusText, id := decodeRPC(t, rec)
	if status != "0" || statusText != "OK" {
		t.Errorf("result = %s/%s, want 0/OK", status, statusText)
	}
	if id != float64(7) {
		t.Errorf("id = %v, want echoed 7", id)
	}
	if len(svc.checked) != 1 {
		t.Fatalf("checked %d times, want 1", len(svc.checked))
	}
	cb := svc.checked[0]
	if cb.TransactionID != transactionID {
		t.Errorf("transaction id = %s, want %s", cb.TransactionID, transactionID)
	}
	if cb.Amount != 5024000 {
		t.Errorf("amount = %d, want 5024000", cb.Amount)
	}
	if cb.ExternalID != "ext-9" {
		t.Errorf("external id = %q, want ext-9", cb.ExternalID)
	}
}

func TestGatewayCallbackPerformOutcomes(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		status     string
		statusText string
	}{
		{name: "settled", err: nil, status: "0", statusText: "OK"},
		{name: "already paid", err: pkgerrors.New(pkgerrors.CodeAlreadyPaid, "settled"), status: "201", statusText: "ERROR"},
		{name: "invalid amount", err: pkgerrors.New(pkgerrors.CodeInvalidAmount, "mismatch"), status: "5", statusText: "ERROR"},
		{name: "unknown transaction", err: pkgerrors.New(pkgerrors.CodeNotFound, "missing"), status: "303", statusText: "ERROR"},
		{name: "failed attempt", err: pkgerrors.New(pkgerrors.CodeStateConflict, "failed"), status: "3", statusText: "ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubPayments{performErr: tc.err}
			handler := newCallbackHandler(t, svc)

			rec := postCallback(t, handler, callbackBody("PerformTransaction", uuid.NewString(), "1000", "ext-1"), true)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 regardless of outcome", rec.Code)
			}
			status, statusText, _ := decodeRPC(t, rec)
			if status != tc.status || statusText != tc.statusText {
				t.Errorf("result = %s/%s, want %s/%s", status, statusText, tc.status, tc.statusText)
			}
			if len(svc.performed) != 1 {
				t.Errorf("performed %d times, want 1", len(svc.performed))
			}
		})
	}
}

func TestGatewayCallbackUnparseableOrderID(t *testing.T) {
	svc := &stubPayments{}
	handler := newCallbackHandler(t, svc)

	rec := postCallback(t, handler, callbackBody("PerformTransaction", "not-a-uuid", "1000", "ext-1"), true)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	status, statusText, _ := decodeRPC(t, rec)
	if status != "303" || statusText != "ERROR" {
		t.Errorf("result = %s/%s, want 303/ERROR", status, statusText)
	}
	if len(svc.performed) != 0 {
		t.Error("service must not be reached for an unparseable reference")
	}
}

func TestGatewayCallbackNumericExternalID(t *testing.T) {
	svc := &stubPayments{}
	handler := newCallbackHandler(t, svc)

	body := fmt.Sprintf(`{
		"id": "abc",
		"method": "PerformTransaction",
		"params": {
			"account": {"order_id": %q},
			"amount_tiyin": "2500",
			"transaction_id": 991234
		}
	}`, uuid.NewString())
	rec := postCallback(t, handler, body, true)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(svc.performed) != 1 {
		t.Fatalf("performed %d times, want 1", len(svc.performed))
	}
	cb := svc.performed[0]
	if cb.Amount != 2500 {
		t.Errorf("amount = %d, want 2500 from quoted number", cb.Amount)
	}
	if cb.ExternalID != "991234" {
		t.Errorf("external id = %q, want stringified 991234", cb.ExternalID)
	}
	_, _, id := decodeRPC(t, rec)
	if id != "abc" {
		t.Errorf("id = %v, want echoed string id", id)
	}
}

func TestGatewayCallbackUnknownMethod(t *testing.T) {
	svc := &stubPayments{}
	handler := newCallbackHandler(t, svc)

	rec := postCallback(t, handler, callbackBody("CancelTransaction", uuid.NewString(), "1000", "ext-1"), true)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if len(svc.checked)+len(svc.performed) != 0 {
		t.Error("service must not be reached for an unknown method")
	}
}

func TestGatewayCallbackMissingAmountRejectedBeforeDispatch(t *testing.T) {
	svc := &stubPayments{}
	handler := newCallbackHandler(t, svc)

	body := fmt.Sprintf(`{
		"id": 7,
		"method": "PerformTransaction",
		"params": {
			"account": {"order_id": %q},
			"transaction_id": "ext-1"
		}
	}`, uuid.NewString())
	rec := postCallback(t, handler, body, true)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if len(svc.performed) != 0 {
		t.Error("a body without an amount must never reach the state machine")
	}
}

func TestGatewayCallbackUnparseableAmountRejectedBeforeDispatch(t *testing.T) {
	svc := &stubPayments{}
	handler := newCallbackHandler(t, svc)

	for _, raw := range []string{`"not-a-number"`, `25.5`} {
		body := fmt.Sprintf(`{
			"id": 7,
			"method": "PerformTransaction",
			"params": {
				"account": {"order_id": %q},
				"amount_tiyin": %s,
				"transaction_id": "ext-1"
			}
		}`, uuid.NewString(), raw)
		rec := postCallback(t, handler, body, true)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("amount %s: status = %d, want %d", raw, rec.Code, http.StatusBadRequest)
		}
	}
	if len(svc.performed) != 0 {
		t.Error("an unparseable amount must never reach the state machine")
	}
}

func TestGatewayCallbackMalformedBody(t *testing.T) {
	svc := &stubPayments{}
	handler := newCallbackHandler(t, svc)

	rec := postCallback(t, handler, "{not json", true)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
