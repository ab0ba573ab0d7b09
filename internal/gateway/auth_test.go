package gateway

import (
	"net/http/httptest"
	"testing"

	"github.com/darkandwhite/shop-backend/pkg/config"
	pkgerrors "github.com/darkandwhite/shop-backend/pkg/errors"
)

func TestNewAuthenticatorRequiresCredentials(t *testing.T) {
	if _, err := NewAuthenticator(config.GatewayConfig{Username: "", Password: "secret"}); err == nil {
		t.Fatal("expected error without username")
	}
	if _, err := NewAuthenticator(config.GatewayConfig{Username: "merchant", Password: ""}); err == nil {
		t.Fatal("expected error without password")
	}
}

func TestAuthenticate(t *testing.T) {
	auth, err := NewAuthenticator(config.GatewayConfig{Username: "merchant", Password: "secret"})
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}

	t.Run("valid credentials pass", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/gateway/callback", nil)
		req.SetBasicAuth("merchant", "secret")
		if err := auth.Authenticate(req); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/gateway/callback", nil)
		req.SetBasicAuth("merchant", "wrong")
		assertUnauthorized(t, auth.Authenticate(req))
	})

	t.Run("wrong username rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/gateway/callback", nil)
		req.SetBasicAuth("intruder", "secret")
		assertUnauthorized(t, auth.Authenticate(req))
	})

	t.Run("missing header rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/gateway/callback", nil)
		assertUnauthorized(t, auth.Authenticate(req))
	})
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}
