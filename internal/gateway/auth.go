package gateway

import (
	"crypto/subtle"
	"net/http"

	"github.com/darkandwhite/shop-backend/pkg/config"
	pkgerrors "github.com/darkandwhite/shop-backend/pkg/errors"
)

// Authenticator verifies the gateway's HTTP Basic credentials on callback
// requests. Comparison is constant-time so timing cannot leak how much of a
// guess matched.
type Authenticator struct {
	username string
	password string
}

// NewAuthenticator wires the callback authenticator from configuration.
func NewAuthenticator(cfg config.GatewayConfig) (*Authenticator, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gateway credentials required")
	}
	return &Authenticator{username: cfg.Username, password: cfg.Password}, nil
}

// Authenticate checks the request's Basic auth header. A missing or malformed
// header fails the same way as wrong credentials.
func (a *Authenticator) Authenticate(r *http.Request) error {
	username, password, ok := r.BasicAuth()
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing gateway credentials")
	}

	userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(a.username))
	passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(a.password))
	if userMatch&passMatch != 1 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid gateway credentials")
	}
	return nil
}
