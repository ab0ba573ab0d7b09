package gateway

import (
	pkgerrors "github.com/darkandwhite/shop-backend/pkg/errors"
)

// Result codes of the gateway's JSON-RPC callback protocol.
const (
	CodeSuccess       = "0"
	CodeServerError   = "3"
	CodeInvalidAmount = "5"
	CodeAlreadyPaid   = "201"
	CodeOrderNotFound = "303"
)

const (
	StatusTextOK    = "OK"
	StatusTextError = "ERROR"
)

// ResultCode maps a settlement outcome onto the protocol's numeric code.
// A nil error is success; anything the taxonomy does not name is a server
// error. The not-found case is a normal protocol outcome, not an exception.
func ResultCode(err error) (code string, ok bool) {
	if err == nil {
		return CodeSuccess, true
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		return CodeServerError, false
	}
	switch typed.Code() {
	case pkgerrors.CodeNotFound:
		return CodeOrderNotFound, false
	case pkgerrors.CodeAlreadyPaid:
		return CodeAlreadyPaid, false
	case pkgerrors.CodeInvalidAmount:
		return CodeInvalidAmount, false
	default:
		return CodeServerError, false
	}
}
