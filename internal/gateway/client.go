package gateway

import (
	"encoding/base64"
	"fmt"
	"net/url"

	"github.com/darkandwhite/shop-backend/pkg/config"
	"github.com/darkandwhite/shop-backend/pkg/db/models"
	pkgerrors "github.com/darkandwhite/shop-backend/pkg/errors"
)

// Client builds outbound payment links for the hosted checkout page.
type Client struct {
	cfg config.GatewayConfig
}

// NewClient wires the gateway client from configuration.
func NewClient(cfg config.GatewayConfig) (*Client, error) {
	if cfg.MerchantID == "" {
		return nil, fmt.Errorf("gateway merchant id required")
	}
	if cfg.BaseLink == "" {
		return nil, fmt.Errorf("gateway base link required")
	}
	return &Client{cfg: cfg}, nil
}

// BuildPaymentLink deterministically encodes the payment parameters into the
// opaque token the hosted checkout expects: a base64 of the url-encoded query
// string, appended to the base link. Amount is already in minor units.
func (c *Client) BuildPaymentLink(transaction *models.Transaction) (string, error) {
	if transaction == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "transaction required")
	}
	currencyID, err := transaction.Currency.NumericISO()
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported currency")
	}

	query := url.Values{}
	query.Set("merchant_id", c.cfg.MerchantID)
	query.Set("amount", fmt.Sprintf("%d", transaction.Amount))
	query.Set("currency_id", fmt.Sprintf("%d", currencyID))
	query.Set("amount_in_tiyin", "true")
	query.Set("return_url", c.cfg.ReturnURL)
	query.Set("account.order_id", transaction.ID.String())

	token := base64.StdEncoding.EncodeToString([]byte(query.Encode()))
	return fmt.Sprintf("%s/%s", c.cfg.BaseLink, token), nil
}
