package pay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Order is a payment order handle issued by the acquiring gateway. Amount is
// in minor units (paise).
type Order struct {
	ID       string `json:"id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
}

// Gateway is the slice of the acquirer contract the engine consumes: order
// creation and server-side signature verification. The gateway's own checkout
// UI lives outside the engine.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int, currency, receipt string) (Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// Client is a minimal acquiring-API client. The checkout signature is the hex
// HMAC-SHA256 of "orderID|paymentID" under the API secret, recomputed here so
// verification never trusts the device.
type Client struct {
	httpClient *http.Client
	keyID      string
	secret     string
	baseURL    string
	logger     *slog.Logger
}

// NewClient constructs a gateway client.
func NewClient(httpClient *http.Client, keyID, secret, baseURL string, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: httpClient,
		keyID:      keyID,
		secret:     secret,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// CreateOrder registers a payable amount with the gateway and returns the
// order handle the checkout UI needs.
func (c *Client) CreateOrder(ctx context.Context, amountMinor int, currency, receipt string) (Order, error) {
	payload := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Order{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return Order{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.keyID, c.secret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Order{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		c.logger.Error("gateway order creation rejected", "status", resp.Status)
		return Order{}, fmt.Errorf("gateway: unexpected status %s", resp.Status)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return Order{}, err
	}
	if order.ID == "" {
		return Order{}, fmt.Errorf("gateway: response without order id")
	}
	return order, nil
}

// VerifySignature recomputes the checkout signature for an order/payment pair.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifyHMAC([]byte(orderID+"|"+paymentID), signature, c.secret)
}
