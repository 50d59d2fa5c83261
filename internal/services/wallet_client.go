package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"servioBack/internal/models"
)

// WalletClient reads balances from the external wallet/coin ledger. Debiting
// happens server-side at order placement; this client never mutates anything.
type WalletClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewWalletClient constructs a ledger client.
func NewWalletClient(httpClient *http.Client, baseURL string, logger *slog.Logger) *WalletClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WalletClient{httpClient: httpClient, baseURL: baseURL, logger: logger}
}

// Balance fetches the customer's currency and coin balances.
func (c *WalletClient) Balance(ctx context.Context, userID int64) (models.WalletState, error) {
	url := fmt.Sprintf("%s/balance?user_id=%d", c.baseURL, userID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.WalletState{}, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return models.WalletState{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		c.logger.Error("wallet service rejected request", "status", resp.Status)
		return models.WalletState{}, fmt.Errorf("wallet service: unexpected status %s", resp.Status)
	}

	var state models.WalletState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return models.WalletState{}, err
	}
	return state, nil
}
