package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"servioBack/internal/models"
)

// CouponClient consumes the external coupon validation service. The engine
// never decides coupon validity itself; it only binds a validated discount to
// the subtotal it was validated against.
type CouponClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewCouponClient constructs a coupon service client.
func NewCouponClient(httpClient *http.Client, baseURL string, logger *slog.Logger) *CouponClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CouponClient{httpClient: httpClient, baseURL: baseURL, logger: logger}
}

// Validate checks a code against the pre-coupon subtotal. A rejection comes
// back as models.ErrCouponRejected carrying the service's reason.
func (c *CouponClient) Validate(ctx context.Context, code string, orderAmount int) (models.AppliedCoupon, error) {
	payload := map[string]interface{}{
		"code":         code,
		"order_amount": orderAmount,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return models.AppliedCoupon{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/validate", bytes.NewReader(body))
	if err != nil {
		return models.AppliedCoupon{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return models.AppliedCoupon{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		c.logger.Error("coupon service rejected request", "status", resp.Status)
		return models.AppliedCoupon{}, fmt.Errorf("coupon service: unexpected status %s", resp.Status)
	}

	var apiResp struct {
		Valid          bool   `json:"valid"`
		DiscountAmount int    `json:"discount_amount"`
		CouponID       string `json:"coupon_id"`
		Reason         string `json:"reason"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return models.AppliedCoupon{}, err
	}
	if !apiResp.Valid {
		return models.AppliedCoupon{}, fmt.Errorf("%w: %s", models.ErrCouponRejected, apiResp.Reason)
	}
	return models.AppliedCoupon{
		CouponID:       apiResp.CouponID,
		Code:           code,
		DiscountAmount: apiResp.DiscountAmount,
		OrderAmount:    orderAmount,
	}, nil
}
