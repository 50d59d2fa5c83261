package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SmsSender delivers one-time passcodes over the out-of-band SMS channel.
// Codes travel only through here; they are never logged and never appear in
// API responses.
type SmsSender struct {
	httpClient *http.Client
	apiKey     string
	endpoint   string
}

// NewSmsSender constructs a sender for the SMS provider API.
func NewSmsSender(httpClient *http.Client, apiKey, endpoint string) *SmsSender {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &SmsSender{httpClient: httpClient, apiKey: apiKey, endpoint: endpoint}
}

// SendOtp texts a verification code to the customer.
func (s *SmsSender) SendOtp(ctx context.Context, phone, code string) error {
	return s.Send(ctx, phone, fmt.Sprintf("Your booking verification code is %s. Do not share it with anyone.", code))
}

// Send delivers a message to the given phone number.
func (s *SmsSender) Send(ctx context.Context, phone, message string) error {
	data := url.Values{}
	data.Set("apiKey", s.apiKey)
	data.Set("recipient", phone)
	data.Set("text", message)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var result struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	if result.Code != 0 {
		return fmt.Errorf("sms provider: %s (code %d)", result.Message, result.Code)
	}
	return nil
}
