package pay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSignAndVerifyHMAC(t *testing.T) {
	payload := []byte("order_1|pay_1")
	secret := "secret"
	signature := Sign(payload, secret)
	if !VerifyHMAC(payload, signature, secret) {
		t.Fatal("expected signature to be valid")
	}
	if VerifyHMAC(payload, "deadbeef", secret) {
		t.Fatal("unexpected valid signature")
	}
	if VerifyHMAC(payload, signature, "other") {
		t.Fatal("signature must not verify under a different secret")
	}
}

func TestClientCreateOrder(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if user, _, ok := r.BasicAuth(); !ok || user != "key_test" {
			t.Errorf("missing or wrong basic auth")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(Order{ID: "order_abc", Amount: 50000, Currency: "INR"})
	}))
	defer ts.Close()

	client := NewClient(ts.Client(), "key_test", "secret", ts.URL, nil)
	order, err := client.CreateOrder(context.Background(), 50000, "INR", "rcpt-1")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if gotPath != "/orders" {
		t.Fatalf("expected /orders, got %s", gotPath)
	}
	if gotBody["amount"].(float64) != 50000 {
		t.Fatalf("expected minor-unit amount 50000, got %v", gotBody["amount"])
	}
	if order.ID != "order_abc" {
		t.Fatalf("order id mismatch: %q", order.ID)
	}
}

func TestClientCreateOrderRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer ts.Close()

	client := NewClient(ts.Client(), "key_test", "secret", ts.URL, nil)
	if _, err := client.CreateOrder(context.Background(), 100, "INR", "rcpt-2"); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}

func TestClientVerifySignature(t *testing.T) {
	client := NewClient(nil, "key_test", "secret", "http://unused", nil)
	sig := Sign([]byte("order_1|pay_1"), "secret")
	if !client.VerifySignature("order_1", "pay_1", sig) {
		t.Fatal("expected signature to verify")
	}
	if client.VerifySignature("order_1", "pay_2", sig) {
		t.Fatal("signature bound to another payment must not verify")
	}
}
