package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func signFor(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureAcceptsValid(t *testing.T) {
	client := NewClient("rzp_test_key", "topsecret")
	sig := signFor("topsecret", "order_abc", "pay_xyz")

	if !client.VerifySignature("order_abc", "pay_xyz", sig) {
		t.Fatal("expected valid signature to verify")
	}
}

func TestVerifySignatureRejectsMutations(t *testing.T) {
	client := NewClient("rzp_test_key", "topsecret")
	sig := signFor("topsecret", "order_abc", "pay_xyz")

	mutatedSig := []byte(sig)
	if mutatedSig[0] == '0' {
		mutatedSig[0] = '1'
	} else {
		mutatedSig[0] = '0'
	}

	cases := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
	}{
		{"wrong order id", "order_abd", "pay_xyz", sig},
		{"wrong payment id", "order_abc", "pay_xyy", sig},
		{"mutated signature", "order_abc", "pay_xyz", string(mutatedSig)},
		{"empty signature", "order_abc", "pay_xyz", ""},
		{"empty order id", "", "pay_xyz", sig},
	}
	for _, tc := range cases {
		if client.VerifySignature(tc.orderID, tc.paymentID, tc.signature) {
			t.Fatalf("%s: expected verification to fail", tc.name)
		}
	}
}

func TestToPaise(t *testing.T) {
	cases := []struct {
		rupees float64
		paise  int64
	}{
		{250, 25000},
		{99.99, 9999},
		{0.01, 1},
		{120.505, 12051},
	}
	for _, tc := range cases {
		if got := ToPaise(tc.rupees); got != tc.paise {
			t.Fatalf("ToPaise(%v) = %d, want %d", tc.rupees, got, tc.paise)
		}
	}
}

func TestCreateOrderPostsMinorUnits(t *testing.T) {
	var received createOrderRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test_key" || pass != "topsecret" {
			t.Errorf("missing or wrong basic auth: %q %q", user, pass)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(GatewayOrder{
			ID:       "order_abc",
			Amount:   received.Amount,
			Currency: received.Currency,
			Receipt:  received.Receipt,
			Status:   "created",
		})
	}))
	defer srv.Close()

	client := NewClient("rzp_test_key", "topsecret")
	client.SetBaseURL(srv.URL)

	order, err := client.CreateOrder(context.Background(), ToPaise(250), "INR", "rcpt_1")
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	if received.Amount != 25000 {
		t.Fatalf("expected 25000 paise sent to gateway, got %d", received.Amount)
	}
	if order.ID != "order_abc" || order.Currency != "INR" {
		t.Fatalf("unexpected gateway order: %+v", order)
	}
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	client := NewClient("rzp_test_key", "topsecret")
	if _, err := client.CreateOrder(context.Background(), 0, "INR", "rcpt_1"); err == nil {
		t.Fatal("expected error for zero amount")
	}
}

func TestConfigured(t *testing.T) {
	if NewClient("", "").Configured() {
		t.Fatal("expected unconfigured client")
	}
	if !NewClient("k", "s").Configured() {
		t.Fatal("expected configured client")
	}
}
