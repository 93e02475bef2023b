package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRegisterRejectsMalformedBodies(t *testing.T) {
	handler := Register(nil, nil, 0)

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing name", gin.H{"email": "a@test.com", "password": "pw123456"}},
		{"missing email", gin.H{"name": "Alice", "password": "pw123456"}},
		{"bad email", gin.H{"name": "Alice", "email": "not-an-email", "password": "pw123456"}},
		{"short password", gin.H{"name": "Alice", "email": "a@test.com", "password": "pw1"}},
	}
	for _, tc := range cases {
		w := postJSON(t, handler, "/auth/register", tc.body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d: %s", tc.name, w.Code, w.Body.String())
		}
		envelope := decodeEnvelope(t, w)
		if envelope["success"] != false {
			t.Fatalf("%s: expected success=false", tc.name)
		}
	}
}

func TestLoginRejectsUnknownLoginType(t *testing.T) {
	handler := Login(nil, "secret", 0)
	w := postJSON(t, handler, "/auth/login", gin.H{
		"email":     "a@test.com",
		"password":  "pw123456",
		"loginType": "superuser",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown loginType, got %d", w.Code)
	}
}

func TestVerifyOTPRejectsWrongCodeLength(t *testing.T) {
	handler := VerifyOTP(nil)
	for _, code := range []string{"", "12345", "1234567"} {
		w := postJSON(t, handler, "/auth/verify-otp", gin.H{"email": "a@test.com", "code": code})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("code %q: expected 400, got %d", code, w.Code)
		}
	}
}

func TestResetPasswordRejectsShortPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/reset-password/:token", ResetPassword(nil))

	w := postJSONTo(t, r, "/auth/reset-password/abc123", gin.H{"password": "pw1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %d", w.Code)
	}
}

func TestLowerCamel(t *testing.T) {
	if got := lowerCamel("HostelID"); got != "hostelID" {
		t.Fatalf("lowerCamel = %q", got)
	}
	if got := lowerCamel(""); got != "" {
		t.Fatalf("lowerCamel empty = %q", got)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := normalizeEmail("  Alice@Test.COM "); got != "alice@test.com" {
		t.Fatalf("normalizeEmail = %q", got)
	}
}
