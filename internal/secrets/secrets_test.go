package secrets

import (
	"strings"
	"testing"
	"time"
)

func TestNewVerificationCodeRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := NewVerificationCode()
		if err != nil {
			t.Fatalf("NewVerificationCode returned error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		if code[0] == '0' {
			t.Fatalf("code %q is outside [100000, 999999]", code)
		}
	}
}

func TestNewResetTokenIsHex64(t *testing.T) {
	token, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken returned error: %v", err)
	}
	if len(token) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(token))
	}
	if strings.ToLower(token) != token {
		t.Fatalf("expected lowercase hex, got %q", token)
	}
}

func TestHashNeverEqualsPlaintext(t *testing.T) {
	if Hash("482913") == "482913" {
		t.Fatal("hash must differ from plaintext")
	}
	if Hash("482913") != Hash("482913") {
		t.Fatal("hash must be deterministic")
	}
}

func TestMatches(t *testing.T) {
	now := time.Now()
	future := now.Add(5 * time.Minute)
	past := now.Add(-1 * time.Minute)
	hash := Hash("482913")

	if !Matches(hash, "482913", &future, now) {
		t.Fatal("expected match for correct code before expiry")
	}
	if Matches(hash, "482914", &future, now) {
		t.Fatal("expected mismatch for wrong code")
	}
	if Matches(hash, "482913", &past, now) {
		t.Fatal("expected mismatch after expiry")
	}
	if Matches(hash, "482913", nil, now) {
		t.Fatal("expected mismatch when no expiry is stored")
	}
	if Matches("", "482913", &future, now) {
		t.Fatal("expected mismatch when no secret is stored")
	}
}

func TestResetTokenTamperFails(t *testing.T) {
	token, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken returned error: %v", err)
	}
	future := time.Now().Add(time.Hour)
	hash := Hash(token)

	if !Matches(hash, token, &future, time.Now()) {
		t.Fatal("expected original token to match")
	}

	tampered := []byte(token)
	if tampered[0] == 'a' {
		tampered[0] = 'b'
	} else {
		tampered[0] = 'a'
	}
	if Matches(hash, string(tampered), &future, time.Now()) {
		t.Fatal("expected tampered token to fail")
	}
}
