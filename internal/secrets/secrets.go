// Package secrets generates and checks the single-use secrets attached to a
// user account: the 6-digit email verification code and the password reset
// token. Only SHA-256 hashes are ever persisted; verification is a hash
// comparison, never a plaintext one.
//
// Verification does not consume the secret. The caller clears the stored
// hash after the dependent action (account activation, password change) has
// committed.
package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

// NewVerificationCode returns a 6-digit code uniform in [100000, 999999].
func NewVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// NewResetToken returns 32 random bytes hex-encoded (64 characters). The
// token has enough entropy that its hash doubles as a safe lookup key.
func NewResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Hash returns the hex SHA-256 digest stored in place of the plaintext.
func Hash(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// Matches reports whether plain corresponds to storedHash and the secret is
// still active at now. An absent hash or expiry means no active secret.
func Matches(storedHash, plain string, expiresAt *time.Time, now time.Time) bool {
	if storedHash == "" || expiresAt == nil {
		return false
	}
	if now.After(*expiresAt) {
		return false
	}
	supplied := Hash(plain)
	return subtle.ConstantTimeCompare([]byte(storedHash), []byte(supplied)) == 1
}
