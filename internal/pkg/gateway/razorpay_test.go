package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "test_secret"

	t.Run("Valid signature accepted", func(t *testing.T) {
		sig := sign("order_abc", "pay_123", secret)
		assert.True(t, VerifySignature("order_abc", "pay_123", sig, secret))
	})

	t.Run("Tampered payment id rejected", func(t *testing.T) {
		sig := sign("order_abc", "pay_123", secret)
		assert.False(t, VerifySignature("order_abc", "pay_999", sig, secret))
	})

	t.Run("Wrong secret rejected", func(t *testing.T) {
		sig := sign("order_abc", "pay_123", "another_secret")
		assert.False(t, VerifySignature("order_abc", "pay_123", sig, secret))
	})

	t.Run("Empty signature rejected", func(t *testing.T) {
		assert.False(t, VerifySignature("order_abc", "pay_123", "", secret))
	})
}
