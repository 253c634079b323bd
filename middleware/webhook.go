package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NickVeles/portfolio-ecommerce/payments"
)

// paymentCheckFields is the exact field order the provider concatenates
// when computing the webhook check digest.
var paymentCheckFields = []string{
	"evt_id", "evt_type", "session_id", "payment_ref",
	"payment_status", "amount", "currency",
}

// PaymentCheckDigest computes the provider's webhook signature: a SHA-256
// over the secret and the check fields joined with ":".
func PaymentCheckDigest(secret string, form map[string]string) string {
	parts := []string{secret}
	for _, f := range paymentCheckFields {
		parts = append(parts, strings.TrimSpace(form[f]))
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])
}

// PaymentWebhookAuth verifies the payment webhook signature, skips the check
// when the provider client runs against the sandbox.
func PaymentWebhookAuth(pc *payments.Client) gin.HandlerFunc {
	secretKey := os.Getenv("PAYMENTS_WEBHOOK_SECRET")
	if secretKey == "" {
		panic("PAYMENTS_WEBHOOK_SECRET is not set")
	}

	return func(c *gin.Context) {
		if pc.Sandbox() {
			log.Println("Sandbox mode: skipping payment webhook signature verification")
			c.Next()
			return
		}

		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse form for signature verification"})
			c.Abort()
			return
		}

		providedCheck := c.PostForm("evt_check")
		if providedCheck == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "missing evt_check signature"})
			c.Abort()
			return
		}

		form := make(map[string]string, len(paymentCheckFields))
		for _, f := range paymentCheckFields {
			form[f] = c.PostForm(f)
		}
		calculated := PaymentCheckDigest(secretKey, form)

		if !hmac.Equal([]byte(strings.ToLower(providedCheck)), []byte(calculated)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid webhook signature"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// IdentityWebhookAuth verifies the identity provider's webhook: an
// HMAC-SHA256 of the raw body in the X-Webhook-Signature header. The body
// is restored for the downstream handler.
func IdentityWebhookAuth() gin.HandlerFunc {
	secretKey := os.Getenv("IDENTITY_WEBHOOK_SECRET")
	if secretKey == "" {
		panic("IDENTITY_WEBHOOK_SECRET is not set")
	}

	return func(c *gin.Context) {
		provided := c.GetHeader("X-Webhook-Signature")
		if provided == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "missing webhook signature"})
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		mac := hmac.New(sha256.New, []byte(secretKey))
		mac.Write(body)
		calculated := hex.EncodeToString(mac.Sum(nil))

		if !hmac.Equal([]byte(strings.ToLower(provided)), []byte(calculated)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid webhook signature"})
			c.Abort()
			return
		}

		c.Next()
	}
}
