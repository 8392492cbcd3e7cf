package gateway

import (
	"crypto/sha512"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMidtransStatus(t *testing.T) {
	cases := []struct {
		transaction string
		fraud       string
		want        Status
	}{
		{"capture", "accept", StatusSuccess},
		{"capture", "", StatusSuccess},
		{"capture", "challenge", StatusPending},
		{"settlement", "", StatusSuccess},
		{"deny", "", StatusFailed},
		{"cancel", "", StatusFailed},
		{"expire", "", StatusFailed},
		{"failure", "", StatusFailed},
		{"pending", "", StatusPending},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, normalizeMidtransStatus(c.transaction, c.fraud),
			"transaction=%s fraud=%s", c.transaction, c.fraud)
	}
}

func TestMidtransVerifyWebhook(t *testing.T) {
	serverKey := "SB-Mid-server-test"
	p := NewMidtransProvider(serverKey, false)

	makeBody := func(orderId, statusCode, grossAmount, txStatus string, sign bool) []byte {
		payload := map[string]string{
			"order_id":           orderId,
			"status_code":        statusCode,
			"gross_amount":       grossAmount,
			"transaction_status": txStatus,
			"fraud_status":       "accept",
		}
		if sign {
			input := orderId + statusCode + grossAmount + serverKey
			payload["signature_key"] = fmt.Sprintf("%x", sha512.Sum512([]byte(input)))
		} else {
			payload["signature_key"] = "deadbeef"
		}
		body, _ := json.Marshal(payload)
		return body
	}

	t.Run("Valid Signature", func(t *testing.T) {
		body := makeBody("AJO-ref1", "200", "6000.00", "settlement", true)
		event, err := p.VerifyWebhook("", body)
		assert.NoError(t, err)
		assert.Equal(t, "AJO-ref1", event.Reference)
		assert.Equal(t, StatusSuccess, event.Status)
		assert.Equal(t, int64(6000), event.Amount)
	})

	t.Run("Invalid Signature", func(t *testing.T) {
		body := makeBody("AJO-ref1", "200", "6000.00", "settlement", false)
		_, err := p.VerifyWebhook("", body)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("Failed Transaction Status", func(t *testing.T) {
		body := makeBody("AJO-ref2", "202", "6000.00", "deny", true)
		event, err := p.VerifyWebhook("", body)
		assert.NoError(t, err)
		assert.Equal(t, StatusFailed, event.Status)
	})
}
