package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaystackInitializeCharge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/abc","access_code":"abc","reference":"AJO-ref1"}}`))
	}))
	defer server.Close()

	p := NewPaystackProviderWithBaseURL("sk_test_key", server.URL)
	charge, err := p.InitializeCharge(context.Background(), InitializeRequest{
		Reference: "AJO-ref1",
		Amount:    600000,
		Currency:  "NGN",
		Email:     "trader@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, "AJO-ref1", charge.Reference)
	assert.Equal(t, "https://checkout.paystack.com/abc", charge.AuthorizationURL)
	assert.Equal(t, "abc", charge.AccessCode)
}

func TestPaystackVerifyCharge(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/transaction/verify/AJO-ref1", r.URL.Path)
			w.Write([]byte(`{"status":true,"data":{"status":"success","reference":"AJO-ref1","amount":600000,"currency":"NGN"}}`))
		}))
		defer server.Close()

		p := NewPaystackProviderWithBaseURL("sk", server.URL)
		v, err := p.VerifyCharge(context.Background(), "AJO-ref1")
		assert.NoError(t, err)
		assert.Equal(t, StatusSuccess, v.Status)
		assert.Equal(t, int64(600000), v.Amount)
	})

	t.Run("Abandoned Normalizes To Failed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":true,"data":{"status":"abandoned","reference":"AJO-ref2","amount":600000,"currency":"NGN"}}`))
		}))
		defer server.Close()

		p := NewPaystackProviderWithBaseURL("sk", server.URL)
		v, err := p.VerifyCharge(context.Background(), "AJO-ref2")
		assert.NoError(t, err)
		assert.Equal(t, StatusFailed, v.Status)
	})

	t.Run("Unknown Status Stays Pending", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":true,"data":{"status":"ongoing","reference":"AJO-ref3","amount":600000,"currency":"NGN"}}`))
		}))
		defer server.Close()

		p := NewPaystackProviderWithBaseURL("sk", server.URL)
		v, err := p.VerifyCharge(context.Background(), "AJO-ref3")
		assert.NoError(t, err)
		assert.Equal(t, StatusPending, v.Status)
	})

	t.Run("Not Found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		p := NewPaystackProviderWithBaseURL("sk", server.URL)
		_, err := p.VerifyCharge(context.Background(), "AJO-missing")
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})

	t.Run("Server Error Is Unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		p := NewPaystackProviderWithBaseURL("sk", server.URL)
		_, err := p.VerifyCharge(context.Background(), "AJO-ref4")
		assert.True(t, errors.Is(err, ErrUnreachable))
	})
}

func TestPaystackVerifyWebhook(t *testing.T) {
	secret := "sk_test_webhook"
	body := []byte(`{"event":"charge.success","data":{"reference":"AJO-ref5","status":"success","amount":600000}}`)

	sign := func(payload []byte) string {
		mac := hmac.New(sha512.New, []byte(secret))
		mac.Write(payload)
		return hex.EncodeToString(mac.Sum(nil))
	}

	p := NewPaystackProvider(secret)

	t.Run("Valid Signature", func(t *testing.T) {
		event, err := p.VerifyWebhook(sign(body), body)
		assert.NoError(t, err)
		assert.Equal(t, "charge.success", event.Event)
		assert.Equal(t, "AJO-ref5", event.Reference)
		assert.Equal(t, StatusSuccess, event.Status)
	})

	t.Run("Tampered Body", func(t *testing.T) {
		tampered := []byte(`{"event":"charge.success","data":{"reference":"AJO-ref5","status":"success","amount":999999}}`)
		_, err := p.VerifyWebhook(sign(body), tampered)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("Missing Signature", func(t *testing.T) {
		_, err := p.VerifyWebhook("", body)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
}
