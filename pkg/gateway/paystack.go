package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// PaystackProvider talks to the Paystack REST API. Amounts are already in
// kobo on the wire, so no unit conversion happens here.
type PaystackProvider struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewPaystackProvider(secretKey string) *PaystackProvider {
	return &PaystackProvider{
		secretKey: secretKey,
		baseURL:   "https://api.paystack.co",
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewPaystackProviderWithBaseURL exists for tests against a stub server.
func NewPaystackProviderWithBaseURL(secretKey, baseURL string) *PaystackProvider {
	p := NewPaystackProvider(secretKey)
	p.baseURL = strings.TrimRight(baseURL, "/")
	return p
}

func (p *PaystackProvider) Name() string {
	return "paystack"
}

type paystackInitRequest struct {
	Reference   string `json:"reference"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency,omitempty"`
	Email       string `json:"email"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type paystackInitResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type paystackVerifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
	} `json:"data"`
}

func (p *PaystackProvider) InitializeCharge(ctx context.Context, req InitializeRequest) (*InitializedCharge, error) {
	body, err := json.Marshal(paystackInitRequest{
		Reference:   req.Reference,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Email:       req.Email,
		CallbackURL: req.CallbackURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/transaction/initialize", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.secretKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paystack initialize error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var initResp paystackInitResponse
	if err := json.Unmarshal(bodyBytes, &initResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !initResp.Status {
		return nil, fmt.Errorf("paystack initialize rejected: %s", initResp.Message)
	}

	return &InitializedCharge{
		Reference:        initResp.Data.Reference,
		AuthorizationURL: initResp.Data.AuthorizationURL,
		AccessCode:       initResp.Data.AccessCode,
	}, nil
}

func (p *PaystackProvider) VerifyCharge(ctx context.Context, reference string) (*ChargeVerification, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.secretKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrTransactionNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("paystack verify error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var verifyResp paystackVerifyResponse
	if err := json.Unmarshal(bodyBytes, &verifyResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !verifyResp.Status {
		return nil, ErrTransactionNotFound
	}

	return &ChargeVerification{
		Reference: verifyResp.Data.Reference,
		Status:    normalizePaystackStatus(verifyResp.Data.Status),
		Amount:    verifyResp.Data.Amount,
		Currency:  verifyResp.Data.Currency,
	}, nil
}

func normalizePaystackStatus(status string) Status {
	switch status {
	case "success":
		return StatusSuccess
	case "failed", "abandoned", "reversed":
		return StatusFailed
	default:
		return StatusPending
	}
}

type paystackWebhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
	} `json:"data"`
}

// VerifyWebhook checks the HMAC-SHA512 signature Paystack computes over
// the raw request body with the secret key.
func (p *PaystackProvider) VerifyWebhook(signature string, body []byte) (*WebhookEvent, error) {
	mac := hmac.New(sha512.New, []byte(p.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if signature == "" || !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, ErrInvalidSignature
	}

	var payload paystackWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode webhook payload: %w", err)
	}

	return &WebhookEvent{
		Event:     payload.Event,
		Reference: payload.Data.Reference,
		Status:    normalizePaystackStatus(payload.Data.Status),
		Amount:    payload.Data.Amount,
	}, nil
}
