package gateway

import (
	"context"
	"crypto/sha512"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

// MidtransProvider drives Midtrans Snap checkout plus the Core API for
// verification. The reference doubles as the Midtrans order id.
type MidtransProvider struct {
	serverKey string
	snap      snap.Client
	core      coreapi.Client
}

func NewMidtransProvider(serverKey string, production bool) *MidtransProvider {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	p := &MidtransProvider{serverKey: serverKey}
	p.snap.New(serverKey, env)
	p.core.New(serverKey, env)
	return p
}

func (p *MidtransProvider) Name() string {
	return "midtrans"
}

func (p *MidtransProvider) InitializeCharge(ctx context.Context, req InitializeRequest) (*InitializedCharge, error) {
	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.Reference,
			GrossAmt: req.Amount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: req.CallbackURL,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			Email: req.Email,
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := p.snap.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	return &InitializedCharge{
		Reference:        req.Reference,
		AuthorizationURL: snapResp.RedirectURL,
		AccessCode:       snapResp.Token,
	}, nil
}

func (p *MidtransProvider) VerifyCharge(ctx context.Context, reference string) (*ChargeVerification, error) {
	txResp, midErr := p.core.CheckTransaction(reference)
	if midErr != nil {
		if midErr.StatusCode == 404 {
			return nil, ErrTransactionNotFound
		}
		if midErr.StatusCode >= 500 || midErr.StatusCode == 0 {
			return nil, fmt.Errorf("%w: %v", ErrUnreachable, midErr.GetMessage())
		}
		return nil, fmt.Errorf("midtrans verify error: %v", midErr.GetMessage())
	}

	amount, _ := strconv.ParseFloat(txResp.GrossAmount, 64)
	return &ChargeVerification{
		Reference: txResp.OrderID,
		Status:    normalizeMidtransStatus(txResp.TransactionStatus, txResp.FraudStatus),
		Amount:    int64(amount),
		Currency:  txResp.Currency,
	}, nil
}

func normalizeMidtransStatus(transactionStatus, fraudStatus string) Status {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "accept" || fraudStatus == "" {
			return StatusSuccess
		}
		return StatusPending
	case "settlement":
		return StatusSuccess
	case "deny", "cancel", "expire", "failure":
		return StatusFailed
	default:
		return StatusPending
	}
}

type midtransWebhookPayload struct {
	OrderId           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
}

// VerifyWebhook authenticates a Midtrans notification. Midtrans embeds
// the signature in the body rather than a header:
// SHA512(order_id + status_code + gross_amount + server_key).
func (p *MidtransProvider) VerifyWebhook(signature string, body []byte) (*WebhookEvent, error) {
	var payload midtransWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode webhook payload: %w", err)
	}

	signatureInput := payload.OrderId + payload.StatusCode + payload.GrossAmount + p.serverKey
	expected := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))
	if payload.SignatureKey != expected {
		return nil, ErrInvalidSignature
	}

	amount, _ := strconv.ParseFloat(payload.GrossAmount, 64)
	return &WebhookEvent{
		Event:     "charge." + payload.TransactionStatus,
		Reference: payload.OrderId,
		Status:    normalizeMidtransStatus(payload.TransactionStatus, payload.FraudStatus),
		Amount:    int64(amount),
	}, nil
}
