package gateway

import (
	"context"
	"errors"
)

// Status is the normalized outcome of a gateway charge.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusPending Status = "pending"
)

var (
	// ErrTransactionNotFound means the gateway has no record of the
	// reference. Callers treat this as failed after exhausting retries,
	// never as success.
	ErrTransactionNotFound = errors.New("gateway: transaction not found")
	// ErrInvalidSignature means the webhook payload failed authentication.
	ErrInvalidSignature = errors.New("gateway: invalid webhook signature")
	// ErrUnreachable wraps transient transport failures that are worth
	// retrying.
	ErrUnreachable = errors.New("gateway: unreachable")
)

// InitializeRequest carries what providers need to open a checkout.
// Amount is in the smallest currency unit.
type InitializeRequest struct {
	Reference   string
	Amount      int64
	Currency    string
	Email       string
	CallbackURL string
}

// InitializedCharge is the checkout handle returned to the client.
type InitializedCharge struct {
	Reference        string
	AuthorizationURL string
	AccessCode       string
}

// ChargeVerification is the normalized result of verifying a reference.
type ChargeVerification struct {
	Reference string
	Status    Status
	Amount    int64
	Currency  string
}

// WebhookEvent is a normalized inbound gateway notification.
type WebhookEvent struct {
	Event     string
	Reference string
	Status    Status
	Amount    int64
}

// Provider abstracts one payment gateway. Implementations must be safe
// for concurrent use; the same reference may be verified from the sync
// path and the webhook path at once.
type Provider interface {
	Name() string
	InitializeCharge(ctx context.Context, req InitializeRequest) (*InitializedCharge, error)
	VerifyCharge(ctx context.Context, reference string) (*ChargeVerification, error)
	// VerifyWebhook authenticates the raw request body against the
	// provider's signature scheme before any parsing side effects.
	VerifyWebhook(signature string, body []byte) (*WebhookEvent, error)
}
