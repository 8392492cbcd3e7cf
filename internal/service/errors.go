package service

import "errors"

var (
	// ErrSlotUnavailable means the requested slot is reserved by someone
	// else or already assigned.
	ErrSlotUnavailable = errors.New("slot unavailable")
	// ErrNoSlotsAvailable means the group has no free slot left at all.
	ErrNoSlotsAvailable = errors.New("no slots available")
	// ErrAmountMismatch means the gateway reported a different amount than
	// the recorded attempt expects. The payment fails closed.
	ErrAmountMismatch = errors.New("amount mismatch")
	// ErrGatewayUnreachable means verification retries were exhausted; the
	// payment stays pending, it is not a failure.
	ErrGatewayUnreachable = errors.New("gateway unreachable")
	// ErrInvalidSignature means a webhook failed authentication.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrAlreadyProcessed means another caller settled this reference
	// first. Treated as success with no new side effects.
	ErrAlreadyProcessed = errors.New("payment already processed")

	ErrGroupNotFound    = errors.New("group not found")
	ErrGroupNotJoinable = errors.New("group is not accepting members")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrAlreadyMember    = errors.New("user already holds a slot in this group")
)
