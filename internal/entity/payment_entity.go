package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentPurpose string
type VerificationStatus string
type TransactionType string

const (
	PurposeEntryPayment          PaymentPurpose = "entry_payment"
	PurposeRecurringContribution PaymentPurpose = "recurring_contribution"

	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusVerified VerificationStatus = "verified"
	VerificationStatusFailed   VerificationStatus = "failed"

	TransactionEntryPayment    TransactionType = "entry_payment"
	TransactionSecurityDeposit TransactionType = "security_deposit"
	TransactionContribution    TransactionType = "contribution"
	TransactionPayout          TransactionType = "payout"
	TransactionServiceFee      TransactionType = "service_fee"
	TransactionPenalty         TransactionType = "penalty"
)

// PaymentRecord is the system of record for a payment attempt. Reference
// is the idempotency key shared by the sync verification path and the
// gateway webhook; Processed flips exactly once, and only the caller that
// flips it may apply side effects.
type PaymentRecord struct {
	Id                 uuid.UUID
	Reference          string
	GroupId            uuid.UUID
	UserId             uuid.UUID
	Email              string // receipt address captured at initiation
	Purpose            PaymentPurpose
	Amount             int64 // expected total for the recorded purpose
	SlotPreference     int   // 0 means "any"
	CycleNumber        int   // recurring contributions only
	VerificationStatus VerificationStatus
	GatewayStatus      *string
	GatewayAmount      *int64
	Processed          bool
	ProcessedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Transaction is a settlement posting derived from a verified payment,
// payout or penalty. Positive amounts credit the group pool, negative
// amounts leave it.
type Transaction struct {
	Id           uuid.UUID
	GroupId      uuid.UUID
	MembershipId *uuid.UUID
	Type         TransactionType
	Amount       int64
	CycleNumber  int
	Reference    *string
	CreatedAt    time.Time
}
