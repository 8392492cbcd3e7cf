package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Payment DTOs ---

type InitiatePaymentRequest struct {
	GroupId        uuid.UUID `json:"group_id" validate:"required"`
	Purpose        string    `json:"purpose" validate:"required,oneof=entry_payment recurring_contribution"`
	Email          string    `json:"email" validate:"required,email"`
	SlotPreference int       `json:"slot_preference" validate:"min=0"`
	CycleNumber    int       `json:"cycle_number" validate:"min=0"`
}

type InitiatePaymentResponse struct {
	Reference        string `json:"reference"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Provider         string `json:"provider"`
	AuthorizationURL string `json:"authorization_url,omitempty"`
	AccessCode       string `json:"access_code,omitempty"`
}

type VerificationResponse struct {
	Reference          string     `json:"reference"`
	VerificationStatus string     `json:"verification_status"`
	Processed          bool       `json:"processed"`
	MembershipId       *uuid.UUID `json:"membership_id,omitempty"`
	SlotNumber         *int       `json:"slot_number,omitempty"`
}

type TransactionResponse struct {
	Id          uuid.UUID `json:"id"`
	GroupId     uuid.UUID `json:"group_id"`
	Type        string    `json:"type"`
	Amount      int64     `json:"amount"`
	CycleNumber int       `json:"cycle_number"`
	Reference   *string   `json:"reference,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
