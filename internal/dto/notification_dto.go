package dto

import "github.com/google/uuid"

// Notification kinds carried on the in-process pipeline.
const (
	NotifyPaymentReceipt  = "payment_receipt"
	NotifyPayoutSettled   = "payout_settled"
	NotifyOverduePenalty  = "overdue_penalty"
	NotifyMemberActivated = "member_activated"
)

// NotifyMessage is the payload published to the notification pipeline.
// Only the fields relevant to the Kind are populated.
type NotifyMessage struct {
	Kind        string    `json:"kind"`
	UserId      uuid.UUID `json:"user_id"`
	Email       string    `json:"email,omitempty"`
	GroupId     uuid.UUID `json:"group_id"`
	GroupName   string    `json:"group_name"`
	Reference   string    `json:"reference,omitempty"`
	CycleNumber int       `json:"cycle_number,omitempty"`
	SlotNumber  int       `json:"slot_number,omitempty"`
	Amount      int64     `json:"amount,omitempty"`
	Penalty     int64     `json:"penalty,omitempty"`
}
