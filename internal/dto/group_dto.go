package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Group DTOs ---

type CreateGroupRequest struct {
	Name               string `json:"name" validate:"required,min=3"`
	Description        string `json:"description"`
	ContributionAmount int64  `json:"contribution_amount" validate:"required,gt=0"`
	Frequency          string `json:"frequency" validate:"required,oneof=weekly biweekly monthly"`
	TotalSlots         int    `json:"total_slots" validate:"required,min=2,max=52"`
	ServiceFeeBps      int    `json:"service_fee_bps" validate:"min=0,max=1000"`
	SecurityDepositBps int    `json:"security_deposit_bps" validate:"min=0,max=10000"`
	PenaltyRateBps     int    `json:"penalty_rate_bps" validate:"min=0,max=2000"`
}

type GroupResponse struct {
	Id                 uuid.UUID  `json:"id"`
	OwnerId            uuid.UUID  `json:"owner_id"`
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	ContributionAmount int64      `json:"contribution_amount"`
	EntryAmount        int64      `json:"entry_amount"`
	Frequency          string     `json:"frequency"`
	TotalSlots         int        `json:"total_slots"`
	CurrentMemberCount int        `json:"current_member_count"`
	Status             string     `json:"status"`
	ActivatedAt        *time.Time `json:"activated_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type ReserveSlotRequest struct {
	SlotNumber int `json:"slot_number" validate:"required,min=1"`
}

type SlotResponse struct {
	SlotNumber    int        `json:"slot_number"`
	Status        string     `json:"status"`
	ReservedUntil *time.Time `json:"reserved_until,omitempty"`
	Mine          bool       `json:"mine"`
}

type SlotBoardResponse struct {
	GroupId uuid.UUID      `json:"group_id"`
	Slots   []SlotResponse `json:"slots"`
}

type MembershipResponse struct {
	Id           uuid.UUID  `json:"id"`
	GroupId      uuid.UUID  `json:"group_id"`
	UserId       uuid.UUID  `json:"user_id"`
	SlotNumber   int        `json:"slot_number"`
	Status       string     `json:"status"`
	HasPaidEntry bool       `json:"has_paid_entry"`
	JoinedAt     *time.Time `json:"joined_at,omitempty"`
}

type CycleResponse struct {
	CycleNumber     int        `json:"cycle_number"`
	RecipientSlot   int        `json:"recipient_slot"`
	Status          string     `json:"status"`
	CollectedAmount int64      `json:"collected_amount"`
	StartsAt        *time.Time `json:"starts_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// --- Scan DTOs ---

type ScanResponse struct {
	PenaltiesApplied int `json:"penalties_applied"`
	CyclesAdvanced   int `json:"cycles_advanced"`
	GroupsCompleted  int `json:"groups_completed"`
}
