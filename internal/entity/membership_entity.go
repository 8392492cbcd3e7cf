package entity

import (
	"time"

	"github.com/google/uuid"
)

type MembershipStatus string

const (
	MembershipStatusPending   MembershipStatus = "pending"
	MembershipStatusActive    MembershipStatus = "active"
	MembershipStatusSuspended MembershipStatus = "suspended"
	MembershipStatusRemoved   MembershipStatus = "removed"
)

// Membership links a user to a group slot. It is only ever created by
// payment activation; a join request alone produces a slot reservation.
type Membership struct {
	Id           uuid.UUID
	GroupId      uuid.UUID
	UserId       uuid.UUID
	SlotNumber   int
	HasPaidEntry bool
	Status       MembershipStatus
	JoinedAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
