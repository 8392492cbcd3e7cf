package entity

import (
	"time"

	"github.com/google/uuid"
)

type CycleStatus string
type ContributionStatus string

const (
	CycleStatusPending   CycleStatus = "pending"
	CycleStatusActive    CycleStatus = "active"
	CycleStatusCompleted CycleStatus = "completed"

	ContributionStatusPending ContributionStatus = "pending"
	ContributionStatusPaid    ContributionStatus = "paid"
	ContributionStatusOverdue ContributionStatus = "overdue"
	ContributionStatusWaived  ContributionStatus = "waived"
)

// ContributionCycle is one full round of contributions ending in a payout
// to the member holding RecipientSlot. At most one cycle per group is
// active, and cycles activate strictly in ascending order.
type ContributionCycle struct {
	Id              uuid.UUID
	GroupId         uuid.UUID
	CycleNumber     int
	RecipientSlot   int
	Status          CycleStatus
	CollectedAmount int64
	StartsAt        *time.Time
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Contribution is one member's obligation for one cycle. Cycle number 0 is
// the opening contribution settled by the entry payment.
type Contribution struct {
	Id               uuid.UUID
	GroupId          uuid.UUID
	MembershipId     uuid.UUID
	CycleNumber      int
	Amount           int64
	Status           ContributionStatus
	DueDate          time.Time
	PaidAt           *time.Time
	PaymentReference *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
