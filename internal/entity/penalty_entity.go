package entity

import (
	"time"

	"github.com/google/uuid"
)

type PenaltyStatus string

const (
	PenaltyStatusApplied PenaltyStatus = "applied"
	PenaltyStatusPaid    PenaltyStatus = "paid"
	PenaltyStatusWaived  PenaltyStatus = "waived"
)

// Penalty is derived from an overdue contribution by the scheduled scan.
// A contribution carries at most one applied penalty.
type Penalty struct {
	Id             uuid.UUID
	GroupId        uuid.UUID
	MembershipId   uuid.UUID
	ContributionId uuid.UUID
	Amount         int64
	Status         PenaltyStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
