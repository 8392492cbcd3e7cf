package entity

import (
	"time"

	"github.com/google/uuid"
)

type GroupStatus string
type SlotStatus string
type ContributionFrequency string

const (
	GroupStatusForming   GroupStatus = "forming"
	GroupStatusActive    GroupStatus = "active"
	GroupStatusPaused    GroupStatus = "paused"
	GroupStatusCompleted GroupStatus = "completed"
	GroupStatusCancelled GroupStatus = "cancelled"

	SlotStatusAvailable SlotStatus = "available"
	SlotStatusReserved  SlotStatus = "reserved"
	SlotStatusAssigned  SlotStatus = "assigned"

	FrequencyWeekly   ContributionFrequency = "weekly"
	FrequencyBiweekly ContributionFrequency = "biweekly"
	FrequencyMonthly  ContributionFrequency = "monthly"
)

// Group is a rotating savings circle: a fixed set of slots, one payout
// cycle per slot. All monetary fields are in the smallest currency unit.
type Group struct {
	Id                 uuid.UUID
	OwnerId            uuid.UUID
	Name               string
	Description        string
	ContributionAmount int64
	Frequency          ContributionFrequency
	TotalSlots         int
	ServiceFeeBps      int // payout fee, basis points
	SecurityDepositBps int // entry deposit on top of the first contribution
	PenaltyRateBps     int // per overdue contribution
	Status             GroupStatus
	CurrentMemberCount int
	ActivatedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// EntryAmount is the total a joining member must pay: the first
// contribution plus the security deposit.
func (g *Group) EntryAmount() int64 {
	deposit := g.ContributionAmount * int64(g.SecurityDepositBps) / 10000
	return g.ContributionAmount + deposit
}

// NextDueDate returns the contribution deadline for the given cycle,
// counted in whole periods from the group's activation time.
func (f ContributionFrequency) NextDueDate(activatedAt time.Time, cycleNumber int) time.Time {
	switch f {
	case FrequencyWeekly:
		return activatedAt.AddDate(0, 0, 7*cycleNumber)
	case FrequencyBiweekly:
		return activatedAt.AddDate(0, 0, 14*cycleNumber)
	default:
		return activatedAt.AddDate(0, cycleNumber, 0)
	}
}

// Slot is one rotation position. Its number doubles as the cycle index
// at which its holder receives the payout.
type Slot struct {
	Id            uuid.UUID
	GroupId       uuid.UUID
	SlotNumber    int
	Status        SlotStatus
	ReservedBy    *uuid.UUID
	ReservedUntil *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReservationExpired reports whether a reserved slot's hold has lapsed.
// Expired reservations count as available on the next allocation attempt.
func (s *Slot) ReservationExpired(now time.Time) bool {
	return s.Status == SlotStatusReserved && s.ReservedUntil != nil && s.ReservedUntil.Before(now)
}
