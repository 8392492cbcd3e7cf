package model

import (
	"time"

	"github.com/google/uuid"
)

type Group struct {
	Id                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerId            uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name               string     `gorm:"type:varchar(255);not null"`
	Description        string     `gorm:"type:text"`
	ContributionAmount int64      `gorm:"not null"`
	Frequency          string     `gorm:"type:varchar(20);not null;default:'monthly'"`
	TotalSlots         int        `gorm:"not null"`
	ServiceFeeBps      int        `gorm:"not null;default:0"`
	SecurityDepositBps int        `gorm:"not null;default:0"`
	PenaltyRateBps     int        `gorm:"not null;default:500"`
	Status             string     `gorm:"type:varchar(20);not null;default:'forming';index"`
	CurrentMemberCount int        `gorm:"not null;default:0"`
	ActivatedAt        *time.Time `gorm:""`
	CreatedAt          time.Time  `gorm:"autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime"`
}

func (Group) TableName() string {
	return "groups"
}

type Slot struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GroupId       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_slots_group_number"`
	SlotNumber    int        `gorm:"not null;uniqueIndex:idx_slots_group_number"`
	Status        string     `gorm:"type:varchar(20);not null;default:'available'"`
	ReservedBy    *uuid.UUID `gorm:"type:uuid"`
	ReservedUntil *time.Time `gorm:""`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

func (Slot) TableName() string {
	return "slots"
}
